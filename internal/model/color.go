package model

import (
	"errors"
	"fmt"
)

var ErrInvalidColor = errors.New("model: invalid habit color")

type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorBrown  Color = "brown"
	ColorGray   Color = "gray"
)

func (c Color) IsValid() bool {
	switch c {
	case ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorBrown, ColorGray:
		return true
	default:
		return false
	}
}

// Hex returns the display value for the color swatch.
func (c Color) Hex() string {
	switch c {
	case ColorRed:
		return "#E57373"
	case ColorOrange:
		return "#FFB74D"
	case ColorYellow:
		return "#FFF176"
	case ColorGreen:
		return "#81C784"
	case ColorBlue:
		return "#64B5F6"
	case ColorPurple:
		return "#BA68C8"
	case ColorBrown:
		return "#A1887F"
	default:
		return "#B0BEC5"
	}
}

func ParseColor(value string) (Color, error) {
	c := Color(value)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}
	return c, nil
}

func Colors() []Color {
	return []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorBrown, ColorGray}
}
