package model

import (
	"errors"
	"fmt"
)

var ErrInvalidFrequency = errors.New("model: invalid habit frequency")

type Frequency string

const (
	FrequencyDaily        Frequency = "daily"
	FrequencyEveryTwoDays Frequency = "every_2_days"
	FrequencyWeekly       Frequency = "weekly"
	FrequencyMonthly      Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyEveryTwoDays, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// IntervalDays is the number of calendar days between reminder occurrences.
func (f Frequency) IntervalDays() int {
	switch f {
	case FrequencyEveryTwoDays:
		return 2
	case FrequencyWeekly:
		return 7
	case FrequencyMonthly:
		return 30
	default:
		return 1
	}
}

func ParseFrequency(value string) (Frequency, error) {
	f := Frequency(value)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, value)
	}
	return f, nil
}

func Frequencies() []Frequency {
	return []Frequency{FrequencyDaily, FrequencyEveryTwoDays, FrequencyWeekly, FrequencyMonthly}
}
