package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("model: invalid time of day")

// Habit is a recurring practice the user wants reminded about once per
// occurrence and checked off once per day. Timestamps are epoch millis in
// the device's local timezone interpretation.
type Habit struct {
	ID            int64
	Name          string
	Time          string // "HH:MM", 24-hour
	Done          bool
	Frequency     Frequency
	Color         Color
	CreatedAt     int64
	LastCompleted *int64
	Streak        int
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("model: habit name is required")
	}
	if _, _, err := ParseTimeOfDay(h.Time); err != nil {
		return err
	}
	if !h.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, h.Frequency)
	}
	if !h.Color.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidColor, h.Color)
	}
	if h.CreatedAt == 0 {
		return errors.New("model: habit created_at is required")
	}
	if h.Streak < 0 {
		return fmt.Errorf("model: habit streak must be non-negative, got %d", h.Streak)
	}
	if h.Done && h.LastCompleted == nil {
		return errors.New("model: last_completed is required when habit is done")
	}
	return nil
}

// LastCompletedTime resolves the completion instant in local time.
// The second return is false when the habit was never completed.
func (h Habit) LastCompletedTime() (time.Time, bool) {
	if h.LastCompleted == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*h.LastCompleted), true
}

// ParseTimeOfDay splits a "HH:MM" value into hour and minute.
func ParseTimeOfDay(value string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return hour, minute, nil
}
