package scheduler

import (
	"time"

	"github.com/habitd/habitd/internal/model"
)

// NextTriggerTime resolves a "HH:MM" time of day to the next matching
// instant strictly after now, in now's location. A slot that already passed
// today lands on tomorrow's slot.
func NextTriggerTime(timeOfDay string, now time.Time) (time.Time, error) {
	hour, minute, err := model.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := now.Date()
	candidate := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}

// NextAfterFire computes the occurrence following a fire, honoring the
// habit's frequency interval. Recurrence is rebuilt from the wall clock on
// every fire rather than kept as a repeating timer, so a missed or delayed
// fire never accumulates drift.
func NextAfterFire(timeOfDay string, freq model.Frequency, now time.Time) (time.Time, error) {
	next, err := NextTriggerTime(timeOfDay, now)
	if err != nil {
		return time.Time{}, err
	}
	if interval := freq.IntervalDays(); interval > 1 {
		next = next.AddDate(0, 0, interval-1)
	}
	return next, nil
}
