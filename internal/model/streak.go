package model

import "time"

// Day arithmetic works on local calendar dates: two instants belong to the
// same day iff they share year/month/day in the instant's location, so both
// sides are truncated to local midnight before comparing.

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// DaysBetween counts the calendar-day boundaries crossed from a to b.
// Negative when b's day precedes a's. The half-day rounding keeps DST
// transitions from shifting the count.
func DaysBetween(a, b time.Time) int {
	diff := StartOfDay(b).Sub(StartOfDay(a))
	if diff < 0 {
		return -int((-diff + 12*time.Hour) / (24 * time.Hour))
	}
	return int((diff + 12*time.Hour) / (24 * time.Hour))
}

// ShouldReset reports whether the habit's done flag belongs to a previous
// day and must be cleared before the new day starts.
func ShouldReset(h Habit, now time.Time) bool {
	last, ok := h.LastCompletedTime()
	if !h.Done || !ok {
		return false
	}
	return DaysBetween(last, now) > 0
}

// CalculateStreak recomputes the streak without recording a completion.
// A completion today or yesterday keeps the streak alive; a gap of two or
// more days breaks it.
func CalculateStreak(h Habit, now time.Time) int {
	last, ok := h.LastCompletedTime()
	if !ok {
		return 0
	}
	if DaysBetween(last, now) >= 2 {
		return 0
	}
	return h.Streak
}

// UpdateStreakOnCompletion returns the streak value to store at the moment
// the user marks the habit done. Re-completing on the same day is a no-op,
// completing on the very next day extends the streak, anything later
// restarts it at 1.
func UpdateStreakOnCompletion(h Habit, now time.Time) int {
	last, ok := h.LastCompletedTime()
	if !ok {
		return 1
	}
	switch DaysBetween(last, now) {
	case 0:
		return h.Streak
	case 1:
		return h.Streak + 1
	default:
		return 1
	}
}

// Reconcile applies the daily reset and streak recomputation to every habit
// and reports whether any record changed. Running it twice with the same
// clock yields no further change.
func Reconcile(habits []Habit, now time.Time) ([]Habit, bool) {
	out := make([]Habit, len(habits))
	changed := false
	for i, h := range habits {
		next := h
		next.Streak = CalculateStreak(h, now)
		if ShouldReset(h, now) {
			next.Done = false
		}
		if next != h {
			changed = true
		}
		out[i] = next
	}
	return out, changed
}
