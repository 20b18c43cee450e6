package update

import (
	"fmt"
	"time"

	"github.com/habitd/habitd/internal/scheduler"
)

func (m Model) onAlarmDue(a scheduler.Alarm) Model {
	habit, ok := m.Tracker.OnAlarm(a)
	if !ok {
		// Habit was removed after the alarm was queued.
		return m
	}
	m.LastAlarm = &scheduler.Alarm{HabitID: a.HabitID, Name: habit.Name, TimeOfDay: habit.Time, TriggerAt: a.TriggerAt}
	m.LastAlarmAt = time.Now()
	m.Status = StatusBar{Text: fmt.Sprintf("reminder fired: %s", habit.Name)}
	return m
}
