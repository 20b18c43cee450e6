package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/habitd/habitd/internal/i18n"
	"github.com/habitd/habitd/internal/views"
)

func (m Model) handleHabitsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.Habits.Cursor++
		return m.clampCursor()
	case "k", "up":
		m.Habits.Cursor--
		return m.clampCursor()
	case " ", "enter":
		habit, ok := m.selectedHabit()
		if !ok {
			return m
		}
		updated, err := m.Tracker.Toggle(habit.ID, !habit.Done)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		if updated.Done {
			m.Status = StatusBar{Text: fmt.Sprintf("%s done, streak %d", updated.Name, updated.Streak)}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("%s marked not done", updated.Name)}
		}
		return m
	case "x", "delete":
		habit, ok := m.selectedHabit()
		if !ok {
			return m
		}
		if err := m.Tracker.Remove(habit.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("removed %s", habit.Name)}
		return m.clampCursor()
	}
	return m
}

func (m Model) renderHabitsView(msgs i18n.Messages) string {
	lang := m.Tracker.Settings().Language
	habits := m.Tracker.Habits()
	items := make([]views.HabitItem, 0, len(habits))
	for i, h := range habits {
		items = append(items, views.HabitItem{
			Name:      h.Name,
			TimeOfDay: h.Time,
			Frequency: i18n.FrequencyName(lang, h.Frequency),
			ColorHex:  h.Color.Hex(),
			Done:      h.Done,
			Streak:    h.Streak,
			Selected:  i == m.Habits.Cursor,
		})
	}
	return views.RenderHabits(views.HabitsData{
		Items:       items,
		Empty:       msgs.EmptyList,
		StreakLabel: msgs.StreakLabel,
	})
}

func (m Model) renderStatsView(msgs i18n.Messages) string {
	habits := m.Tracker.Habits()
	done, total := m.Tracker.DoneCount()
	best := 0
	bestName := "-"
	for _, h := range habits {
		if h.Streak > best {
			best = h.Streak
			bestName = h.Name
		}
	}
	rows := []views.StatRow{
		{Label: msgs.HabitsHeader, Value: fmt.Sprintf("%d", total)},
		{Label: msgs.DoneToday, Value: fmt.Sprintf("%d/%d", done, total)},
		{Label: msgs.StreakLabel, Value: fmt.Sprintf("%d (%s)", best, bestName)},
	}
	return views.RenderStats(views.StatsData{Title: msgs.StatsHeader, Rows: rows})
}
