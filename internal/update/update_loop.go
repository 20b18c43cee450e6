package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/habitd/habitd/internal/i18n"
	"github.com/habitd/habitd/internal/scheduler"
	"github.com/habitd/habitd/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{minuteTickCmd()}
	if m.Engine != nil {
		cmds = append(cmds, waitForAlarmCmd(m.Engine.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		if m.CurrentView == ViewAdd {
			return m.handleAddKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Habits:
			m.CurrentView = ViewHabits
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, nil
		case m.Keys.Settings:
			m.CurrentView = ViewSettings
			return m, nil
		case m.Keys.Add:
			return m.openAddForm(), nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewHabits:
			return m.handleHabitsKey(typed), nil
		case ViewSettings:
			return m.handleSettingsKey(typed), nil
		}
		return m, nil

	case MinuteTickMsg:
		if m.Tracker.Reconcile() {
			m.Status = StatusBar{Text: "daily reset applied"}
		}
		m = m.clampCursor()
		return m, minuteTickCmd()

	case AlarmDueMsg:
		m = m.onAlarmDue(typed.Alarm)
		if m.Engine != nil {
			return m, waitForAlarmCmd(m.Engine.C())
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	msgs := i18n.T(m.Tracker.Settings().Language)

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("error: %s", m.Status.Text)
		} else {
			status = m.Status.Text
		}
	}

	body := ""
	switch m.CurrentView {
	case ViewHabits:
		body = m.renderHabitsView(msgs)
	case ViewAdd:
		body = m.renderAddForm(msgs)
	case ViewStats:
		body = m.renderStatsView(msgs)
	case ViewSettings:
		body = m.renderSettingsView(msgs)
	}
	if m.HelpVisible {
		body += "\n\n" + views.RenderMarkdown(helpMarkdown)
	}
	if m.Palette.Active {
		body += "\n\n> " + m.commandInput.View()
	}

	notification := ""
	if m.LastAlarm != nil {
		notification = fmt.Sprintf("%s %s (%s)", msgs.NotificationTitle, msgs.NotificationBody(m.LastAlarm.Name, m.LastAlarm.TimeOfDay), m.LastAlarmAt.Format("15:04"))
	}

	done, total := m.Tracker.DoneCount()
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("%s | %s | %s", msgs.AppTitle, m.CurrentView, views.ProgressSummary(done, total, msgs.DoneToday)),
		Body:         body,
		StatusLine:   status,
		StatusIsErr:  m.Status.IsError,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s habits | %s stats | %s settings | %s add | / cmd | %s help | %s quit",
			m.Keys.Habits, m.Keys.Stats, m.Keys.Settings, m.Keys.Add, m.Keys.Help, m.Keys.Quit),
	})
}

func waitForAlarmCmd(ch <-chan scheduler.Alarm) tea.Cmd {
	return func() tea.Msg {
		alarm, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmDueMsg{Alarm: alarm}
	}
}

func minuteTickCmd() tea.Cmd {
	return tea.Tick(time.Until(time.Now().Truncate(time.Minute).Add(time.Minute)), func(t time.Time) tea.Msg {
		return MinuteTickMsg{At: t}
	})
}
