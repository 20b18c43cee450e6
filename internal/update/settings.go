package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/habitd/habitd/internal/i18n"
	"github.com/habitd/habitd/internal/model"
	"github.com/habitd/habitd/internal/views"
)

const (
	settingLanguage = iota
	settingNotifications
	settingExactAlarms
	settingCount
)

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.SettingsUI.Cursor < settingCount-1 {
			m.SettingsUI.Cursor++
		}
		return m
	case "k", "up":
		if m.SettingsUI.Cursor > 0 {
			m.SettingsUI.Cursor--
		}
		return m
	case " ", "enter", "left", "right":
		return m.toggleSetting()
	}
	return m
}

func (m Model) toggleSetting() Model {
	s := m.Tracker.Settings()
	switch m.SettingsUI.Cursor {
	case settingLanguage:
		if s.Language == model.LangEnglish {
			s.Language = model.LangPolish
		} else {
			s.Language = model.LangEnglish
		}
	case settingNotifications:
		s.NotificationsEnabled = !s.NotificationsEnabled
	case settingExactAlarms:
		s.ExactAlarms = !s.ExactAlarms
	}
	if err := m.Tracker.UpdateSettings(s); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: "settings updated"}
	return m
}

func (m Model) renderSettingsView(msgs i18n.Messages) string {
	s := m.Tracker.Settings()
	rows := []views.SettingRow{
		{Label: "Language", Value: string(s.Language), Selected: m.SettingsUI.Cursor == settingLanguage},
		{Label: "Notifications", Value: onOff(s.NotificationsEnabled), Selected: m.SettingsUI.Cursor == settingNotifications},
		{Label: "Exact alarms", Value: onOff(s.ExactAlarms), Selected: m.SettingsUI.Cursor == settingExactAlarms},
	}
	return views.RenderSettings(views.SettingsData{
		Title: msgs.SettingsHeader,
		Rows:  rows,
		Hint:  "space: toggle | j/k: move",
	})
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
