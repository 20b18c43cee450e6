package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/habitd/habitd/internal/i18n"
	"github.com/habitd/habitd/internal/model"
	"github.com/habitd/habitd/internal/views"
)

func (m Model) openAddForm() Model {
	m.CurrentView = ViewAdd
	m.Form.Name.SetValue("")
	m.Form.TimeOfDay.SetValue("")
	m.Form.FreqIdx = 0
	m.Form.ColorIdx = 0
	m.Form.Focus = fieldName
	m.Form.Err = ""
	m.Form.Name.Focus()
	m.Form.TimeOfDay.Blur()
	return m
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewHabits
		m.Status = StatusBar{Text: "add cancelled"}
		return m, nil
	case "tab", "down":
		m = m.focusFormField((m.Form.Focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m = m.focusFormField((m.Form.Focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "enter":
		return m.submitAddForm(), nil
	case "left":
		m = m.cycleFormChoice(-1)
		return m, nil
	case "right":
		m = m.cycleFormChoice(1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.Form.Focus {
	case fieldName:
		m.Form.Name, cmd = m.Form.Name.Update(msg)
	case fieldTime:
		m.Form.TimeOfDay, cmd = m.Form.TimeOfDay.Update(msg)
	}
	return m, cmd
}

func (m Model) focusFormField(field int) Model {
	m.Form.Focus = field
	m.Form.Name.Blur()
	m.Form.TimeOfDay.Blur()
	switch field {
	case fieldName:
		m.Form.Name.Focus()
	case fieldTime:
		m.Form.TimeOfDay.Focus()
	}
	return m
}

func (m Model) cycleFormChoice(delta int) Model {
	switch m.Form.Focus {
	case fieldFrequency:
		n := len(model.Frequencies())
		m.Form.FreqIdx = (m.Form.FreqIdx + delta + n) % n
	case fieldColor:
		n := len(model.Colors())
		m.Form.ColorIdx = (m.Form.ColorIdx + delta + n) % n
	}
	return m
}

func (m Model) submitAddForm() Model {
	name := strings.TrimSpace(m.Form.Name.Value())
	timeOfDay := strings.TrimSpace(m.Form.TimeOfDay.Value())
	freq := model.Frequencies()[m.Form.FreqIdx]
	color := model.Colors()[m.Form.ColorIdx]

	habit, err := m.Tracker.Add(name, timeOfDay, freq, color)
	if err != nil {
		m.Form.Err = err.Error()
		return m
	}
	m.CurrentView = ViewHabits
	m.Form.Err = ""
	m.Status = StatusBar{Text: fmt.Sprintf("added %s at %s", habit.Name, habit.Time)}
	return m.clampCursor()
}

func (m Model) renderAddForm(msgs i18n.Messages) string {
	lang := m.Tracker.Settings().Language
	freq := model.Frequencies()[m.Form.FreqIdx]
	color := model.Colors()[m.Form.ColorIdx]
	return views.RenderAddForm(views.AddFormData{
		Title: msgs.AddHabitHeader,
		Fields: []views.FormField{
			{Label: "Name", View: m.Form.Name.View(), Focused: m.Form.Focus == fieldName},
			{Label: "Time", View: m.Form.TimeOfDay.View(), Focused: m.Form.Focus == fieldTime},
			{Label: "Frequency", View: i18n.FrequencyName(lang, freq), Focused: m.Form.Focus == fieldFrequency},
			{Label: "Color", View: i18n.ColorName(lang, color), Focused: m.Form.Focus == fieldColor},
		},
		Error: m.Form.Err,
		Hint:  "tab: next field | left/right: cycle | enter: save | esc: cancel",
	})
}
