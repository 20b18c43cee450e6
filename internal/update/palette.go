package update

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/habitd/habitd/internal/commands"
	"github.com/habitd/habitd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			habit, err := m.Tracker.Add(a.Name, a.TimeOfDay, a.Frequency, model.ColorGray)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.CurrentView = ViewHabits
			return commands.Result{Message: fmt.Sprintf("added habit: %s at %s", habit.Name, habit.Time)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			habit, err := m.setDoneByTarget(a.Target, true)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s done, streak %d", habit.Name, habit.Streak)}, nil
		},
		Undo: func(a commands.DoneArgs) (commands.Result, error) {
			habit, err := m.setDoneByTarget(a.Target, false)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s marked not done", habit.Name)}, nil
		},
		Remove: func(a commands.RemoveArgs) (commands.Result, error) {
			habit, ok := m.findByTarget(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no habit matching %q", a.Target)}
			}
			if err := m.Tracker.Remove(habit.ID); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("removed %s", habit.Name)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			switch s.Subject {
			case "habits":
				m.CurrentView = ViewHabits
			case "stats":
				m.CurrentView = ViewStats
			case "settings":
				m.CurrentView = ViewSettings
			}
			return commands.Result{Message: fmt.Sprintf("show %s", s.Subject)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m.clampCursor()
}

// findByTarget matches a habit by numeric id first, then by case-insensitive
// name.
func (m Model) findByTarget(target string) (model.Habit, bool) {
	habits := m.Tracker.Habits()
	if id, err := strconv.ParseInt(target, 10, 64); err == nil {
		for _, h := range habits {
			if h.ID == id {
				return h, true
			}
		}
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, target) {
			return h, true
		}
	}
	return model.Habit{}, false
}

func (m Model) setDoneByTarget(target string, done bool) (model.Habit, error) {
	habit, ok := m.findByTarget(target)
	if !ok {
		return model.Habit{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no habit matching %q", target)}
	}
	updated, err := m.Tracker.Toggle(habit.ID, done)
	if err != nil {
		return model.Habit{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
	}
	return updated, nil
}
