package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/habitd/habitd/internal/model"
	"github.com/habitd/habitd/internal/scheduler"
	"github.com/habitd/habitd/internal/tracker"
)

type View string

const (
	ViewHabits   View = "Habits"
	ViewAdd      View = "Add"
	ViewStats    View = "Stats"
	ViewSettings View = "Settings"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Habits   string
	Stats    string
	Settings string
	Add      string
	Help     string
	Quit     string
}

type HabitsState struct {
	Cursor int
}

const (
	fieldName = iota
	fieldTime
	fieldFrequency
	fieldColor
	fieldCount
)

type AddFormState struct {
	Name      textinput.Model
	TimeOfDay textinput.Model
	FreqIdx   int
	ColorIdx  int
	Focus     int
	Err       string
}

type SettingsState struct {
	Cursor int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView  View
	Habits       HabitsState
	Form         AddFormState
	SettingsUI   SettingsState
	Palette      CommandPaletteState
	Status       StatusBar
	Keys         GlobalKeyMap
	HelpVisible  bool
	Quitting     bool
	LastAlarm    *scheduler.Alarm
	LastAlarmAt  time.Time
	Tracker      *tracker.Tracker
	Engine       *scheduler.Engine
	commandInput textinput.Model
}

type AlarmDueMsg struct {
	Alarm scheduler.Alarm
}

type MinuteTickMsg struct {
	At time.Time
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

func NewModel(tr *tracker.Tracker, engine *scheduler.Engine) Model {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 64
	name.Focus()

	timeOfDay := textinput.New()
	timeOfDay.Placeholder = "HH:MM"
	timeOfDay.CharLimit = 5

	commandInput := textinput.New()
	commandInput.Placeholder = "/add Workout 08:00 daily"

	return Model{
		CurrentView: ViewHabits,
		Form: AddFormState{
			Name:      name,
			TimeOfDay: timeOfDay,
		},
		Keys: GlobalKeyMap{
			Habits:   "1",
			Stats:    "2",
			Settings: "3",
			Add:      "a",
			Help:     "?",
			Quit:     "q",
		},
		Tracker:      tr,
		Engine:       engine,
		commandInput: commandInput,
	}
}

func (m Model) selectedHabit() (model.Habit, bool) {
	habits := m.Tracker.Habits()
	if m.Habits.Cursor < 0 || m.Habits.Cursor >= len(habits) {
		return model.Habit{}, false
	}
	return habits[m.Habits.Cursor], true
}

func (m Model) clampCursor() Model {
	n := len(m.Tracker.Habits())
	if n == 0 {
		m.Habits.Cursor = 0
		return m
	}
	if m.Habits.Cursor >= n {
		m.Habits.Cursor = n - 1
	}
	if m.Habits.Cursor < 0 {
		m.Habits.Cursor = 0
	}
	return m
}
