// Package i18n maps closed display enums to user-visible text. Every table
// is exhaustive over its enum so adding a variant without translations is a
// test failure, not a runtime fallback to raw identifiers.
package i18n

import (
	"fmt"

	"github.com/habitd/habitd/internal/model"
)

// Messages is the full text bundle for one language.
type Messages struct {
	AppTitle          string
	NotificationTitle string
	HabitsHeader      string
	StatsHeader       string
	SettingsHeader    string
	AddHabitHeader    string
	DoneToday         string
	StreakLabel       string
	EmptyList         string
	NotificationBody  func(name, timeOfDay string) string
}

var english = Messages{
	AppTitle:          "What's my habit?",
	NotificationTitle: "Time for your habit!",
	HabitsHeader:      "Habits",
	StatsHeader:       "Today",
	SettingsHeader:    "Settings",
	AddHabitHeader:    "New habit",
	DoneToday:         "done today",
	StreakLabel:       "streak",
	EmptyList:         "No habits yet. Press 'a' to add one.",
	NotificationBody: func(name, timeOfDay string) string {
		return fmt.Sprintf("%s at %s", name, timeOfDay)
	},
}

var polish = Messages{
	AppTitle:          "What's my habit?",
	NotificationTitle: "Czas na nawyk!",
	HabitsHeader:      "Nawyki",
	StatsHeader:       "Dzisiaj",
	SettingsHeader:    "Ustawienia",
	AddHabitHeader:    "Nowy nawyk",
	DoneToday:         "wykonane dzisiaj",
	StreakLabel:       "seria",
	EmptyList:         "Brak nawyków. Naciśnij 'a', aby dodać.",
	NotificationBody: func(name, timeOfDay string) string {
		return fmt.Sprintf("%s o %s", name, timeOfDay)
	},
}

// T resolves the bundle for a language, falling back to English for any
// unknown value.
func T(lang model.Lang) Messages {
	switch lang {
	case model.LangPolish:
		return polish
	default:
		return english
	}
}

var frequencyNames = map[model.Lang]map[model.Frequency]string{
	model.LangEnglish: {
		model.FrequencyDaily:        "Daily",
		model.FrequencyEveryTwoDays: "Every 2 days",
		model.FrequencyWeekly:       "Weekly",
		model.FrequencyMonthly:      "Monthly",
	},
	model.LangPolish: {
		model.FrequencyDaily:        "Codziennie",
		model.FrequencyEveryTwoDays: "Co 2 dni",
		model.FrequencyWeekly:       "Co tydzień",
		model.FrequencyMonthly:      "Co miesiąc",
	},
}

func FrequencyName(lang model.Lang, f model.Frequency) string {
	table, ok := frequencyNames[lang]
	if !ok {
		table = frequencyNames[model.LangEnglish]
	}
	if name, ok := table[f]; ok {
		return name
	}
	return string(f)
}

var colorNames = map[model.Lang]map[model.Color]string{
	model.LangEnglish: {
		model.ColorRed:    "Red",
		model.ColorOrange: "Orange",
		model.ColorYellow: "Yellow",
		model.ColorGreen:  "Green",
		model.ColorBlue:   "Blue",
		model.ColorPurple: "Purple",
		model.ColorBrown:  "Brown",
		model.ColorGray:   "Gray",
	},
	model.LangPolish: {
		model.ColorRed:    "Czerwony",
		model.ColorOrange: "Pomarańczowy",
		model.ColorYellow: "Żółty",
		model.ColorGreen:  "Zielony",
		model.ColorBlue:   "Niebieski",
		model.ColorPurple: "Fioletowy",
		model.ColorBrown:  "Brązowy",
		model.ColorGray:   "Szary",
	},
}

func ColorName(lang model.Lang, c model.Color) string {
	table, ok := colorNames[lang]
	if !ok {
		table = colorNames[model.LangEnglish]
	}
	if name, ok := table[c]; ok {
		return name
	}
	return string(c)
}

func ParseLang(value string) (model.Lang, error) {
	l := model.Lang(value)
	if !l.IsValid() {
		return "", fmt.Errorf("i18n: unsupported language %q", value)
	}
	return l, nil
}
