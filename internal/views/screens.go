package views

import (
	"fmt"
	"strings"
)

type HabitItem struct {
	Name      string
	TimeOfDay string
	Frequency string
	ColorHex  string
	Done      bool
	Streak    int
	Selected  bool
}

type HabitsData struct {
	Items       []HabitItem
	Empty       string
	StreakLabel string
}

func RenderHabits(data HabitsData) string {
	if len(data.Items) == 0 {
		return dimStyle.Render(data.Empty)
	}

	var b strings.Builder
	for i, item := range data.Items {
		cursor := "  "
		if item.Selected {
			cursor = "> "
		}
		mark := "[ ]"
		if item.Done {
			mark = doneStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s%s %s %s  %s  %s", cursor, mark, swatch(item.ColorHex), item.Name, item.TimeOfDay, dimStyle.Render(item.Frequency))
		if item.Streak > 0 {
			line += "  " + streakStyle.Render(fmt.Sprintf("%s %d", data.StreakLabel, item.Streak))
		}
		b.WriteString(line)
		if i < len(data.Items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

type FormField struct {
	Label   string
	View    string
	Focused bool
}

type AddFormData struct {
	Title  string
	Fields []FormField
	Error  string
	Hint   string
}

func RenderAddForm(data AddFormData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title))
	b.WriteString("\n\n")
	for _, f := range data.Fields {
		label := f.Label
		if f.Focused {
			label = "> " + label
		} else {
			label = "  " + label
		}
		b.WriteString(fmt.Sprintf("%-14s %s\n", label, f.View))
	}
	if data.Error != "" {
		b.WriteString("\n" + errorStyle.Render(data.Error))
	}
	if data.Hint != "" {
		b.WriteString("\n" + dimStyle.Render(data.Hint))
	}
	return b.String()
}

type StatRow struct {
	Label string
	Value string
}

type StatsData struct {
	Title string
	Rows  []StatRow
}

func RenderStats(data StatsData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title))
	b.WriteString("\n\n")
	for _, row := range data.Rows {
		b.WriteString(fmt.Sprintf("%-24s %s\n", row.Label, row.Value))
	}
	return strings.TrimRight(b.String(), "\n")
}

type SettingRow struct {
	Label    string
	Value    string
	Selected bool
}

type SettingsData struct {
	Title string
	Rows  []SettingRow
	Hint  string
}

func RenderSettings(data SettingsData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title))
	b.WriteString("\n\n")
	for _, row := range data.Rows {
		cursor := "  "
		if row.Selected {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-20s %s\n", cursor, row.Label, row.Value))
	}
	if data.Hint != "" {
		b.WriteString("\n" + dimStyle.Render(data.Hint))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ProgressSummary formats the done counter shown above the habit list.
func ProgressSummary(done, total int, label string) string {
	return fmt.Sprintf("%d/%d %s", done, total, label)
}
