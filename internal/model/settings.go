package model

type Lang string

const (
	LangEnglish Lang = "en"
	LangPolish  Lang = "pl"
)

func (l Lang) IsValid() bool {
	return l == LangEnglish || l == LangPolish
}

type Settings struct {
	Language             Lang
	NotificationsEnabled bool
	ExactAlarms          bool
}

func DefaultSettings() Settings {
	return Settings{
		Language:             LangEnglish,
		NotificationsEnabled: true,
		ExactAlarms:          true,
	}
}
