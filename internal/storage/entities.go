package storage

type Habit struct {
	ID            int64
	Name          string
	TimeOfDay     string
	Done          bool
	Frequency     string
	Color         string
	CreatedAt     int64
	LastCompleted *int64
	Streak        int
}

type Settings struct {
	Language             string
	NotificationsEnabled bool
	ExactAlarms          bool
}
