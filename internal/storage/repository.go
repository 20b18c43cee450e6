package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Repository persists the one authoritative habit snapshot and the app
// settings. The habit list is replaced whole on every save, matching the
// single-snapshot contract of the in-memory owner.
type Repository interface {
	ListHabits(ctx context.Context) ([]Habit, error)
	ReplaceHabits(ctx context.Context, habits []Habit) error

	GetSettings(ctx context.Context) (Settings, error)
	PutSettings(ctx context.Context, in Settings) error

	Close() error
}
