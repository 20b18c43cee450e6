package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitd-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestListHabitsEmptyStore(t *testing.T) {
	repo := setupRepo(t)
	habits, err := repo.ListHabits(context.Background())
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(habits) != 0 {
		t.Fatalf("fresh store not empty: %#v", habits)
	}
}

func TestReplaceHabitsRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	last := int64(1710054000000)

	snapshot := []Habit{
		{ID: 100, Name: "Workout", TimeOfDay: "08:00", Done: true, Frequency: "daily", Color: "green", CreatedAt: 1710000000000, LastCompleted: &last, Streak: 3},
		{ID: 200, Name: "Reading", TimeOfDay: "20:30", Frequency: "weekly", Color: "blue", CreatedAt: 1710000001000},
	}
	if err := repo.ReplaceHabits(ctx, snapshot); err != nil {
		t.Fatalf("replace habits: %v", err)
	}

	got, err := repo.ListHabits(ctx)
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected habit count: %d", len(got))
	}
	if got[0].ID != 100 || !got[0].Done || got[0].LastCompleted == nil || *got[0].LastCompleted != last {
		t.Fatalf("unexpected first habit: %#v", got[0])
	}
	if got[1].Name != "Reading" || got[1].Done || got[1].LastCompleted != nil {
		t.Fatalf("unexpected second habit: %#v", got[1])
	}

	// A second replace fully supersedes the first snapshot.
	if err := repo.ReplaceHabits(ctx, snapshot[1:]); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	got, err = repo.ListHabits(ctx)
	if err != nil {
		t.Fatalf("list after replace: %v", err)
	}
	if len(got) != 1 || got[0].ID != 200 {
		t.Fatalf("snapshot not replaced: %#v", got)
	}
}

func TestReplaceHabitsRejectsDuplicateIDs(t *testing.T) {
	repo := setupRepo(t)
	dup := []Habit{
		{ID: 7, Name: "A", TimeOfDay: "08:00", Frequency: "daily", Color: "gray", CreatedAt: 1},
		{ID: 7, Name: "B", TimeOfDay: "09:00", Frequency: "daily", Color: "gray", CreatedAt: 2},
	}
	if err := repo.ReplaceHabits(context.Background(), dup); err == nil {
		t.Fatalf("expected primary key violation for duplicate ids")
	}
	// The failed transaction must leave the store untouched.
	habits, err := repo.ListHabits(context.Background())
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(habits) != 0 {
		t.Fatalf("failed replace leaked rows: %#v", habits)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSettings(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on fresh store, got %v", err)
	}

	in := Settings{Language: "pl", NotificationsEnabled: true, ExactAlarms: false}
	if err := repo.PutSettings(ctx, in); err != nil {
		t.Fatalf("put settings: %v", err)
	}
	got, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if got != in {
		t.Fatalf("settings round trip: got %#v want %#v", got, in)
	}

	in.NotificationsEnabled = false
	if err := repo.PutSettings(ctx, in); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	got, err = repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings after update: %v", err)
	}
	if got.NotificationsEnabled {
		t.Fatalf("settings update not applied: %#v", got)
	}
}
