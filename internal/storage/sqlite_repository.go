package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) ListHabits(ctx context.Context) ([]Habit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, time_of_day, done, frequency, color, created_at, last_completed_at, streak
		FROM habits ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Habit, 0)
	for rows.Next() {
		var h Habit
		var done int
		var last sql.NullInt64
		if err := rows.Scan(&h.ID, &h.Name, &h.TimeOfDay, &done, &h.Frequency, &h.Color, &h.CreatedAt, &last, &h.Streak); err != nil {
			return nil, err
		}
		h.Done = done != 0
		if last.Valid {
			v := last.Int64
			h.LastCompleted = &v
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ReplaceHabits swaps the whole snapshot inside one transaction so readers
// never observe a partial list.
func (r *SQLiteRepository) ReplaceHabits(ctx context.Context, habits []Habit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM habits`); err != nil {
		return err
	}
	for _, h := range habits {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO habits (id, name, time_of_day, done, frequency, color, created_at, last_completed_at, streak)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.Name, h.TimeOfDay, boolToInt(h.Done), h.Frequency, h.Color,
			h.CreatedAt, nullInt64(h.LastCompleted), h.Streak,
		)
		if err != nil {
			return fmt.Errorf("insert habit %d: %w", h.ID, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetSettings(ctx context.Context) (Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT language, notifications_enabled, exact_alarms FROM settings WHERE id = 1`)
	var s Settings
	var notifications, exact int
	if err := row.Scan(&s.Language, &notifications, &exact); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, ErrNotFound
		}
		return Settings{}, err
	}
	s.NotificationsEnabled = notifications != 0
	s.ExactAlarms = exact != 0
	return s, nil
}

func (r *SQLiteRepository) PutSettings(ctx context.Context, in Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, language, notifications_enabled, exact_alarms)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			notifications_enabled = excluded.notifications_enabled,
			exact_alarms = excluded.exact_alarms`,
		in.Language, boolToInt(in.NotificationsEnabled), boolToInt(in.ExactAlarms),
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
