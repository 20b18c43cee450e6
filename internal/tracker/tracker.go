// Package tracker owns the in-memory habit list. Every mutation funnels
// through one mutex, updates memory synchronously, then persists the full
// snapshot in the background: consumers observe changes immediately and a
// failed save is retried implicitly by the next mutation. Saves commit in
// mutation order; an overtaken snapshot is dropped, never applied late.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitd/habitd/internal/i18n"
	"github.com/habitd/habitd/internal/model"
	"github.com/habitd/habitd/internal/notify"
	"github.com/habitd/habitd/internal/scheduler"
	"github.com/habitd/habitd/internal/storage"
)

var ErrHabitNotFound = errors.New("tracker: habit not found")

const saveTimeout = 5 * time.Second

type Config struct {
	Repo     storage.Repository
	Engine   *scheduler.Engine
	Notifier notify.Notifier
	Logger   zerolog.Logger
	Now      func() time.Time
}

type Tracker struct {
	mu       sync.Mutex
	habits   []model.Habit
	settings model.Settings

	repo     storage.Repository
	engine   *scheduler.Engine
	notifier notify.Notifier
	log      zerolog.Logger
	now      func() time.Time

	// Background saves are serialized and sequence-guarded so a slow older
	// snapshot can never commit over a newer one. habitsSeq/settingsSeq are
	// stamped under mu; habitsSaved/settingsSaved under saveMu.
	saves         sync.WaitGroup
	saveMu        sync.Mutex
	habitsSeq     uint64
	habitsSaved   uint64
	settingsSeq   uint64
	settingsSaved uint64
}

func New(cfg Config) *Tracker {
	t := &Tracker{
		repo:     cfg.Repo,
		engine:   cfg.Engine,
		notifier: cfg.Notifier,
		log:      cfg.Logger,
		now:      cfg.Now,
		settings: model.DefaultSettings(),
	}
	if t.notifier == nil {
		t.notifier = notify.Noop{}
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t
}

// Load reads the persisted snapshot, runs the reconciliation pass, and
// registers an alarm for every habit. An unreadable store starts the app
// with an empty list instead of failing.
func (t *Tracker) Load(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.repo.ListHabits(ctx)
	if err != nil {
		t.log.Error().Err(err).Msg("load habits failed, starting empty")
		records = nil
	}
	habits := make([]model.Habit, 0, len(records))
	for _, rec := range records {
		habits = append(habits, t.fromRecord(rec))
	}

	settings, err := t.repo.GetSettings(ctx)
	switch {
	case err == nil:
		t.settings = settingsFromRecord(settings)
	case errors.Is(err, storage.ErrNotFound):
		t.settings = model.DefaultSettings()
	default:
		t.log.Error().Err(err).Msg("load settings failed, using defaults")
		t.settings = model.DefaultSettings()
	}
	t.engine.SetExactTriggers(t.settings.ExactAlarms)

	reconciled, changed := model.Reconcile(habits, t.now())
	t.habits = reconciled
	t.log.Info().Int("habits", len(reconciled)).Bool("changed", changed).Msg("snapshot loaded")

	if changed {
		t.persistHabitsLocked()
	}
	t.rescheduleAllLocked()
}

// Habits returns a copy of the current snapshot.
func (t *Tracker) Habits() []model.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Habit, len(t.habits))
	copy(out, t.habits)
	return out
}

// DoneCount reports completed and total habits for the stats header.
func (t *Tracker) DoneCount() (done, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, h := range t.habits {
		if h.Done {
			done++
		}
	}
	return done, len(t.habits)
}

func (t *Tracker) Settings() model.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

func (t *Tracker) UpdateSettings(s model.Settings) error {
	if !s.Language.IsValid() {
		return fmt.Errorf("tracker: unsupported language %q", s.Language)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = s
	t.engine.SetExactTriggers(s.ExactAlarms)
	t.persistSettingsLocked()
	return nil
}

// Add creates a habit with an id derived from the wall clock, bumping past
// collisions from rapid successive creation.
func (t *Tracker) Add(name, timeOfDay string, freq model.Frequency, color model.Color) (model.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	h := model.Habit{
		ID:        t.nextIDLocked(now),
		Name:      name,
		Time:      timeOfDay,
		Frequency: freq,
		Color:     color,
		CreatedAt: now.UnixMilli(),
	}
	if err := h.Validate(); err != nil {
		return model.Habit{}, err
	}

	t.habits = append(t.habits, h)
	t.scheduleLocked(h)
	t.persistHabitsLocked()
	t.log.Info().Int64("id", h.ID).Str("name", h.Name).Msg("habit added")
	return h, nil
}

// Remove deletes the habit and cancels its pending alarm in the same
// operation.
func (t *Tracker) Remove(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexLocked(id)
	if idx < 0 {
		return ErrHabitNotFound
	}
	name := t.habits[idx].Name
	t.habits = append(t.habits[:idx], t.habits[idx+1:]...)
	t.engine.Cancel(id)
	t.persistHabitsLocked()
	t.log.Info().Int64("id", id).Str("name", name).Msg("habit removed")
	return nil
}

// Toggle marks the habit done or undone for today. Marking done stamps the
// completion instant and advances the streak; marking undone only clears
// the flag.
func (t *Tracker) Toggle(id int64, done bool) (model.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexLocked(id)
	if idx < 0 {
		return model.Habit{}, ErrHabitNotFound
	}
	h := t.habits[idx]
	if done {
		now := t.now()
		h.Streak = model.UpdateStreakOnCompletion(h, now)
		ms := now.UnixMilli()
		h.LastCompleted = &ms
		h.Done = true
	} else {
		h.Done = false
	}
	t.habits[idx] = h
	t.persistHabitsLocked()
	return h, nil
}

// Reconcile runs the daily reset pass and re-registers every alarm.
// Idempotent; persists only when a record actually changed.
func (t *Tracker) Reconcile() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	reconciled, changed := model.Reconcile(t.habits, t.now())
	if changed {
		t.habits = reconciled
		t.persistHabitsLocked()
		t.log.Info().Msg("reconciliation pass updated habits")
	}
	t.rescheduleAllLocked()
	return changed
}

// OnAlarm is the fire handler: show a notification tagged with the habit id
// and register the next occurrence. A habit deleted since registration is a
// no-op.
func (t *Tracker) OnAlarm(a scheduler.Alarm) (model.Habit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexLocked(a.HabitID)
	if idx < 0 {
		t.log.Debug().Int64("id", a.HabitID).Msg("alarm for deleted habit ignored")
		return model.Habit{}, false
	}
	h := t.habits[idx]

	// Language is re-resolved at fire time, not registration time.
	if t.settings.NotificationsEnabled && t.notifier.Authorized() {
		msgs := i18n.T(t.settings.Language)
		err := t.notifier.Send(notify.Notification{
			Tag:   h.ID,
			Title: msgs.NotificationTitle,
			Body:  msgs.NotificationBody(h.Name, h.Time),
		})
		if err != nil {
			t.log.Warn().Err(err).Int64("id", h.ID).Msg("notification failed")
		}
	}

	next, err := scheduler.NextAfterFire(h.Time, h.Frequency, t.now())
	if err != nil {
		t.log.Error().Err(err).Int64("id", h.ID).Msg("reschedule after fire failed")
		return h, true
	}
	if err := t.engine.Schedule(scheduler.Alarm{HabitID: h.ID, Name: h.Name, TimeOfDay: h.Time, TriggerAt: next}); err != nil {
		t.log.Error().Err(err).Int64("id", h.ID).Msg("schedule next occurrence failed")
	}
	return h, true
}

// Flush waits for in-flight background saves. Called on shutdown.
func (t *Tracker) Flush() {
	t.saves.Wait()
}

func (t *Tracker) indexLocked(id int64) int {
	for i, h := range t.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	for t.indexLocked(id) >= 0 {
		id++
	}
	return id
}

func (t *Tracker) scheduleLocked(h model.Habit) {
	next, err := scheduler.NextTriggerTime(h.Time, t.now())
	if err != nil {
		t.log.Error().Err(err).Int64("id", h.ID).Str("time", h.Time).Msg("compute trigger failed")
		return
	}
	if err := t.engine.Schedule(scheduler.Alarm{HabitID: h.ID, Name: h.Name, TimeOfDay: h.Time, TriggerAt: next}); err != nil {
		t.log.Error().Err(err).Int64("id", h.ID).Msg("schedule failed")
	}
}

// rescheduleAllLocked re-registers every habit. Schedule replaces any
// pending registration per id, so no separate cancel pass is needed.
func (t *Tracker) rescheduleAllLocked() {
	for _, h := range t.habits {
		t.scheduleLocked(h)
	}
}

func (t *Tracker) persistHabitsLocked() {
	t.habitsSeq++
	seq := t.habitsSeq
	records := make([]storage.Habit, len(t.habits))
	for i, h := range t.habits {
		records[i] = toRecord(h)
	}
	t.saves.Add(1)
	go func() {
		defer t.saves.Done()
		t.saveMu.Lock()
		defer t.saveMu.Unlock()
		if seq <= t.habitsSaved {
			// A newer snapshot already committed; this one is stale.
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := t.repo.ReplaceHabits(ctx, records); err != nil {
			t.log.Error().Err(err).Msg("persist habits failed")
			return
		}
		t.habitsSaved = seq
	}()
}

func (t *Tracker) persistSettingsLocked() {
	t.settingsSeq++
	seq := t.settingsSeq
	rec := settingsToRecord(t.settings)
	t.saves.Add(1)
	go func() {
		defer t.saves.Done()
		t.saveMu.Lock()
		defer t.saveMu.Unlock()
		if seq <= t.settingsSaved {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := t.repo.PutSettings(ctx, rec); err != nil {
			t.log.Error().Err(err).Msg("persist settings failed")
			return
		}
		t.settingsSaved = seq
	}()
}

func toRecord(h model.Habit) storage.Habit {
	return storage.Habit{
		ID:            h.ID,
		Name:          h.Name,
		TimeOfDay:     h.Time,
		Done:          h.Done,
		Frequency:     string(h.Frequency),
		Color:         string(h.Color),
		CreatedAt:     h.CreatedAt,
		LastCompleted: h.LastCompleted,
		Streak:        h.Streak,
	}
}

func (t *Tracker) fromRecord(rec storage.Habit) model.Habit {
	freq, err := model.ParseFrequency(rec.Frequency)
	if err != nil {
		t.log.Warn().Int64("id", rec.ID).Str("frequency", rec.Frequency).Msg("unknown frequency, defaulting to daily")
		freq = model.FrequencyDaily
	}
	color, err := model.ParseColor(rec.Color)
	if err != nil {
		t.log.Warn().Int64("id", rec.ID).Str("color", rec.Color).Msg("unknown color, defaulting to gray")
		color = model.ColorGray
	}
	return model.Habit{
		ID:            rec.ID,
		Name:          rec.Name,
		Time:          rec.TimeOfDay,
		Done:          rec.Done,
		Frequency:     freq,
		Color:         color,
		CreatedAt:     rec.CreatedAt,
		LastCompleted: rec.LastCompleted,
		Streak:        rec.Streak,
	}
}

func settingsToRecord(s model.Settings) storage.Settings {
	return storage.Settings{
		Language:             string(s.Language),
		NotificationsEnabled: s.NotificationsEnabled,
		ExactAlarms:          s.ExactAlarms,
	}
}

func settingsFromRecord(rec storage.Settings) model.Settings {
	s := model.Settings{
		Language:             model.Lang(rec.Language),
		NotificationsEnabled: rec.NotificationsEnabled,
		ExactAlarms:          rec.ExactAlarms,
	}
	if !s.Language.IsValid() {
		s.Language = model.LangEnglish
	}
	return s
}
