package tracker

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitd/habitd/internal/model"
	"github.com/habitd/habitd/internal/notify"
	"github.com/habitd/habitd/internal/scheduler"
	"github.com/habitd/habitd/internal/storage"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	tracker  *Tracker
	repo     *storage.SQLiteRepository
	engine   *scheduler.Engine
	notifier *notify.Recorder
	clock    *fakeClock
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tracker-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	// The engine stays unstarted: the fake clock produces 2024 trigger
	// times, which a running loop would fire against real time immediately,
	// clearing Pending before assertions run. Fire handling is exercised by
	// calling OnAlarm directly.
	engine := scheduler.NewEngine(64)

	clock := newFakeClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))
	notifier := notify.NewRecorder(true)
	tr := New(Config{
		Repo:     repo,
		Engine:   engine,
		Notifier: notifier,
		Logger:   zerolog.Nop(),
		Now:      clock.Now,
	})
	tr.Load(context.Background())
	return &fixture{tracker: tr, repo: repo, engine: engine, notifier: notifier, clock: clock}
}

func TestAddSchedulesAndPersists(t *testing.T) {
	f := setup(t)

	h, err := f.tracker.Add("Workout", "10:30", model.FrequencyDaily, model.ColorGreen)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if h.Streak != 0 || h.Done || h.LastCompleted != nil {
		t.Fatalf("new habit defaults wrong: %+v", h)
	}

	trigger, ok := f.engine.Pending(h.ID)
	if !ok {
		t.Fatalf("no alarm registered for new habit")
	}
	want := time.Date(2024, 3, 10, 10, 30, 0, 0, time.Local)
	if !trigger.Equal(want) {
		t.Fatalf("alarm trigger: got %s want %s", trigger, want)
	}

	f.tracker.Flush()
	records, err := f.repo.ListHabits(context.Background())
	if err != nil {
		t.Fatalf("list persisted: %v", err)
	}
	if len(records) != 1 || records[0].ID != h.ID || records[0].Name != "Workout" {
		t.Fatalf("persisted snapshot wrong: %#v", records)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	f := setup(t)
	if _, err := f.tracker.Add("", "10:30", model.FrequencyDaily, model.ColorGray); err == nil {
		t.Fatalf("empty name accepted")
	}
	if _, err := f.tracker.Add("X", "25:61", model.FrequencyDaily, model.ColorGray); !errors.Is(err, model.ErrInvalidTimeOfDay) {
		t.Fatalf("expected ErrInvalidTimeOfDay, got %v", err)
	}
	if habits := f.tracker.Habits(); len(habits) != 0 {
		t.Fatalf("rejected habit leaked into list: %#v", habits)
	}
}

func TestAddBumpsCollidingIDs(t *testing.T) {
	f := setup(t)
	// The clock never advances, so every candidate id collides with the
	// previous habit's until bumped.
	a, err := f.tracker.Add("A", "08:00", model.FrequencyDaily, model.ColorRed)
	if err != nil {
		t.Fatalf("add a: %v", err)
	}
	b, err := f.tracker.Add("B", "08:00", model.FrequencyDaily, model.ColorBlue)
	if err != nil {
		t.Fatalf("add b: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("colliding ids: %d", a.ID)
	}
}

func TestToggleDoneAndUndone(t *testing.T) {
	f := setup(t)
	h, err := f.tracker.Add("Reading", "20:00", model.FrequencyDaily, model.ColorBlue)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	done, err := f.tracker.Toggle(h.ID, true)
	if err != nil {
		t.Fatalf("toggle done: %v", err)
	}
	if !done.Done || done.Streak != 1 || done.LastCompleted == nil {
		t.Fatalf("first completion state wrong: %+v", done)
	}

	// Same-day re-toggle keeps the streak.
	again, err := f.tracker.Toggle(h.ID, true)
	if err != nil {
		t.Fatalf("toggle again: %v", err)
	}
	if again.Streak != 1 {
		t.Fatalf("same-day completion changed streak: %d", again.Streak)
	}

	undone, err := f.tracker.Toggle(h.ID, false)
	if err != nil {
		t.Fatalf("toggle undone: %v", err)
	}
	if undone.Done {
		t.Fatalf("habit still done after untoggle")
	}
	if undone.LastCompleted == nil || undone.Streak != 1 {
		t.Fatalf("untoggle must only clear the flag: %+v", undone)
	}

	if _, err := f.tracker.Toggle(999, true); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	f := setup(t)
	h, err := f.tracker.Add("Meditation", "07:00", model.FrequencyDaily, model.ColorPurple)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.tracker.Toggle(h.ID, true); err != nil {
		t.Fatalf("toggle day 1: %v", err)
	}

	f.clock.Advance(24 * time.Hour)
	if changed := f.tracker.Reconcile(); !changed {
		t.Fatalf("expected reconciliation to clear the done flag")
	}
	habits := f.tracker.Habits()
	if habits[0].Done || habits[0].Streak != 1 {
		t.Fatalf("day 2 state wrong: %+v", habits[0])
	}

	got, err := f.tracker.Toggle(h.ID, true)
	if err != nil {
		t.Fatalf("toggle day 2: %v", err)
	}
	if got.Streak != 2 {
		t.Fatalf("next-day completion streak: got %d want 2", got.Streak)
	}

	// Skip two days: the streak breaks on reconcile and restarts on
	// completion.
	f.clock.Advance(3 * 24 * time.Hour)
	f.tracker.Reconcile()
	habits = f.tracker.Habits()
	if habits[0].Streak != 0 || habits[0].Done {
		t.Fatalf("broken streak not zeroed: %+v", habits[0])
	}
	got, err = f.tracker.Toggle(h.ID, true)
	if err != nil {
		t.Fatalf("toggle after gap: %v", err)
	}
	if got.Streak != 1 {
		t.Fatalf("restart streak: got %d want 1", got.Streak)
	}
}

func TestReconcileIsIdempotentAcrossRuns(t *testing.T) {
	f := setup(t)
	h, _ := f.tracker.Add("A", "08:00", model.FrequencyDaily, model.ColorGray)
	if _, err := f.tracker.Toggle(h.ID, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	f.clock.Advance(24 * time.Hour)
	if changed := f.tracker.Reconcile(); !changed {
		t.Fatalf("first pass should change state")
	}
	if changed := f.tracker.Reconcile(); changed {
		t.Fatalf("second pass with no elapsed time changed state")
	}
}

func TestRemoveCancelsAlarm(t *testing.T) {
	f := setup(t)
	h, err := f.tracker.Add("Running", "06:00", model.FrequencyDaily, model.ColorOrange)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.tracker.Remove(h.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := f.engine.Pending(h.ID); ok {
		t.Fatalf("alarm still pending after remove")
	}
	if err := f.tracker.Remove(h.ID); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}

	f.tracker.Flush()
	records, err := f.repo.ListHabits(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("removed habit persisted: %#v", records)
	}
}

func TestOnAlarmNotifiesAndReschedules(t *testing.T) {
	f := setup(t)
	h, err := f.tracker.Add("Workout", "08:00", model.FrequencyDaily, model.ColorGreen)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, ok := f.tracker.OnAlarm(scheduler.Alarm{HabitID: h.ID, Name: h.Name, TimeOfDay: h.Time})
	if !ok || got.ID != h.ID {
		t.Fatalf("on-alarm lookup failed: ok=%v habit=%+v", ok, got)
	}

	sent := f.notifier.Sent()
	if len(sent) != 1 || sent[0].Tag != h.ID {
		t.Fatalf("notification not tagged by habit id: %#v", sent)
	}
	if sent[0].Title != "Time for your habit!" || sent[0].Body != "Workout at 08:00" {
		t.Fatalf("unexpected notification text: %#v", sent[0])
	}

	// Fire at 09:00 for the 08:00 slot: next daily occurrence is tomorrow.
	trigger, ok := f.engine.Pending(h.ID)
	if !ok {
		t.Fatalf("no follow-up registration after fire")
	}
	want := time.Date(2024, 3, 11, 8, 0, 0, 0, time.Local)
	if !trigger.Equal(want) {
		t.Fatalf("follow-up trigger: got %s want %s", trigger, want)
	}
}

func TestOnAlarmForDeletedHabitIsNoop(t *testing.T) {
	f := setup(t)
	got, ok := f.tracker.OnAlarm(scheduler.Alarm{HabitID: 12345, Name: "ghost", TimeOfDay: "08:00"})
	if ok {
		t.Fatalf("deleted habit handled as live: %+v", got)
	}
	if len(f.notifier.Sent()) != 0 {
		t.Fatalf("notification shown for deleted habit")
	}
	if _, pending := f.engine.Pending(12345); pending {
		t.Fatalf("deleted habit rescheduled")
	}
}

func TestOnAlarmHonorsNotificationSetting(t *testing.T) {
	f := setup(t)
	h, _ := f.tracker.Add("Quiet", "08:00", model.FrequencyDaily, model.ColorGray)

	s := f.tracker.Settings()
	s.NotificationsEnabled = false
	if err := f.tracker.UpdateSettings(s); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	if _, ok := f.tracker.OnAlarm(scheduler.Alarm{HabitID: h.ID}); !ok {
		t.Fatalf("alarm handling failed")
	}
	if len(f.notifier.Sent()) != 0 {
		t.Fatalf("notification shown while disabled")
	}
	// The habit is still tracked and rescheduled.
	if _, pending := f.engine.Pending(h.ID); !pending {
		t.Fatalf("follow-up registration missing in quiet mode")
	}
}

func TestOnAlarmUsesCurrentLanguage(t *testing.T) {
	f := setup(t)
	h, _ := f.tracker.Add("Trening", "08:00", model.FrequencyDaily, model.ColorRed)

	s := f.tracker.Settings()
	s.Language = model.LangPolish
	if err := f.tracker.UpdateSettings(s); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	f.tracker.OnAlarm(scheduler.Alarm{HabitID: h.ID})
	sent := f.notifier.Sent()
	if len(sent) != 1 || sent[0].Title != "Czas na nawyk!" || sent[0].Body != "Trening o 08:00" {
		t.Fatalf("language not re-resolved at fire time: %#v", sent)
	}
}

func TestLoadRestoresSnapshotAndSettings(t *testing.T) {
	f := setup(t)
	h, err := f.tracker.Add("Workout", "08:00", model.FrequencyWeekly, model.ColorGreen)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.tracker.Toggle(h.ID, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	s := f.tracker.Settings()
	s.Language = model.LangPolish
	if err := f.tracker.UpdateSettings(s); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	f.tracker.Flush()

	// A second tracker over the same store sees the same state.
	engine := scheduler.NewEngine(8)
	reloaded := New(Config{Repo: f.repo, Engine: engine, Logger: zerolog.Nop(), Now: f.clock.Now})
	reloaded.Load(context.Background())

	habits := reloaded.Habits()
	if len(habits) != 1 {
		t.Fatalf("reloaded habit count: %d", len(habits))
	}
	got := habits[0]
	if got.ID != h.ID || got.Frequency != model.FrequencyWeekly || got.Streak != 1 || !got.Done {
		t.Fatalf("reloaded habit wrong: %+v", got)
	}
	if reloaded.Settings().Language != model.LangPolish {
		t.Fatalf("settings not restored: %+v", reloaded.Settings())
	}
	if _, pending := engine.Pending(h.ID); !pending {
		t.Fatalf("alarms not re-registered on load")
	}
}

func TestRapidMutationsPersistNewestSnapshot(t *testing.T) {
	f := setup(t)
	h, err := f.tracker.Add("Workout", "08:00", model.FrequencyDaily, model.ColorGreen)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Each mutation spawns its own background save; an older save finishing
	// after a newer one must not win. After the flush the store has to hold
	// the final in-memory state, whatever order the goroutines ran in.
	for i := 0; i < 25; i++ {
		if _, err := f.tracker.Toggle(h.ID, i%2 == 0); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}
	want, err := f.tracker.Toggle(h.ID, true)
	if err != nil {
		t.Fatalf("final toggle: %v", err)
	}
	f.tracker.Flush()

	records, err := f.repo.ListHabits(context.Background())
	if err != nil {
		t.Fatalf("list persisted: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("persisted habit count: %d", len(records))
	}
	got := records[0]
	if got.Done != want.Done || got.Streak != want.Streak || got.LastCompleted == nil {
		t.Fatalf("store holds stale snapshot: got %+v want %+v", got, want)
	}
}

func TestRapidSettingsUpdatesPersistNewest(t *testing.T) {
	f := setup(t)
	for i := 0; i < 10; i++ {
		s := f.tracker.Settings()
		if i%2 == 0 {
			s.Language = model.LangPolish
		} else {
			s.Language = model.LangEnglish
		}
		if err := f.tracker.UpdateSettings(s); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	final := f.tracker.Settings()
	final.Language = model.LangPolish
	final.NotificationsEnabled = false
	if err := f.tracker.UpdateSettings(final); err != nil {
		t.Fatalf("final update: %v", err)
	}
	f.tracker.Flush()

	rec, err := f.repo.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("get persisted settings: %v", err)
	}
	if rec.Language != "pl" || rec.NotificationsEnabled {
		t.Fatalf("store holds stale settings: %+v", rec)
	}
}

func TestDoneCount(t *testing.T) {
	f := setup(t)
	a, _ := f.tracker.Add("A", "08:00", model.FrequencyDaily, model.ColorRed)
	f.tracker.Add("B", "09:00", model.FrequencyDaily, model.ColorBlue)
	if _, err := f.tracker.Toggle(a.ID, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	done, total := f.tracker.DoneCount()
	if done != 1 || total != 2 {
		t.Fatalf("done count: got %d/%d want 1/2", done, total)
	}
}
