package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/habitd/habitd/internal/i18n"
	"github.com/habitd/habitd/internal/notify"
	"github.com/habitd/habitd/internal/scheduler"
	"github.com/habitd/habitd/internal/storage"
	"github.com/habitd/habitd/internal/tracker"
	"github.com/habitd/habitd/internal/update"
)

var CLI struct {
	Version       kong.VersionFlag
	DB            string `help:"SQLite database path." type:"path" default:"~/.config/habitd/habitd.db"`
	Locale        string `help:"Override stored UI language (en or pl)." default:""`
	InexactAlarms bool   `help:"Allow reminders to be deferred to coarse wakeup windows."`
	LogFile       string `help:"Write structured logs to this file." type:"path" default:""`
	Buffer        int    `help:"Alarm channel buffer size." default:"16"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("habitd"),
		kong.Description("Habit tracker with streaks and reminder alarms"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	logger, closeLog, err := newLogger(CLI.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "habitd: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(CLI.DB), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "habitd: create data dir: %v\n", err)
		os.Exit(1)
	}
	repo, err := storage.OpenSQLite(CLI.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "habitd: open store: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	engine := scheduler.NewEngine(CLI.Buffer, scheduler.WithExactTriggers(!CLI.InexactAlarms))
	engine.Start()
	defer engine.Stop()

	tr := tracker.New(tracker.Config{
		Repo:     repo,
		Engine:   engine,
		Notifier: pickNotifier(logger),
		Logger:   logger,
	})
	tr.Load(context.Background())
	defer tr.Flush()

	if lang, err := i18n.ParseLang(CLI.Locale); err == nil && CLI.Locale != "" {
		s := tr.Settings()
		s.Language = lang
		if err := tr.UpdateSettings(s); err != nil {
			logger.Warn().Err(err).Msg("apply locale override")
		}
	}
	if CLI.InexactAlarms {
		s := tr.Settings()
		if s.ExactAlarms {
			s.ExactAlarms = false
			if err := tr.UpdateSettings(s); err != nil {
				logger.Warn().Err(err).Msg("apply inexact alarm override")
			}
		}
	}

	resetCtx, cancelReset := context.WithCancel(context.Background())
	defer cancelReset()
	go tr.RunMidnightReset(resetCtx)

	program := tea.NewProgram(update.NewModel(tr, engine))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "habitd failed: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(path string) (zerolog.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeLog := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}
	logger := zerolog.New(w).With().Str("service", "habitd").Timestamp().Logger()
	return logger, closeLog, nil
}

// pickNotifier prefers native desktop notifications and falls back to the
// log when the host has no notifier binary. HABITD_DESKTOP_NOTIFICATIONS=0
// forces the fallback.
func pickNotifier(logger zerolog.Logger) notify.Notifier {
	if os.Getenv("HABITD_DESKTOP_NOTIFICATIONS") == "0" {
		return notify.Log{Logger: logger}
	}
	desktop := notify.Desktop{}
	if desktop.Authorized() {
		return desktop
	}
	return notify.Log{Logger: logger}
}
