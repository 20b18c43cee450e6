// Package notify is the outbound reminder surface. Notifications are keyed
// by habit id so a repeat fire replaces the previous one instead of
// stacking, and every implementation answers an authorization query before
// being asked to show anything.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Notification struct {
	Tag   int64
	Title string
	Body  string
}

type Notifier interface {
	// Authorized reports whether the platform will actually display
	// notifications. Denial is a degraded mode, never an error.
	Authorized() bool
	Send(n Notification) error
}

type Noop struct{}

func (Noop) Authorized() bool        { return false }
func (Noop) Send(Notification) error { return nil }

// Desktop shells out to the platform notifier. On linux the stack-tag hint
// carries the habit id so compatible daemons replace rather than stack.
type Desktop struct{}

func (Desktop) Authorized() bool {
	switch runtime.GOOS {
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err == nil
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err == nil
	default:
		return false
	}
}

func (Desktop) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		tag := fmt.Sprintf("string:x-dunst-stack-tag:habit-%d", n.Tag)
		return exec.Command("notify-send", "-h", tag, n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Log writes notifications to the structured log. Used headless and as a
// fallback when no desktop notifier is available.
type Log struct {
	Logger zerolog.Logger
}

func (Log) Authorized() bool { return true }

func (l Log) Send(n Notification) error {
	l.Logger.Info().
		Int64("habit_id", n.Tag).
		Str("title", n.Title).
		Str("body", n.Body).
		Msg("reminder")
	return nil
}

// Recorder captures notifications for tests. The latest notification per
// tag wins, mirroring the replacement contract of real sinks.
type Recorder struct {
	mu         sync.Mutex
	authorized bool
	byTag      map[int64]Notification
	order      []int64
}

func NewRecorder(authorized bool) *Recorder {
	return &Recorder{authorized: authorized, byTag: make(map[int64]Notification)}
}

func (r *Recorder) Authorized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authorized
}

func (r *Recorder) Send(n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.byTag[n.Tag]; !seen {
		r.order = append(r.order, n.Tag)
	}
	r.byTag[n.Tag] = n
	return nil
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, 0, len(r.order))
	for _, tag := range r.order {
		out = append(out, r.byTag[tag])
	}
	return out
}
