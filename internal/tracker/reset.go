package tracker

import (
	"context"
	"time"

	"github.com/habitd/habitd/internal/model"
)

// RunMidnightReset blocks until ctx is cancelled, running the
// reconciliation pass shortly after each local midnight so done flags clear
// and broken streaks zero out even while the app stays open overnight. The
// delay is recomputed after every run rather than using a fixed 24h tick,
// so a DST shift or clock change cannot drift the boundary.
func (t *Tracker) RunMidnightReset(ctx context.Context) {
	for {
		now := t.now()
		next := model.StartOfDay(now).AddDate(0, 0, 1)
		timer := time.NewTimer(next.Sub(now) + time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			changed := t.Reconcile()
			t.log.Info().Bool("changed", changed).Msg("midnight reset pass")
		}
	}
}
