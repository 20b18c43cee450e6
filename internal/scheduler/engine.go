package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrInvalidHabitID     = errors.New("scheduler: invalid habit id")
	ErrEngineStopped      = errors.New("scheduler: engine stopped")
)

// Alarm is one pending reminder registration. The payload travels with the
// registration so the on-fire handler can render a notification without a
// storage round trip.
type Alarm struct {
	HabitID   int64
	Name      string
	TimeOfDay string
	TriggerAt time.Time
}

type queueItem struct {
	alarm Alarm
	gen   uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].alarm.TriggerAt.Before(pq[j].alarm.TriggerAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// inexactWindow is how far an alarm may be deferred when exact triggers are
// unavailable.
const inexactWindow = 5 * time.Minute

// Engine holds at most one pending alarm per habit id and emits alarms on a
// buffered channel when their trigger time arrives. Re-scheduling a habit
// replaces its pending registration; cancelled or replaced registrations
// left in the heap are skipped by generation check.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	live    map[int64]uint64
	gen     uint64
	out     chan Alarm
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	exact   bool
	dropped uint64
}

type Option func(*Engine)

// WithExactTriggers controls the degraded mode used when the platform
// cannot deliver exact wakeups: inexact alarms are deferred to the next
// five-minute boundary instead of failing registration.
func WithExactTriggers(exact bool) Option {
	return func(e *Engine) {
		e.exact = exact
	}
}

func NewEngine(bufferSize int, opts ...Option) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	e := &Engine{
		queue:  make(priorityQueue, 0),
		live:   make(map[int64]uint64),
		out:    make(chan Alarm, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		exact:  true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) C() <-chan Alarm {
	return e.out
}

func (e *Engine) ExactTriggers() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exact
}

func (e *Engine) SetExactTriggers(exact bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exact = exact
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule registers the alarm, replacing any pending registration for the
// same habit id.
func (e *Engine) Schedule(a Alarm) error {
	if a.HabitID == 0 {
		return ErrInvalidHabitID
	}
	if a.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}

	if !e.exact {
		a.TriggerAt = deferToWindow(a.TriggerAt)
	}

	e.gen++
	e.live[a.HabitID] = e.gen
	heap.Push(&e.queue, queueItem{alarm: a, gen: e.gen})
	e.signalWakeup()
	return nil
}

// Cancel removes the pending alarm for the habit id. Calling it when
// nothing is scheduled is a no-op.
func (e *Engine) Cancel(habitID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.live, habitID)
	e.signalWakeup()
}

// Pending reports the trigger time of the habit's live registration.
func (e *Engine) Pending(habitID int64) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	gen, ok := e.live[habitID]
	if !ok {
		return time.Time{}, false
	}
	for _, item := range e.queue {
		if item.alarm.HabitID == habitID && item.gen == gen {
			return item.alarm.TriggerAt, true
		}
	}
	return time.Time{}, false
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, a := range due {
				select {
				case e.out <- a:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live registration, discarding cancelled and
// replaced heap entries along the way.
func (e *Engine) peek() (Alarm, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		head := e.queue[0]
		if e.live[head.alarm.HabitID] == head.gen {
			return head.alarm, true
		}
		heap.Pop(&e.queue)
	}
	return Alarm{}, false
}

func (e *Engine) popDue(now time.Time) []Alarm {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alarm, 0)
	for len(e.queue) > 0 {
		head := e.queue[0]
		if head.alarm.TriggerAt.After(now) {
			break
		}
		heap.Pop(&e.queue)
		if e.live[head.alarm.HabitID] != head.gen {
			continue
		}
		delete(e.live, head.alarm.HabitID)
		out = append(out, head.alarm)
	}
	return out
}

func deferToWindow(t time.Time) time.Time {
	rounded := t.Truncate(inexactWindow)
	if rounded.Equal(t) {
		return t
	}
	return rounded.Add(inexactWindow)
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
