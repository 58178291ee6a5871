// Package toast keeps the bounded list of short-lived confirmation messages shown to a shopper.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxVisible = 3
	DefaultDisplay    = 2400 * time.Millisecond
	DefaultFade       = 400 * time.Millisecond
)

type Phase string

const (
	PhaseEntering Phase = "entering"
	PhaseVisible  Phase = "visible"
	PhaseLeaving  Phase = "leaving"
)

// Toast is a snapshot of one message and where it is in its show/hide cycle.
type Toast struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
	Phase   Phase     `json:"phase"`
}

// Recorder receives lifecycle events ("shown", "evicted", "expired", "dismissed").
type Recorder interface {
	ToastEvent(event string)
}

type Options struct {
	MaxVisible int
	Display    time.Duration
	Fade       time.Duration
	Scheduler  Scheduler
	Recorder   Recorder
}

type entry struct {
	toast  Toast
	timers []Timer
}

// Queue holds at most MaxVisible toasts. Each toast owns its own timers.
type Queue struct {
	mu       sync.Mutex
	max      int
	display  time.Duration
	fade     time.Duration
	sched    Scheduler
	recorder Recorder
	entries  []*entry
}

func NewQueue(opts Options) *Queue {
	if opts.MaxVisible < 1 {
		opts.MaxVisible = DefaultMaxVisible
	}
	if opts.Display <= 0 {
		opts.Display = DefaultDisplay
	}
	if opts.Fade < 0 {
		opts.Fade = DefaultFade
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler()
	}
	return &Queue{
		max:      opts.MaxVisible,
		display:  opts.Display,
		fade:     opts.Fade,
		sched:    opts.Scheduler,
		recorder: opts.Recorder,
	}
}

// Push shows msg. When the queue is full the oldest toast is dropped at once, without fading.
func (q *Queue) Push(msg string) Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.entries) >= q.max {
		oldest := q.entries[0]
		q.entries = q.entries[1:]
		oldest.stop()
		q.record("evicted")
	}

	e := &entry{toast: Toast{ID: uuid.New(), Message: msg, Phase: PhaseEntering}}
	id := e.toast.ID
	e.timers = []Timer{
		q.sched.AfterFunc(0, func() { q.setPhase(id, PhaseVisible) }),
		q.sched.AfterFunc(q.display, func() { q.setPhase(id, PhaseLeaving) }),
		q.sched.AfterFunc(q.display+q.fade, func() { q.expire(id) }),
	}
	q.entries = append(q.entries, e)
	q.record("shown")
	return e.toast
}

// Dismiss removes a toast before its timers run out.
func (q *Queue) Dismiss(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.take(id)
	if e == nil {
		return false
	}
	e.stop()
	q.record("dismissed")
	return true
}

// Visible returns the current toasts, oldest first.
func (q *Queue) Visible() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.toast)
	}
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Close cancels every pending timer and empties the queue.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		e.stop()
	}
	q.entries = nil
}

func (q *Queue) setPhase(id uuid.UUID, phase Phase) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.toast.ID == id {
			// a late "visible" must not undo "leaving"
			if phase == PhaseVisible && e.toast.Phase != PhaseEntering {
				return
			}
			e.toast.Phase = phase
			return
		}
	}
}

func (q *Queue) expire(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.take(id) != nil {
		q.record("expired")
	}
}

func (q *Queue) take(id uuid.UUID) *entry {
	for i, e := range q.entries {
		if e.toast.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return e
		}
	}
	return nil
}

func (q *Queue) record(event string) {
	if q.recorder != nil {
		q.recorder.ToastEvent(event)
	}
}

func (e *entry) stop() {
	for _, t := range e.timers {
		t.Stop()
	}
}
