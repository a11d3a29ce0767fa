// Package notify holds the transient, self-expiring messages shown to the user.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultDuration applies when a notification is added with a zero Duration.
const DefaultDuration = 5 * time.Second

// Sticky disables auto-dismiss. Any negative duration does the same.
const Sticky time.Duration = -1

// Notification is one user-facing message.
type Notification struct {
	ID        string
	Severity  Severity
	Title     string
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules auto-dismissal. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Queue.
type Option func(*Queue)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(q *Queue) { q.clock = c }
}

// WithOnChange registers fn to receive a snapshot after every change,
// including automatic removals.
func WithOnChange(fn func([]Notification)) Option {
	return func(q *Queue) { q.onChange = fn }
}

// Queue is an insertion-ordered list of notifications, each with its own
// removal timer.
type Queue struct {
	mu       sync.Mutex
	clock    Clock
	items    []Notification
	timers   map[string]Timer
	onChange func([]Notification)
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		clock:  realClock{},
		timers: make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Add assigns a fresh id, applies DefaultDuration when Duration is zero,
// appends n and schedules its removal. It returns the id.
func (q *Queue) Add(n Notification) string {
	n.ID = uuid.NewString()
	if n.Duration == 0 {
		n.Duration = DefaultDuration
	}

	q.mu.Lock()
	n.CreatedAt = q.clock.Now()
	q.items = append(q.items, n)
	if n.Duration > 0 {
		id := n.ID
		q.timers[id] = q.clock.AfterFunc(n.Duration, func() { q.Remove(id) })
	}
	snap := q.snapshotLocked()
	q.mu.Unlock()

	q.changed(snap)
	return n.ID
}

// Remove deletes the notification with id and cancels its timer. It reports
// whether anything was removed.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	i := slices.IndexFunc(q.items, func(n Notification) bool { return n.ID == id })
	if i < 0 {
		q.mu.Unlock()
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	snap := q.snapshotLocked()
	q.mu.Unlock()

	q.changed(snap)
	return true
}

// Clear empties the queue. Timers that already fired find nothing to remove.
func (q *Queue) Clear() {
	q.mu.Lock()
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.items = nil
	q.mu.Unlock()

	q.changed(nil)
}

// List returns a copy of the current notifications, oldest first.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Len returns the number of active notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) Success(title, message string) string {
	return q.Add(Notification{Severity: SeveritySuccess, Title: title, Message: message})
}

func (q *Queue) Error(title, message string) string {
	return q.Add(Notification{Severity: SeverityError, Title: title, Message: message})
}

func (q *Queue) Warning(title, message string) string {
	return q.Add(Notification{Severity: SeverityWarning, Title: title, Message: message})
}

func (q *Queue) Info(title, message string) string {
	return q.Add(Notification{Severity: SeverityInfo, Title: title, Message: message})
}

func (q *Queue) snapshotLocked() []Notification {
	if len(q.items) == 0 {
		return nil
	}
	return slices.Clone(q.items)
}

func (q *Queue) changed(snap []Notification) {
	if q.onChange != nil {
		q.onChange(snap)
	}
}
