// Package notify holds ephemeral, fire-and-forget user-facing messages.
// At most one notification is visible at a time; a new one replaces the old.
package notify

import (
	"sync"
	"time"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

type Notification struct {
	Message  string
	Kind     Kind
	Duration time.Duration
}

const DefaultDuration = 3 * time.Second

// Bus is the last-writer-wins notification slot. Show replaces whatever is
// visible and schedules auto-dismissal; there is no queue of pending
// notifications.
type Bus struct {
	mu      sync.Mutex
	current *Notification
	seq     uint64
	timer   *time.Timer
}

func NewBus() *Bus {
	return &Bus{}
}

// Show displays a notification, replacing the current one. A non-positive
// duration gets the default.
func (b *Bus) Show(message string, kind Kind, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultDuration
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.seq++
	seq := b.seq
	b.current = &Notification{Message: message, Kind: kind, Duration: duration}
	b.timer = time.AfterFunc(duration, func() {
		b.dismissIfCurrent(seq)
	})
}

// Dismiss clears the visible notification immediately.
func (b *Bus) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.current = nil
}

// Current returns the visible notification, or nil.
func (b *Bus) Current() *Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	n := *b.current
	return &n
}

// dismissIfCurrent expires a notification only if it has not been replaced
// since its timer was armed.
func (b *Bus) dismissIfCurrent(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq != seq {
		return
	}
	b.current = nil
	b.timer = nil
}
