// Package notify holds the transient, auto-dismissing notifications the
// console shows as toasts. Nothing here is fatal; entries expire on their own
// and pending ones are polled per session.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// DefaultTTL matches the console's toast dismiss delay.
const DefaultTTL = 3 * time.Second

type Notification struct {
	Id        string    `json:"id"`
	SessionId string    `json:"-"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Created   time.Time `json:"created"`
}

type Hub struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries []Notification
	now     func() time.Time
}

func NewHub(ttl time.Duration) *Hub {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Hub{ttl: ttl, now: time.Now}
}

// Push queues a toast for one session.
func (h *Hub) Push(sessionId string, level Level, message string) Notification {
	n := Notification{
		Id:        uuid.NewString(),
		SessionId: sessionId,
		Level:     level,
		Message:   message,
		Created:   h.now(),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prune()
	h.entries = append(h.entries, n)
	return n
}

// Pending returns the session's not-yet-expired notifications.
func (h *Hub) Pending(sessionId string) []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prune()
	out := make([]Notification, 0)
	for _, n := range h.entries {
		if n.SessionId == sessionId {
			out = append(out, n)
		}
	}
	return out
}

// Dismiss removes one notification before it expires.
func (h *Hub) Dismiss(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, n := range h.entries {
		if n.Id == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// prune drops expired entries; callers hold the lock.
func (h *Hub) prune() {
	cutoff := h.now().Add(-h.ttl)
	kept := h.entries[:0]
	for _, n := range h.entries {
		if n.Created.After(cutoff) {
			kept = append(kept, n)
		}
	}
	h.entries = kept
}
