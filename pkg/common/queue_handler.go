package common

import (
	"sync"
	"time"
)

// QueueProcessor is a function that processes a batch of items from the queue.
type QueueProcessor[V any] func(items []V)

// QueueHandler is a generic queue handler that processes items in the background.
type QueueHandler[V any] struct {
	mu        sync.Mutex
	queue     []V
	processor QueueProcessor[V]
	chunkSize int
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler[V any](processor QueueProcessor[V], chunkSize int) *QueueHandler[V] {
	if chunkSize <= 0 {
		chunkSize = 32
	}
	q := &QueueHandler[V]{
		queue:     make([]V, 0),
		processor: processor,
		chunkSize: chunkSize,
		done:      make(chan struct{}),
	}
	go q.processQueue()
	return q
}

// Add adds items to the queue.
func (h *QueueHandler[V]) Add(item ...V) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, item...)
}

// Close drains what is queued and stops the background loop.
func (h *QueueHandler[V]) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.drain()
	})
}

func (h *QueueHandler[V]) drain() {
	for {
		h.mu.Lock()
		if len(h.queue) == 0 {
			h.mu.Unlock()
			return
		}
		items := h.queue[:min(h.chunkSize, len(h.queue))]
		h.queue = h.queue[len(items):]
		h.mu.Unlock()
		h.processor(items)
	}
}

func (h *QueueHandler[V]) processQueue() {
	for {
		select {
		case <-h.done:
			return
		default:
		}

		h.mu.Lock()
		if len(h.queue) == 0 {
			h.mu.Unlock()
			select {
			case <-h.done:
				return
			case <-time.After(time.Second):
			}
			continue
		}

		items := h.queue[:min(h.chunkSize, len(h.queue))]
		h.queue = h.queue[len(items):]
		h.mu.Unlock()

		h.processor(items)
	}
}
