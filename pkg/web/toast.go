package web

import (
	"sync"

	"github.com/jakechorley/hopeconnect/pkg/core/model"
)

// ToastQueue collects notifications for a visit until the next page render shows them
type ToastQueue struct {
	mu      sync.Mutex
	pending []model.Notification
}

func (q *ToastQueue) Notify(n model.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
}

// Drain returns the queued notifications and empties the queue
func (q *ToastQueue) Drain() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
