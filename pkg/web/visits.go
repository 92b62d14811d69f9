package web

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/jakechorley/hopeconnect/pkg/core/services"
)

var ErrVisitNotFound = errors.New("visit not found")

const minSweepInterval = time.Second

// Visit is one load of the volunteer page and the form it owns
type Visit struct {
	ID     string
	Form   *services.ApplicationForm
	Toasts *ToastQueue

	lastSeen time.Time
}

// FormFactory builds the form for a new visit, wired to the visit's toast queue
type FormFactory func(notifier services.Notifier) *services.ApplicationForm

// VisitRegistry keeps the forms of recent volunteer page visits in memory.
// Idle visits are dropped after ttl; when full the least recently used visit is dropped.
type VisitRegistry struct {
	mu        sync.Mutex
	visits    map[string]*Visit
	ttl       time.Duration
	maxVisits int
	clock     clockwork.Clock
	newForm   FormFactory
	logger    *zap.Logger
}

func NewVisitRegistry(clock clockwork.Clock, ttl time.Duration, maxVisits int, newForm FormFactory, logger *zap.Logger) *VisitRegistry {
	return &VisitRegistry{
		visits:    make(map[string]*Visit),
		ttl:       ttl,
		maxVisits: maxVisits,
		clock:     clock,
		newForm:   newForm,
		logger:    logger,
	}
}

// Start registers a new visit with a fresh form
func (r *VisitRegistry) Start() *Visit {
	toasts := &ToastQueue{}
	v := &Visit{
		ID:     uuid.New().String(),
		Form:   r.newForm(toasts),
		Toasts: toasts,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.visits) >= r.maxVisits {
		r.evictOldestLocked()
	}
	v.lastSeen = r.clock.Now()
	r.visits[v.ID] = v

	return v
}

// Get returns the visit with the given ID and marks it as recently used
func (r *VisitRegistry) Get(id string) (*Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.visits[id]
	if !ok {
		return nil, ErrVisitNotFound
	}
	v.lastSeen = r.clock.Now()
	return v, nil
}

func (r *VisitRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}

// Sweep drops visits idle for longer than the TTL and returns how many were dropped
func (r *VisitRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock.Now().Add(-r.ttl)
	removed := 0
	for id, v := range r.visits {
		if v.lastSeen.Before(cutoff) {
			delete(r.visits, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired visits until ctx is cancelled
func (r *VisitRegistry) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}

	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			if removed := r.Sweep(); removed > 0 {
				r.logger.Debug("Expired volunteer page visits", zap.Int("removed", removed), zap.Int("remaining", r.Len()))
			}
		case <-ctx.Done():
			r.logger.Debug("Visit sweeper stopped")
			return
		}
	}
}

func (r *VisitRegistry) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, v := range r.visits {
		if oldestID == "" || v.lastSeen.Before(oldest) {
			oldestID = id
			oldest = v.lastSeen
		}
	}
	if oldestID != "" {
		delete(r.visits, oldestID)
	}
}
