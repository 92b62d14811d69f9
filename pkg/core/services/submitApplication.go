package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jakechorley/hopeconnect/pkg/core/model"
)

// DefaultSubmissionDelay matches the latency the site has always shown applicants
const DefaultSubmissionDelay = 2 * time.Second

// Result describes an accepted application
type Result struct {
	Reference   string
	SubmittedAt time.Time
}

// Submitter delivers a completed draft somewhere
type Submitter interface {
	SubmitApplication(ctx context.Context, draft model.ApplicationDraft) (Result, error)
}

// SimulatedSubmitter stands in for a backend: it waits a fixed delay and always succeeds.
// The wait is not cancellable; once started it runs to completion.
type SimulatedSubmitter struct {
	clock clockwork.Clock
	delay time.Duration
}

func NewSimulatedSubmitter(clock clockwork.Clock, delay time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{
		clock: clock,
		delay: delay,
	}
}

func (s *SimulatedSubmitter) SubmitApplication(_ context.Context, _ model.ApplicationDraft) (Result, error) {
	if s.delay > 0 {
		s.clock.Sleep(s.delay)
	}
	return Result{
		Reference:   uuid.New().String(),
		SubmittedAt: s.clock.Now(),
	}, nil
}
