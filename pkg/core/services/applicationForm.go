package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/hopeconnect/pkg/core/model"
)

var (
	// ErrTermsNotAgreed is the precondition failure reported when the applicant has not ticked the terms box
	ErrTermsNotAgreed     = errors.New("terms and conditions not agreed")
	ErrSubmissionInFlight = errors.New("application submission already in progress")
)

type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateSubmitting
)

func (s SubmissionState) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// Notifier receives the user-facing messages emitted by the form
type Notifier interface {
	Notify(n model.Notification)
}

var (
	termsNotAgreedNotification = model.Notification{
		Title:       "Please agree to terms",
		Description: "You must agree to the terms and conditions to continue.",
		Severity:    model.SeverityError,
	}
	submittedNotification = model.Notification{
		Title:       "Application submitted successfully!",
		Description: "Thank you for your interest in volunteering. We'll be in touch soon.",
		Severity:    model.SeverityInfo,
	}
	submitFailedNotification = model.Notification{
		Title:       "Application could not be submitted",
		Description: "Something went wrong while sending your application. Please try again.",
		Severity:    model.SeverityError,
	}
)

// FormSnapshot is a consistent view of the form for rendering
type FormSnapshot struct {
	Draft         model.ApplicationDraft
	State         SubmissionState
	SubmitEnabled bool
}

// ApplicationForm owns one visitor's volunteer application draft and its submission lifecycle
type ApplicationForm struct {
	mu        sync.Mutex
	draft     model.ApplicationDraft
	state     SubmissionState
	submitter Submitter
	notifier  Notifier
	logger    *zap.Logger
}

// NewApplicationForm creates a form with an empty draft in the idle state
func NewApplicationForm(submitter Submitter, notifier Notifier, logger *zap.Logger) *ApplicationForm {
	return &ApplicationForm{
		draft:     model.NewApplicationDraft(),
		state:     StateIdle,
		submitter: submitter,
		notifier:  notifier,
		logger:    logger,
	}
}

// SetField replaces a single scalar field of the draft
func (f *ApplicationForm) SetField(v model.FieldValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := v.Apply(&f.draft); err != nil {
		return fmt.Errorf("failed to set %s: %w", v.Field, err)
	}
	return nil
}

// SetFields replaces several scalar fields at once. Either every value is
// applied or, on the first invalid one, the draft is left untouched.
func (f *ApplicationForm) SetFields(values ...model.FieldValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Apply to a copy so a bad value halfway through leaves no partial update
	draft := f.draft.Clone()
	for _, v := range values {
		if err := v.Apply(&draft); err != nil {
			return fmt.Errorf("failed to set %s: %w", v.Field, err)
		}
	}

	f.draft = draft
	return nil
}

// ToggleInterest adds label to the draft's interests if absent and removes it if present.
// Labels outside the catalog are ignored. It returns whether label is selected afterwards.
func (f *ApplicationForm) ToggleInterest(label string) bool {
	if !model.IsCatalogInterest(label) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.draft.Interests.Has(label) {
		delete(f.draft.Interests, label)
		return false
	}
	f.draft.Interests[label] = struct{}{}
	return true
}

// SubmitEnabled is the condition under which the submit control is offered:
// nothing in flight and at least one interest selected.
// Submit itself does not check interests.
func (f *ApplicationForm) SubmitEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitEnabledLocked()
}

func (f *ApplicationForm) submitEnabledLocked() bool {
	return f.state != StateSubmitting && f.draft.Interests.Len() > 0
}

func (f *ApplicationForm) State() SubmissionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *ApplicationForm) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormSnapshot{
		Draft:         f.draft.Clone(),
		State:         f.state,
		SubmitEnabled: f.submitEnabledLocked(),
	}
}

// Submit sends the draft through the configured Submitter.
// Exactly one notification is emitted per call, except when a submission is
// already in flight, which returns ErrSubmissionInFlight and emits nothing.
func (f *ApplicationForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}

	// Terms are the only precondition checked here; interests are left to SubmitEnabled
	if !f.draft.AgreeToTerms {
		f.mu.Unlock()
		f.notifier.Notify(termsNotAgreedNotification)
		return ErrTermsNotAgreed
	}

	// Mark the form busy and hand a copy to the submitter with the lock released,
	// so State and SubmitEnabled can be read while the submission is in flight
	f.state = StateSubmitting
	draft := f.draft.Clone()
	f.mu.Unlock()

	f.logger.Debug("Submitting volunteer application",
		zap.Int("interests", draft.Interests.Len()),
		zap.String("availability", string(draft.Availability)))

	result, err := f.submitter.SubmitApplication(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()

	// A failed submission keeps the draft so the applicant can retry
	if err != nil {
		f.state = StateIdle
		f.notifier.Notify(submitFailedNotification)
		return fmt.Errorf("failed to submit application: %w", err)
	}

	// Accepted: confirm and start over with an empty draft
	f.notifier.Notify(submittedNotification)
	f.draft = model.NewApplicationDraft()
	f.state = StateIdle

	f.logger.Info("Volunteer application submitted",
		zap.String("reference", result.Reference),
		zap.Time("submitted_at", result.SubmittedAt))

	return nil
}
