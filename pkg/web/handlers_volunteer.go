package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jakechorley/hopeconnect/pkg/core/model"
	"github.com/jakechorley/hopeconnect/pkg/core/services"
)

type interestOption struct {
	ID      string
	Label   string
	Checked bool
}

type availabilityOption struct {
	Value    string
	Label    string
	Selected bool
}

type volunteerPage struct {
	pageData
	VisitID       string
	Form          services.FormSnapshot
	Opportunities []model.Opportunity
	Interests     []interestOption
	Availability  []availabilityOption
	Reasons       []model.Value
	Toasts        []model.Notification
}

type draftStateResponse struct {
	SubmitEnabled bool     `json:"submitEnabled"`
	Interests     []string `json:"interests,omitempty"`
}

func (s *Server) handleVolunteer(c echo.Context) error {
	return s.renderVolunteer(c, s.visits.Start())
}

func (s *Server) renderVolunteer(c echo.Context, v *Visit) error {
	return s.renderVolunteerStatus(c, v, http.StatusOK)
}

func (s *Server) renderVolunteerStatus(c echo.Context, v *Visit, status int) error {
	opportunities, err := services.NextSessions(s.opportunities, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to compute opportunity sessions: %w", err)
	}

	snapshot := v.Form.Snapshot()

	interests := make([]interestOption, len(model.InterestCatalog))
	for i, label := range model.InterestCatalog {
		interests[i] = interestOption{
			ID:      fmt.Sprintf("interest-%d", i),
			Label:   label,
			Checked: snapshot.Draft.Interests.Has(label),
		}
	}

	availability := make([]availabilityOption, len(model.AvailabilityOptions))
	for i, a := range model.AvailabilityOptions {
		availability[i] = availabilityOption{
			Value:    string(a),
			Label:    a.Label(),
			Selected: snapshot.Draft.Availability == a,
		}
	}

	return s.renderTemplate(c, status, "volunteer.html", volunteerPage{
		pageData:      s.newPageData(c, "Volunteer"),
		VisitID:       v.ID,
		Form:          snapshot,
		Opportunities: opportunities,
		Interests:     interests,
		Availability:  availability,
		Reasons:       model.VolunteerReasons,
		Toasts:        v.Toasts.Drain(),
	})
}

// handleSetField applies a single field change sent while the visitor types
func (s *Server) handleSetField(c echo.Context) error {
	v, err := s.visits.Get(c.FormValue("visit"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "visit not found").SetInternal(err)
	}

	fv, err := model.ParseFieldValue(c.FormValue("field"), c.FormValue("value"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	if err := v.Form.SetField(fv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	s.formMetrics.FieldUpdates.Inc()

	return c.JSON(http.StatusOK, draftStateResponse{SubmitEnabled: v.Form.SubmitEnabled()})
}

func (s *Server) handleToggleInterest(c echo.Context) error {
	v, err := s.visits.Get(c.FormValue("visit"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "visit not found").SetInternal(err)
	}

	label := c.FormValue("label")
	if !model.IsCatalogInterest(label) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown interest area %q", label))
	}
	v.Form.ToggleInterest(label)
	s.formMetrics.Toggles.Inc()

	snapshot := v.Form.Snapshot()
	return c.JSON(http.StatusOK, draftStateResponse{
		SubmitEnabled: snapshot.SubmitEnabled,
		Interests:     snapshot.Draft.Interests.Labels(),
	})
}

// Shown when the trigger refuses a post the disabled submit control should have prevented
var (
	noInterestsNotification = model.Notification{
		Title:       "Select an area of interest",
		Description: "Choose at least one area of interest before submitting your application.",
		Severity:    model.SeverityError,
	}
	inFlightNotification = model.Notification{
		Title:       "Application already being submitted",
		Description: "Please wait while we send your application.",
		Severity:    model.SeverityError,
	}
)

// handleApply is the submit trigger. It brings the draft in line with the
// posted form, refuses when the submit control would be disabled, and
// otherwise hands over to the form.
func (s *Server) handleApply(c echo.Context) error {
	v, err := s.visits.Get(c.FormValue("visit"))
	if err != nil {
		s.logger.Debug("Apply for unknown visit, starting a new one", zap.String("visit", c.FormValue("visit")))
		v = s.visits.Start()
	}

	if err := s.syncDraft(c, v.Form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}

	// The submit control is disabled in this state; re-render the form with the reason
	if snapshot := v.Form.Snapshot(); !snapshot.SubmitEnabled {
		s.formMetrics.Submissions.WithLabelValues(outcomeRejected).Inc()
		if snapshot.State == services.StateSubmitting {
			v.Toasts.Notify(inFlightNotification)
		} else {
			v.Toasts.Notify(noInterestsNotification)
		}
		return s.renderVolunteerStatus(c, v, http.StatusConflict)
	}

	err = v.Form.Submit(c.Request().Context())
	switch {
	case err == nil:
		s.formMetrics.Submissions.WithLabelValues(outcomeSubmitted).Inc()
	case errors.Is(err, services.ErrTermsNotAgreed):
		s.formMetrics.Submissions.WithLabelValues(outcomeTermsNotAgreed).Inc()
	case errors.Is(err, services.ErrSubmissionInFlight):
		// Another request started submitting after the check above
		s.formMetrics.Submissions.WithLabelValues(outcomeRejected).Inc()
		v.Toasts.Notify(inFlightNotification)
		return s.renderVolunteerStatus(c, v, http.StatusConflict)
	default:
		s.formMetrics.Submissions.WithLabelValues(outcomeFailed).Inc()
		s.logger.Error("Volunteer application submission failed", zap.String("visit", v.ID), zap.Error(err))
	}

	return s.renderVolunteer(c, v)
}

// syncDraft copies the posted form values into the draft and toggles every
// interest whose posted state differs from the draft. Scalar fields are
// applied together, so an invalid value leaves the draft as it was.
func (s *Server) syncDraft(c echo.Context, form *services.ApplicationForm) error {
	// Collect every posted scalar before touching the draft
	values := make([]model.FieldValue, 0, len(model.TextFields)+2)
	for _, f := range model.TextFields {
		values = append(values, model.TextValue(f, c.FormValue(f.Name())))
	}
	values = append(values, model.TextValue(model.FieldAvailability, c.FormValue(model.FieldAvailability.Name())))

	terms, err := model.ParseFieldValue(model.FieldAgreeToTerms.Name(), c.FormValue(model.FieldAgreeToTerms.Name()))
	if err != nil {
		return err
	}
	values = append(values, terms)

	params, err := c.FormParams()
	if err != nil {
		return fmt.Errorf("failed to read form: %w", err)
	}

	if err := form.SetFields(values...); err != nil {
		return err
	}

	// Unticked checkboxes are not posted, so absence means unselected
	posted := make(map[string]bool)
	for _, label := range params["interests"] {
		posted[label] = true
	}

	current := form.Snapshot().Draft.Interests
	for _, label := range model.InterestCatalog {
		if posted[label] != current.Has(label) {
			form.ToggleInterest(label)
		}
	}

	return nil
}
