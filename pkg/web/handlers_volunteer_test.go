package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/hopeconnect/pkg/core/model"
	"github.com/jakechorley/hopeconnect/pkg/core/services"
)

func completeApplication() url.Values {
	form := url.Values{}
	form.Set("firstName", "Ada")
	form.Set("lastName", "Lovelace")
	form.Set("email", "ada@example.org")
	form.Set("phone", "")
	form.Set("location", "London")
	form.Set("availability", string(model.AvailabilityWeekends))
	form.Add("interests", "Technology Training")
	form.Add("interests", "Education & Literacy")
	form.Set("experience", "Taught mathematics")
	form.Set("motivation", "Give back")
	form.Set("agreeToTerms", "on")
	return form
}

func decodeDraftState(t *testing.T, rec *httptest.ResponseRecorder) draftStateResponse {
	t.Helper()
	var resp draftStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func visitSnapshot(t *testing.T, srv *Server, id string) services.FormSnapshot {
	t.Helper()
	v, err := srv.visits.Get(id)
	require.NoError(t, err)
	return v.Form.Snapshot()
}

func TestVolunteerPage_FreshVisit(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/volunteer", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `button-block" disabled>`, "submit starts disabled with no interests")
	assert.Contains(t, body, "Next session: Sat 4 Jan, 09:00")
	assert.Contains(t, body, "Next session: Thu 2 Jan, 18:30")
	assert.NotContains(t, body, `class="toasts"`)
	assert.Equal(t, 1, srv.visits.Len())
}

func TestVolunteerPage_EachLoadStartsNewDraft(t *testing.T) {
	srv, _ := newTestServer(t)

	first := startVolunteerSession(t, srv)
	second := startVolunteerSession(t, srv)

	assert.NotEqual(t, first.visit, second.visit)
	assert.Equal(t, 2, srv.visits.Len())
}

func TestSetField(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	rec := session.post(t, srv, "/volunteer/draft/field", url.Values{"field": {"firstName"}, "value": {"Ada"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeDraftState(t, rec).SubmitEnabled)

	rec = session.post(t, srv, "/volunteer/draft/field", url.Values{"field": {"firstName"}, "value": {"Grace"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = session.post(t, srv, "/volunteer/draft/field", url.Values{"field": {"agreeToTerms"}, "value": {"true"}})
	require.Equal(t, http.StatusOK, rec.Code)

	snapshot := visitSnapshot(t, srv, session.visit)
	assert.Equal(t, "Grace", snapshot.Draft.FirstName)
	assert.True(t, snapshot.Draft.AgreeToTerms)
	assert.Equal(t, 3.0, testutil.ToFloat64(srv.formMetrics.FieldUpdates))
}

func TestSetField_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	tests := []struct {
		name   string
		form   url.Values
		status int
	}{
		{name: "unknown field", form: url.Values{"field": {"nickname"}, "value": {"x"}}, status: http.StatusBadRequest},
		{name: "bad availability", form: url.Values{"field": {"availability"}, "value": {"sometimes"}}, status: http.StatusBadRequest},
		{name: "bad boolean", form: url.Values{"field": {"agreeToTerms"}, "value": {"maybe"}}, status: http.StatusBadRequest},
		{name: "unknown visit", form: url.Values{"visit": {"missing"}, "field": {"firstName"}, "value": {"x"}}, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := session.post(t, srv, "/volunteer/draft/field", tt.form)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.True(t, visitSnapshot(t, srv, session.visit).Draft.IsDefault())
}

func TestToggleInterest_DrivesSubmitEnabled(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	rec := session.post(t, srv, "/volunteer/draft/interests", url.Values{"label": {"Fundraising"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeDraftState(t, rec)
	assert.True(t, resp.SubmitEnabled)
	assert.Equal(t, []string{"Fundraising"}, resp.Interests)

	rec = session.post(t, srv, "/volunteer/draft/interests", url.Values{"label": {"Fundraising"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeDraftState(t, rec)
	assert.False(t, resp.SubmitEnabled)
	assert.Empty(t, resp.Interests)
}

func TestToggleInterest_UnknownLabel(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	rec := session.post(t, srv, "/volunteer/draft/interests", url.Values{"label": {"Juggling"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, visitSnapshot(t, srv, session.visit).Draft.Interests.Len())
}

func TestApply_Success(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	rec := session.post(t, srv, "/volunteer/apply", completeApplication())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Application submitted successfully!")
	assert.Contains(t, body, `name="firstName" value=""`)
	assert.Contains(t, body, `button-block" disabled>`)

	snapshot := visitSnapshot(t, srv, session.visit)
	assert.True(t, snapshot.Draft.IsDefault())
	assert.Equal(t, services.StateIdle, snapshot.State)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.formMetrics.Submissions.WithLabelValues(outcomeSubmitted)))
}

func TestApply_TermsNotAgreed(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	form := completeApplication()
	form.Del("agreeToTerms")
	rec := session.post(t, srv, "/volunteer/apply", form)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please agree to terms")
	assert.Contains(t, body, `class="toast toast-error"`)
	assert.Contains(t, body, `name="firstName" value="Ada"`)
	assert.NotContains(t, body, "Application submitted successfully!")

	snapshot := visitSnapshot(t, srv, session.visit)
	assert.Equal(t, "Ada", snapshot.Draft.FirstName)
	assert.Equal(t, model.AvailabilityWeekends, snapshot.Draft.Availability)
	assert.Equal(t, []string{"Education & Literacy", "Technology Training"}, snapshot.Draft.Interests.Labels())
	assert.False(t, snapshot.Draft.AgreeToTerms)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.formMetrics.Submissions.WithLabelValues(outcomeTermsNotAgreed)))
}

func TestApply_NoInterestsRejectedByGuard(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	form := completeApplication()
	form.Del("interests")
	rec := session.post(t, srv, "/volunteer/apply", form)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Select an area of interest")
	assert.Contains(t, body, `class="toast toast-error"`)
	assert.Contains(t, body, `name="firstName" value="Ada"`)

	snapshot := visitSnapshot(t, srv, session.visit)
	assert.Equal(t, "Ada", snapshot.Draft.FirstName, "posted values are kept in the draft")
	assert.True(t, snapshot.Draft.AgreeToTerms)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.formMetrics.Submissions.WithLabelValues(outcomeRejected)))
	assert.Equal(t, 0.0, testutil.ToFloat64(srv.formMetrics.Submissions.WithLabelValues(outcomeSubmitted)))
}

func TestApply_SyncUntogglesInterests(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	rec := session.post(t, srv, "/volunteer/draft/interests", url.Values{"label": {"Fundraising"}})
	require.Equal(t, http.StatusOK, rec.Code)

	form := completeApplication()
	form.Del("agreeToTerms")
	rec = session.post(t, srv, "/volunteer/apply", form)
	require.Equal(t, http.StatusOK, rec.Code)

	snapshot := visitSnapshot(t, srv, session.visit)
	assert.False(t, snapshot.Draft.Interests.Has("Fundraising"))
	assert.Equal(t, 2, snapshot.Draft.Interests.Len())
}

func TestApply_InvalidAvailability(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	form := completeApplication()
	form.Set("availability", "sometimes")
	rec := session.post(t, srv, "/volunteer/apply", form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, visitSnapshot(t, srv, session.visit).Draft.IsDefault(), "no posted value is kept when one is invalid")
}

func TestApply_InvalidAvailabilityKeepsEarlierDraft(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	rec := session.post(t, srv, "/volunteer/draft/field", url.Values{"field": {"lastName"}, "value": {"Hopper"}})
	require.Equal(t, http.StatusOK, rec.Code)

	form := completeApplication()
	form.Set("availability", "sometimes")
	rec = session.post(t, srv, "/volunteer/apply", form)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	draft := visitSnapshot(t, srv, session.visit).Draft
	assert.Equal(t, "Hopper", draft.LastName)
	assert.Empty(t, draft.FirstName)
	assert.Empty(t, draft.Motivation)
	assert.Equal(t, 0, draft.Interests.Len())
}

func TestApply_RefusedWhileSubmissionInFlight(t *testing.T) {
	srv, clock := newTestServerWithDelay(t, 2*time.Second)
	session := startVolunteerSession(t, srv)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- session.post(t, srv, "/volunteer/apply", completeApplication())
	}()

	// The first apply is now sleeping inside the submitter
	waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	assert.Equal(t, services.StateSubmitting, visitSnapshot(t, srv, session.visit).State)

	rec := session.post(t, srv, "/volunteer/apply", completeApplication())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Application already being submitted")
	assert.Contains(t, rec.Body.String(), `button-block" disabled>`)

	clock.Advance(2 * time.Second)

	select {
	case rec = <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("first apply did not complete")
	}
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Application submitted successfully!")
	assert.NotContains(t, rec.Body.String(), "Application already being submitted")

	snapshot := visitSnapshot(t, srv, session.visit)
	assert.True(t, snapshot.Draft.IsDefault())
	assert.Equal(t, services.StateIdle, snapshot.State)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.formMetrics.Submissions.WithLabelValues(outcomeSubmitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.formMetrics.Submissions.WithLabelValues(outcomeRejected)))
}

func TestApply_UnknownVisitStartsNewOne(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	form := completeApplication()
	form.Set("visit", "expired")
	rec := session.post(t, srv, "/volunteer/apply", form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Application submitted successfully!")
	assert.Equal(t, 2, srv.visits.Len())
	assert.True(t, visitSnapshot(t, srv, session.visit).Draft.IsDefault())
}

func TestApply_RequiresCSRFToken(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	form := completeApplication()
	form.Set("visit", session.visit)
	req := httptest.NewRequest(http.MethodPost, "/volunteer/apply", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Contains(t, []int{http.StatusBadRequest, http.StatusForbidden}, rec.Code)
	assert.True(t, visitSnapshot(t, srv, session.visit).Draft.IsDefault())
}

func TestDraftEndpoints_AcceptHeaderToken(t *testing.T) {
	srv, _ := newTestServer(t)
	session := startVolunteerSession(t, srv)

	form := url.Values{"visit": {session.visit}, "label": {"Fundraising"}}
	req := httptest.NewRequest(http.MethodPost, "/volunteer/draft/interests", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("X-CSRF-Token", session.csrf.Value)
	req.AddCookie(session.csrf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeDraftState(t, rec).SubmitEnabled)
}
