package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/delivery/http/middleware"
	"dancehub/internal/domain"
	"dancehub/internal/filter"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	callerID = "5b0e2a55-7d0e-4c1b-9d1f-6a2b8f1d0001"
	otherID  = "5b0e2a55-7d0e-4c1b-9d1f-6a2b8f1d0002"
	objectID = "9c1f3b66-8e1f-4d2c-8e20-7b3c9a2e0003"
)

// newRequest builds a request with an optional body, path values and the caller in context.
func newRequest(method, target, body string, authed bool, pathValues map[string]string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if authed {
		req = req.WithContext(middleware.SetUserID(req.Context(), callerID))
	}
	return req
}

// decodeData decodes the envelope's data into dest and returns the envelope error.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}

type fakeConnectionService struct {
	state    domain.ConnectionState
	err      error
	lastReq  domain.ConnectionRequest
	lastCall string
	lastID   string
}

func (f *fakeConnectionService) GetState(ctx context.Context, viewerID, otherID string) (domain.ConnectionState, error) {
	f.lastCall, f.lastID = "state", otherID
	return f.state, f.err
}

func (f *fakeConnectionService) Request(ctx context.Context, userID string, req domain.ConnectionRequest) (domain.ConnectionState, error) {
	f.lastCall, f.lastReq = "request", req
	return f.state, f.err
}

func (f *fakeConnectionService) record(call, id string) error {
	f.lastCall, f.lastID = call, id
	return f.err
}

func (f *fakeConnectionService) Accept(ctx context.Context, userID, id string) error {
	return f.record("accept", id)
}

func (f *fakeConnectionService) Decline(ctx context.Context, userID, id string) error {
	return f.record("decline", id)
}

func (f *fakeConnectionService) Cancel(ctx context.Context, userID, id string) error {
	return f.record("cancel", id)
}

func (f *fakeConnectionService) Block(ctx context.Context, userID, id string) error {
	return f.record("block", id)
}

func (f *fakeConnectionService) Unblock(ctx context.Context, userID, id string) error {
	return f.record("unblock", id)
}

type fakeSyncService struct {
	id           string
	err          error
	lastProposal domain.SyncProposal
	lastSyncID   string
}

func (f *fakeSyncService) Propose(ctx context.Context, userID string, p domain.SyncProposal) (string, error) {
	f.lastProposal = p
	return f.id, f.err
}

func (f *fakeSyncService) Complete(ctx context.Context, userID, syncID string) error {
	f.lastSyncID = syncID
	return f.err
}

type fakeTripService struct {
	err          error
	lastResponse domain.TripResponse
	lastCancel   string
}

func (f *fakeTripService) Respond(ctx context.Context, userID, requestID string, response domain.TripResponse) error {
	f.lastResponse = response
	return f.err
}

func (f *fakeTripService) CancelRequest(ctx context.Context, userID, requestID string) error {
	f.lastCancel = requestID
	return f.err
}

type fakeEventService struct {
	id          string
	err         error
	lastInput   domain.EventInput
	lastEventID string
	lastReason  string
	lastRating  int
	eligibility domain.FeedbackEligibility
	summary     domain.FeedbackSummary
}

func (f *fakeEventService) Create(ctx context.Context, userID string, in domain.EventInput) (string, error) {
	f.lastInput = in
	return f.id, f.err
}

func (f *fakeEventService) Update(ctx context.Context, userID, eventID string, in domain.EventInput) error {
	f.lastInput, f.lastEventID = in, eventID
	return f.err
}

func (f *fakeEventService) ListPublic(ctx context.Context, userID string, limit, offset int) ([]*domain.Event, error) {
	return nil, f.err
}

func (f *fakeEventService) Report(ctx context.Context, userID, eventID, reason, details string) (string, error) {
	f.lastEventID, f.lastReason = eventID, reason
	return f.id, f.err
}

func (f *fakeEventService) SubmitFeedback(ctx context.Context, userID, eventID string, fb domain.EventFeedback) error {
	f.lastEventID, f.lastRating = eventID, fb.Rating
	return f.err
}

func (f *fakeEventService) CanSubmitFeedback(ctx context.Context, userID, eventID string) (domain.FeedbackEligibility, error) {
	return f.eligibility, f.err
}

func (f *fakeEventService) FeedbackSummary(ctx context.Context, userID, eventID string) (domain.FeedbackSummary, error) {
	return f.summary, f.err
}

type fakeDiscoveryService struct {
	events        []*domain.Event
	profiles      []*domain.Profile
	err           error
	lastEvents    filter.EventFacets
	lastProfiles  filter.ProfileFacets
	lastPageParam domain.PaginationParams
}

func (f *fakeDiscoveryService) Events(ctx context.Context, userID string, facets filter.EventFacets, params domain.PaginationParams) ([]*domain.Event, error) {
	f.lastEvents, f.lastPageParam = facets, params
	return f.events, f.err
}

func (f *fakeDiscoveryService) Profiles(ctx context.Context, userID string, facets filter.ProfileFacets, params domain.PaginationParams) ([]*domain.Profile, error) {
	f.lastProfiles, f.lastPageParam = facets, params
	return f.profiles, f.err
}

type fakeModerationService struct {
	id           string
	err          error
	lastDecision domain.ModerationDecision
	lastReport   domain.ReportInput
	lastTarget   string
}

func (f *fakeModerationService) ModerateReport(ctx context.Context, userID, reportID string, d domain.ModerationDecision) error {
	f.lastTarget, f.lastDecision = reportID, d
	return f.err
}

func (f *fakeModerationService) ModerateEvent(ctx context.Context, userID, eventID string, d domain.ModerationDecision) error {
	f.lastTarget, f.lastDecision = eventID, d
	return f.err
}

func (f *fakeModerationService) CreateReport(ctx context.Context, userID string, in domain.ReportInput) (string, error) {
	f.lastReport = in
	return f.id, f.err
}

type fakeMessageService struct {
	id   string
	err  error
	last domain.MessageInput
}

func (f *fakeMessageService) Send(ctx context.Context, userID string, in domain.MessageInput) (string, error) {
	f.last = in
	return f.id, f.err
}

type fakeReferenceService struct {
	candidates []domain.ReferenceCandidate
	ref        *domain.Reference
	refs       []*domain.Reference
	total      int
	err        error
	lastNew    domain.NewReference
	lastID     string
	lastBody   string
	lastParams domain.PaginationParams
}

func (f *fakeReferenceService) ListCandidates(ctx context.Context, userID string) ([]domain.ReferenceCandidate, error) {
	return f.candidates, f.err
}

func (f *fakeReferenceService) Create(ctx context.Context, userID string, in domain.NewReference) (*domain.Reference, error) {
	f.lastNew = in
	return f.ref, f.err
}

func (f *fakeReferenceService) Edit(ctx context.Context, userID, referenceID string, sentiment domain.Sentiment, body string) (*domain.Reference, error) {
	f.lastID, f.lastBody = referenceID, body
	return f.ref, f.err
}

func (f *fakeReferenceService) Reply(ctx context.Context, userID, referenceID, reply string) (*domain.Reference, error) {
	f.lastID, f.lastBody = referenceID, reply
	return f.ref, f.err
}

func (f *fakeReferenceService) ListForUser(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Reference, int, error) {
	f.lastID, f.lastParams = userID, params
	return f.refs, f.total, f.err
}

type fakeOnboardingService struct {
	draft     *domain.OnboardingDraft
	err       error
	lastPatch domain.OnboardingDraftPatch
	cleared   bool
}

func (f *fakeOnboardingService) Get(ctx context.Context, userID string) (*domain.OnboardingDraft, error) {
	return f.draft, f.err
}

func (f *fakeOnboardingService) Merge(ctx context.Context, userID string, patch domain.OnboardingDraftPatch) (*domain.OnboardingDraft, error) {
	f.lastPatch = patch
	return f.draft, f.err
}

func (f *fakeOnboardingService) Clear(ctx context.Context, userID string) error {
	f.cleared = true
	return f.err
}
