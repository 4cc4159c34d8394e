package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"dancehub/internal/domain"
)

const testTimeout = 5 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type rpcCall struct {
	UserID string
	Proc   string
	Args   domain.Args
}

// fakeRPC implements domain.RPCCaller and domain.ServiceCaller. Results are
// JSON-encoded and decoded into dest the way the Postgres caller does.
type fakeRPC struct {
	mu      sync.Mutex
	calls   []rpcCall
	results map[string]any
	errs    map[string]error
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{results: make(map[string]any), errs: make(map[string]error)}
}

func (f *fakeRPC) Call(ctx context.Context, userID, proc string, args domain.Args, dest any) error {
	return f.do(userID, proc, args, dest)
}

func (f *fakeRPC) CallSet(ctx context.Context, userID, proc string, args domain.Args, dest any) error {
	return f.do(userID, proc, args, dest)
}

func (f *fakeRPC) CallAsService(ctx context.Context, proc string, args domain.Args, dest any) error {
	return f.do("", proc, args, dest)
}

func (f *fakeRPC) do(userID, proc string, args domain.Args, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rpcCall{UserID: userID, Proc: proc, Args: args})
	if err := f.errs[proc]; err != nil {
		return err
	}
	res, ok := f.results[proc]
	if !ok || dest == nil {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeRPC) procs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Proc)
	}
	return out
}

func (f *fakeRPC) last() rpcCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return rpcCall{}
	}
	return f.calls[len(f.calls)-1]
}

// fakeNotifier records which side effects were triggered.
type fakeNotifier struct {
	connections []domain.ConnectionRequest
	syncs       []string
	trips       []string
}

func (f *fakeNotifier) ConnectionRequested(ctx context.Context, actorID string, req domain.ConnectionRequest) {
	f.connections = append(f.connections, req)
}

func (f *fakeNotifier) SyncProposed(ctx context.Context, actorID, recipientID string, p domain.SyncProposal) {
	f.syncs = append(f.syncs, recipientID)
}

func (f *fakeNotifier) TripResponded(ctx context.Context, ownerID, requesterID, destination string, accepted bool) {
	f.trips = append(f.trips, requesterID)
}

type fakeConnectionRepo struct {
	between  []*domain.Connection
	accepted []*domain.Connection
	err      error
}

func (f *fakeConnectionRepo) ListBetween(ctx context.Context, userID, otherID string) ([]*domain.Connection, error) {
	return f.between, f.err
}

func (f *fakeConnectionRepo) ListAccepted(ctx context.Context, userID string) ([]*domain.Connection, error) {
	return f.accepted, f.err
}

type fakeSyncRepo struct {
	syncs []*domain.ConnectionSync
	err   error
	since time.Time
}

func (f *fakeSyncRepo) ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]*domain.ConnectionSync, error) {
	f.since = since
	return f.syncs, f.err
}

type fakeTripRepo struct {
	owned, joined []*domain.TripWithRequests
	err           error
}

func (f *fakeTripRepo) ListEndedOwned(ctx context.Context, userID string, from, to time.Time) ([]*domain.TripWithRequests, error) {
	return f.owned, f.err
}

func (f *fakeTripRepo) ListEndedJoined(ctx context.Context, userID string, from, to time.Time) ([]*domain.TripWithRequests, error) {
	return f.joined, f.err
}

type fakeMemberEventRepo struct {
	events []*domain.EventWithMembers
	err    error
}

func (f *fakeMemberEventRepo) ListEndedForMember(ctx context.Context, userID string, from, to time.Time) ([]*domain.EventWithMembers, error) {
	return f.events, f.err
}

// fakeReferenceRepo keeps references in memory.
type fakeReferenceRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Reference
	listErr error
}

func newFakeReferenceRepo(refs ...*domain.Reference) *fakeReferenceRepo {
	f := &fakeReferenceRepo{byID: make(map[string]*domain.Reference)}
	for _, r := range refs {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeReferenceRepo) ListAuthoredBy(ctx context.Context, authorID string) ([]*domain.Reference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Reference
	for _, r := range f.byID {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReferenceRepo) ListForRecipient(ctx context.Context, recipientID string, params domain.PaginationParams) ([]*domain.Reference, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Reference
	for _, r := range f.byID {
		if r.RecipientID == recipientID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeReferenceRepo) GetByID(ctx context.Context, id string) (*domain.Reference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeReferenceRepo) Create(ctx context.Context, ref *domain.Reference) (*domain.Reference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[ref.ID] = ref
	return ref, nil
}

func (f *fakeReferenceRepo) UpdateBody(ctx context.Context, id string, sentiment domain.Sentiment, body string) (*domain.Reference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.byID[id]
	r.Sentiment, r.Body = sentiment, body
	r.EditCount++
	return r, nil
}

func (f *fakeReferenceRepo) SetReply(ctx context.Context, id, reply string, at time.Time) (*domain.Reference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.byID[id]
	r.ReplyText, r.RepliedAt = reply, &at
	return r, nil
}

// fakeProfileRepo serves contact details by user id.
type fakeProfileRepo struct {
	contacts map[string]*domain.Profile
	list     []*domain.Profile
	err      error
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return f.GetContact(ctx, userID)
}

func (f *fakeProfileRepo) GetContact(ctx context.Context, userID string) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.contacts[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileRepo) List(ctx context.Context, excludeUserID string, params domain.PaginationParams) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, p := range f.list {
		if p.UserID != excludeUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	sent []string
	err  error
}

func (f *fakeEmailService) SendConnectionRequest(ctx context.Context, data *domain.ConnectionRequestEmailData) error {
	f.sent = append(f.sent, "connection_request:"+data.Email)
	return f.err
}

func (f *fakeEmailService) SendSyncProposal(ctx context.Context, data *domain.SyncProposalEmailData) error {
	f.sent = append(f.sent, "sync_proposal:"+data.Email)
	return f.err
}

func (f *fakeEmailService) SendTripResponse(ctx context.Context, data *domain.TripResponseEmailData) error {
	f.sent = append(f.sent, "trip_response:"+data.Email)
	return f.err
}

func ptrTime(t time.Time) *time.Time { return &t }

// recordingCandidateCache implements domain.CandidateCache and records invalidated users.
type recordingCandidateCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCandidateCache) Get(ctx context.Context, userID string) ([]domain.ReferenceCandidate, bool, error) {
	return nil, false, nil
}

func (c *recordingCandidateCache) NextToken(ctx context.Context, userID string) (int64, error) {
	return 1, nil
}

func (c *recordingCandidateCache) Store(ctx context.Context, userID string, token int64, candidates []domain.ReferenceCandidate) (bool, error) {
	return true, nil
}

func (c *recordingCandidateCache) Invalidate(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	return nil
}
