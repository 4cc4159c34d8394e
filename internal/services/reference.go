package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dancehub/internal/domain"
)

const (
	maxReferenceBody  = 2000
	maxReferenceReply = 1000
)

// ReferenceSources are the repositories the reference service reads from.
type ReferenceSources struct {
	References  domain.ReferenceRepository
	Connections domain.ConnectionRepository
	Syncs       domain.SyncRepository
	Trips       domain.TripRepository
	Events      domain.EventRepository
}

type referenceService struct {
	src            ReferenceSources
	cache          domain.CandidateCache
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewReferenceService returns a ReferenceService deriving candidates from src and caching them in cache.
func NewReferenceService(src ReferenceSources, cache domain.CandidateCache, logger *slog.Logger, timeout time.Duration) domain.ReferenceService {
	return &referenceService{
		src:            src,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *referenceService) ListCandidates(ctx context.Context, userID string) ([]domain.ReferenceCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cached, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "reading candidate cache", "user_id", userID, "error", err)
	} else if ok {
		return cached, nil
	}

	token, err := s.cache.NextToken(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "issuing candidate load token", "user_id", userID, "error", err)
		token = 0
	}

	candidates, err := s.derive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if token > 0 {
		s.store(ctx, userID, token, candidates)
	}
	return candidates, nil
}

// derive computes userID's candidates from the sources, bypassing the cache.
func (s *referenceService) derive(ctx context.Context, userID string) ([]domain.ReferenceCandidate, error) {
	now := s.now()
	in, err := s.loadInputs(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return DeriveReferenceCandidates(in, now), nil
}

func (s *referenceService) store(ctx context.Context, userID string, token int64, candidates []domain.ReferenceCandidate) {
	stored, err := s.cache.Store(ctx, userID, token, candidates)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "storing reference candidates", "user_id", userID, "error", err)
	case !stored:
		s.logger.DebugContext(ctx, "discarded stale reference candidates", "user_id", userID, "token", token)
	}
}

// loadInputs runs the independent sub-queries concurrently. The first hard failure cancels the
// rest; schema drift on an optional source leaves that source empty.
func (s *referenceService) loadInputs(ctx context.Context, userID string, now time.Time) (ReferenceInputs, error) {
	in := ReferenceInputs{UserID: userID}
	since := now.Add(-domain.ReferenceWindow)
	tripsFrom := calendarDay(now).AddDate(0, 0, -15)

	loadCtx, abort := context.WithCancel(ctx)
	defer abort()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	run := func(source string, optional bool, load func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := load(loadCtx)
			if err == nil {
				return
			}
			if optional && errors.Is(err, domain.ErrSchemaDrift) {
				s.logger.WarnContext(ctx, "reference source unavailable on this schema", "source", source, "error", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if firstErr == nil {
				firstErr = fmt.Errorf("load %s: %w", source, err)
				abort()
			}
		}()
	}

	run("connections", false, func(ctx context.Context) (err error) {
		in.Connections, err = s.src.Connections.ListAccepted(ctx, userID)
		return err
	})
	run("syncs", true, func(ctx context.Context) (err error) {
		in.Syncs, err = s.src.Syncs.ListCompletedSince(ctx, userID, since)
		return err
	})
	run("owned trips", true, func(ctx context.Context) (err error) {
		in.OwnedTrips, err = s.src.Trips.ListEndedOwned(ctx, userID, tripsFrom, now)
		return err
	})
	run("joined trips", true, func(ctx context.Context) (err error) {
		in.JoinedTrips, err = s.src.Trips.ListEndedJoined(ctx, userID, tripsFrom, now)
		return err
	})
	run("events", true, func(ctx context.Context) (err error) {
		in.Events, err = s.src.Events.ListEndedForMember(ctx, userID, since, now)
		return err
	})
	run("authored references", true, func(ctx context.Context) (err error) {
		in.Authored, err = s.src.References.ListAuthoredBy(ctx, userID)
		return err
	})
	wg.Wait()

	if firstErr != nil {
		return ReferenceInputs{}, firstErr
	}
	return in, nil
}

func (s *referenceService) Create(ctx context.Context, userID string, in domain.NewReference) (*domain.Reference, error) {
	body, err := validateReferenceBody(in.Sentiment, in.Body)
	if err != nil {
		return nil, err
	}
	if in.RecipientID == "" || in.EntityID == "" {
		return nil, fmt.Errorf("%w: recipient_id and entity_id are required", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Eligibility is always derived from the sources; the cache only serves ListCandidates.
	candidates, err := s.derive(ctx, userID)
	if err != nil {
		return nil, err
	}
	matched := false
	for _, c := range candidates {
		if c.Type == in.EntityType && c.EntityID == in.EntityID && c.RecipientID == in.RecipientID {
			matched = true
			break
		}
	}
	if !matched {
		return nil, domain.ErrNotEligible
	}

	ref, err := s.src.References.Create(ctx, &domain.Reference{
		ID:          uuid.NewString(),
		AuthorID:    userID,
		RecipientID: in.RecipientID,
		Sentiment:   in.Sentiment,
		Body:        body,
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create reference: %w", err)
	}
	invalidateCandidates(ctx, s.cache, s.logger, userID, in.RecipientID)
	return ref, nil
}

func (s *referenceService) Edit(ctx context.Context, userID, referenceID string, sentiment domain.Sentiment, body string) (*domain.Reference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	body, err := validateReferenceBody(sentiment, body)
	if err != nil {
		return nil, err
	}
	ref, err := s.src.References.GetByID(ctx, referenceID)
	if err != nil {
		return nil, fmt.Errorf("get reference: %w", err)
	}
	switch now := s.now(); {
	case ref.AuthorID != userID:
		return nil, fmt.Errorf("%w: only the author can edit a reference", domain.ErrForbidden)
	case ref.EditCount > 0:
		return nil, fmt.Errorf("%w: reference was already edited", domain.ErrConflict)
	case !CanEditReference(ref, userID, now):
		return nil, domain.ErrWindowExpired
	}

	updated, err := s.src.References.UpdateBody(ctx, referenceID, sentiment, body)
	if err != nil {
		return nil, fmt.Errorf("update reference: %w", err)
	}
	invalidateCandidates(ctx, s.cache, s.logger, userID)
	return updated, nil
}

func (s *referenceService) Reply(ctx context.Context, userID, referenceID, reply string) (*domain.Reference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("%w: reply is required", domain.ErrInvalidInput)
	}
	if len(reply) > maxReferenceReply {
		return nil, fmt.Errorf("%w: reply is too long", domain.ErrInvalidInput)
	}
	ref, err := s.src.References.GetByID(ctx, referenceID)
	if err != nil {
		return nil, fmt.Errorf("get reference: %w", err)
	}
	now := s.now()
	switch {
	case ref.RecipientID != userID:
		return nil, fmt.Errorf("%w: only the recipient can reply", domain.ErrForbidden)
	case ref.ReplyText != "" || ref.RepliedAt != nil:
		return nil, fmt.Errorf("%w: reference already has a reply", domain.ErrConflict)
	case !CanReplyReference(ref, userID, now):
		return nil, domain.ErrWindowExpired
	}

	updated, err := s.src.References.SetReply(ctx, referenceID, reply, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("reply to reference: %w", err)
	}
	invalidateCandidates(ctx, s.cache, s.logger, userID)
	return updated, nil
}

func (s *referenceService) ListForUser(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Reference, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	refs, total, err := s.src.References.ListForRecipient(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list references: %w", err)
	}
	return refs, total, nil
}

// invalidateCandidates drops the cached candidates of every listed user. A nil cache is a no-op.
func invalidateCandidates(ctx context.Context, c domain.CandidateCache, logger *slog.Logger, userIDs ...string) {
	if c == nil {
		return
	}
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if err := c.Invalidate(ctx, id); err != nil {
			logger.WarnContext(ctx, "invalidating reference candidates", "user_id", id, "error", err)
		}
	}
}

// participants is the optional result of procedures that change who may reference whom.
// Procedures returning nothing leave every field empty.
type participants struct {
	RequesterID string `json:"requester_id"`
	TargetID    string `json:"target_id"`
	RecipientID string `json:"recipient_id"`
}

func validateReferenceBody(sentiment domain.Sentiment, body string) (string, error) {
	if !domain.IsSentiment(string(sentiment)) {
		return "", fmt.Errorf("%w: unknown sentiment %q", domain.ErrInvalidInput, sentiment)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("%w: body is required", domain.ErrInvalidInput)
	}
	if len(body) > maxReferenceBody {
		return "", fmt.Errorf("%w: body is too long", domain.ErrInvalidInput)
	}
	return body, nil
}
