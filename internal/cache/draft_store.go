package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"dancehub/internal/domain"
)

// DraftTTL is how long an untouched onboarding draft is kept.
const DraftTTL = 30 * 24 * time.Hour

// DraftKey returns the Redis key of userID's onboarding draft.
func DraftKey(userID string) string {
	return "onboarding:draft:" + userID
}

type redisDraftStore struct {
	client *redis.Client
}

// NewDraftStore returns a Redis-backed domain.OnboardingDraftStore, or an in-process one when client is nil.
func NewDraftStore(client *redis.Client) domain.OnboardingDraftStore {
	if client == nil {
		return &memoryDraftStore{drafts: make(map[string][]byte)}
	}
	return &redisDraftStore{client: client}
}

func (s *redisDraftStore) Load(ctx context.Context, userID string) (*domain.OnboardingDraft, error) {
	raw, err := s.client.Get(ctx, DraftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return decodeDraft(raw)
}

func (s *redisDraftStore) Save(ctx context.Context, userID string, draft *domain.OnboardingDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, DraftKey(userID), raw, DraftTTL).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *redisDraftStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, DraftKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// decodeDraft returns nil for payloads that are not valid drafts so the caller starts over.
func decodeDraft(raw []byte) (*domain.OnboardingDraft, error) {
	var d domain.OnboardingDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, nil
	}
	return &d, nil
}

type memoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func (s *memoryDraftStore) Load(_ context.Context, userID string) (*domain.OnboardingDraft, error) {
	s.mu.Lock()
	raw, ok := s.drafts[userID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decodeDraft(raw)
}

func (s *memoryDraftStore) Save(_ context.Context, userID string, draft *domain.OnboardingDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	s.mu.Lock()
	s.drafts[userID] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryDraftStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.drafts, userID)
	s.mu.Unlock()
	return nil
}
