package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"dancehub/internal/domain"
)

// CandidateTTL bounds how stale a cached candidate list can get without a write.
const CandidateTTL = 10 * time.Minute

func candidatesKey(userID string) string { return "refcand:list:" + userID }
func tokenKey(userID string) string      { return "refcand:token:" + userID }

// storeIfLatest writes ARGV[2] to KEYS[1] only when KEYS[2] still holds ARGV[1].
var storeIfLatest = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

type redisCandidateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCandidateCache returns a Redis-backed domain.CandidateCache, or an in-process one when client is nil.
func NewCandidateCache(client *redis.Client) domain.CandidateCache {
	if client == nil {
		return &memoryCandidateCache{entries: make(map[string]*memoryEntry)}
	}
	return &redisCandidateCache{client: client, ttl: CandidateTTL}
}

func (c *redisCandidateCache) Get(ctx context.Context, userID string) ([]domain.ReferenceCandidate, bool, error) {
	raw, err := c.client.Get(ctx, candidatesKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get candidates: %w", err)
	}
	var out []domain.ReferenceCandidate
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, nil
	}
	return out, true, nil
}

func (c *redisCandidateCache) NextToken(ctx context.Context, userID string) (int64, error) {
	n, err := c.client.Incr(ctx, tokenKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("next load token: %w", err)
	}
	return n, nil
}

func (c *redisCandidateCache) Store(ctx context.Context, userID string, token int64, candidates []domain.ReferenceCandidate) (bool, error) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return false, fmt.Errorf("encode candidates: %w", err)
	}
	res, err := storeIfLatest.Run(ctx, c.client,
		[]string{candidatesKey(userID), tokenKey(userID)},
		strconv.FormatInt(token, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("store candidates: %w", err)
	}
	return res == 1, nil
}

func (c *redisCandidateCache) Invalidate(ctx context.Context, userID string) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, candidatesKey(userID))
		p.Incr(ctx, tokenKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate candidates: %w", err)
	}
	return nil
}

type memoryEntry struct {
	token      int64
	candidates []domain.ReferenceCandidate
	cached     bool
	storedAt   time.Time
}

type memoryCandidateCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func (c *memoryCandidateCache) entry(userID string) *memoryEntry {
	e, ok := c.entries[userID]
	if !ok {
		e = &memoryEntry{}
		c.entries[userID] = e
	}
	return e
}

func (c *memoryCandidateCache) Get(_ context.Context, userID string) ([]domain.ReferenceCandidate, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok || !e.cached || time.Since(e.storedAt) > CandidateTTL {
		return nil, false, nil
	}
	return append([]domain.ReferenceCandidate(nil), e.candidates...), true, nil
}

func (c *memoryCandidateCache) NextToken(_ context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(userID)
	e.token++
	return e.token, nil
}

func (c *memoryCandidateCache) Store(_ context.Context, userID string, token int64, candidates []domain.ReferenceCandidate) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(userID)
	if e.token != token {
		return false, nil
	}
	e.candidates = append([]domain.ReferenceCandidate(nil), candidates...)
	e.cached = true
	e.storedAt = time.Now()
	return true, nil
}

func (c *memoryCandidateCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(userID)
	e.token++
	e.cached = false
	e.candidates = nil
	return nil
}
