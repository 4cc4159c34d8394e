package domain

import (
	"context"
	"time"
)

// ReferenceWindow bounds eligibility, editing and replying for references.
const ReferenceWindow = 15 * 24 * time.Hour

// Sentiment is the tone of a reference.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// IsSentiment reports whether s names a known sentiment.
func IsSentiment(s string) bool {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// EntityType is the kind of interaction a reference is tied to.
type EntityType string

const (
	EntitySync       EntityType = "sync"
	EntityTrip       EntityType = "trip"
	EntityEvent      EntityType = "event"
	EntityConnection EntityType = "connection"
)

// Rank orders candidate types: sync, trip, event.
func (t EntityType) Rank() int {
	switch t {
	case EntitySync:
		return 0
	case EntityTrip:
		return 1
	case EntityEvent:
		return 2
	}
	return 3
}

// Reference is authored peer feedback.
// swagger:model Reference
type Reference struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	RecipientID string     `json:"recipient_id"`
	Sentiment   Sentiment  `json:"sentiment"`
	Body        string     `json:"body"`
	EntityType  EntityType `json:"entity_type,omitempty"`
	EntityID    string     `json:"entity_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ReplyText   string     `json:"reply_text,omitempty"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
	EditCount   int        `json:"edit_count"`
}

// EntityKey returns "type:id", or "" for untagged legacy references.
func (r *Reference) EntityKey() string {
	if r.EntityType == "" || r.EntityID == "" {
		return ""
	}
	return string(r.EntityType) + ":" + r.EntityID
}

// ReferenceCandidate is an interaction the user may still leave a reference for.
// swagger:model ReferenceCandidate
type ReferenceCandidate struct {
	Type         EntityType `json:"type"`
	EntityID     string     `json:"entity_id"`
	RecipientID  string     `json:"recipient_id"`
	ConnectionID string     `json:"connection_id,omitempty"`
	EndedAt      time.Time  `json:"ended_at"`
	Label        string     `json:"label,omitempty"`
}

// Key returns the dedup key "type:entityId:otherUserId".
func (c ReferenceCandidate) Key() string {
	return string(c.Type) + ":" + c.EntityID + ":" + c.RecipientID
}

// NewReference is the input for authoring a reference.
type NewReference struct {
	RecipientID string     `json:"recipient_id"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	Sentiment   Sentiment  `json:"sentiment"`
	Body        string     `json:"body"`
}

// ReferenceRepository stores references.
type ReferenceRepository interface {
	ListAuthoredBy(ctx context.Context, authorID string) ([]*Reference, error)
	ListForRecipient(ctx context.Context, recipientID string, params PaginationParams) ([]*Reference, int, error)
	GetByID(ctx context.Context, id string) (*Reference, error)
	// Create inserts ref, returning the stored row when an identical reference already exists.
	Create(ctx context.Context, ref *Reference) (*Reference, error)
	UpdateBody(ctx context.Context, id string, sentiment Sentiment, body string) (*Reference, error)
	SetReply(ctx context.Context, id, reply string, at time.Time) (*Reference, error)
}

// CandidateCache stores derived reference candidates per user.
// Writes are guarded by a per-user load token: a result derived under an older
// token than the latest issued one is discarded.
type CandidateCache interface {
	Get(ctx context.Context, userID string) ([]ReferenceCandidate, bool, error)
	// NextToken issues a new load token for userID, strictly greater than every earlier one.
	NextToken(ctx context.Context, userID string) (int64, error)
	// Store saves candidates if token is still the latest for userID and reports whether it did.
	Store(ctx context.Context, userID string, token int64, candidates []ReferenceCandidate) (bool, error)
	// Invalidate drops the cached result and supersedes in-flight loads.
	Invalidate(ctx context.Context, userID string) error
}

// ReferenceService defines reference candidate derivation and the reference lifecycle.
type ReferenceService interface {
	ListCandidates(ctx context.Context, userID string) ([]ReferenceCandidate, error)
	Create(ctx context.Context, userID string, in NewReference) (*Reference, error)
	Edit(ctx context.Context, userID, referenceID string, sentiment Sentiment, body string) (*Reference, error)
	Reply(ctx context.Context, userID, referenceID, reply string) (*Reference, error)
	ListForUser(ctx context.Context, userID string, params PaginationParams) ([]*Reference, int, error)
}
