package domain

import (
	"context"
	"time"
)

// SyncStatus is the lifecycle status of a connection sync.
type SyncStatus string

const (
	SyncPending   SyncStatus = "pending"
	SyncAccepted  SyncStatus = "accepted"
	SyncDeclined  SyncStatus = "declined"
	SyncCancelled SyncStatus = "cancelled"
	SyncCompleted SyncStatus = "completed"
)

// SyncType is what the two dancers meet up for.
type SyncType string

const (
	SyncTypeTraining      SyncType = "training"
	SyncTypeSocialDancing SyncType = "social_dancing"
	SyncTypeWorkshop      SyncType = "workshop"
	SyncTypeCollaboration SyncType = "collaboration"
)

// IsSyncType reports whether s names a known sync type.
func IsSyncType(s string) bool {
	switch SyncType(s) {
	case SyncTypeTraining, SyncTypeSocialDancing, SyncTypeWorkshop, SyncTypeCollaboration:
		return true
	}
	return false
}

// ConnectionSync is a proposed or completed meetup between two connected users.
// swagger:model ConnectionSync
type ConnectionSync struct {
	ID           string     `json:"id"`
	ConnectionID string     `json:"connection_id"`
	RequesterID  string     `json:"requester_id"`
	RecipientID  string     `json:"recipient_id"`
	SyncType     SyncType   `json:"sync_type"`
	Status       SyncStatus `json:"status"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	Note         string     `json:"note,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// SyncProposal is the input of propose_connection_sync.
type SyncProposal struct {
	ConnectionID string     `json:"connection_id"`
	SyncType     SyncType   `json:"sync_type"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	Note         string     `json:"note,omitempty"`
}

// SyncRepository reads connection syncs.
type SyncRepository interface {
	// ListCompletedSince returns completed syncs involving userID completed at or after since.
	ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]*ConnectionSync, error)
}

// SyncService defines sync proposal and completion.
type SyncService interface {
	Propose(ctx context.Context, userID string, p SyncProposal) (string, error)
	Complete(ctx context.Context, userID, syncID string) error
}
