package domain

import (
	"context"
	"time"
)

// OnboardingDraftVersion is the schema version written by this service.
const OnboardingDraftVersion = 2

// OnboardingDraft is the in-progress onboarding form of one user.
// swagger:model OnboardingDraft
type OnboardingDraft struct {
	SchemaVersion   int                 `json:"schema_version"`
	Roles           []string            `json:"roles"`
	InterestsByRole map[string][]string `json:"interests_by_role"`
	Styles          []string            `json:"styles"`
	StyleLevels     map[string]string   `json:"style_levels"`
	AvatarPath      string              `json:"avatar_path,omitempty"`
	AvatarStatus    string              `json:"avatar_status,omitempty"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// NewOnboardingDraft returns an empty draft at the current schema version.
func NewOnboardingDraft() *OnboardingDraft {
	return &OnboardingDraft{
		SchemaVersion:   OnboardingDraftVersion,
		Roles:           []string{},
		InterestsByRole: map[string][]string{},
		Styles:          []string{},
		StyleLevels:     map[string]string{},
	}
}

// OnboardingDraftPatch is a partial update; nil fields are left unchanged.
type OnboardingDraftPatch struct {
	Roles           *[]string           `json:"roles,omitempty"`
	InterestsByRole map[string][]string `json:"interests_by_role,omitempty"`
	Styles          *[]string           `json:"styles,omitempty"`
	StyleLevels     map[string]string   `json:"style_levels,omitempty"`
	AvatarPath      *string             `json:"avatar_path,omitempty"`
	AvatarStatus    *string             `json:"avatar_status,omitempty"`
}

// OnboardingDraftStore persists drafts outside the database.
type OnboardingDraftStore interface {
	// Load returns the stored draft, or nil when none exists.
	Load(ctx context.Context, userID string) (*OnboardingDraft, error)
	Save(ctx context.Context, userID string, draft *OnboardingDraft) error
	Delete(ctx context.Context, userID string) error
}

// OnboardingService owns reading, merging and writing drafts.
type OnboardingService interface {
	Get(ctx context.Context, userID string) (*OnboardingDraft, error)
	Merge(ctx context.Context, userID string, patch OnboardingDraftPatch) (*OnboardingDraft, error)
	Clear(ctx context.Context, userID string) error
}
