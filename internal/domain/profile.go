package domain

import "context"

// DanceSkill is a style with a self-reported level.
type DanceSkill struct {
	Style string `json:"style"`
	Level string `json:"level,omitempty"`
}

// Profile is the read-model projection of a dancer.
// swagger:model Profile
type Profile struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	City        string       `json:"city"`
	Country     string       `json:"country"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	Roles       []string     `json:"roles"`
	Languages   []string     `json:"languages"`
	DanceSkills []DanceSkill `json:"dance_skills"`
	Verified    bool         `json:"verified"`
	Email       string       `json:"-"`
}

// Styles returns the style names of the profile's dance skills.
func (p *Profile) Styles() []string {
	out := make([]string, 0, len(p.DanceSkills))
	for _, s := range p.DanceSkills {
		out = append(out, s.Style)
	}
	return out
}

// ProfileRepository reads profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// GetContact returns the display name and email of userID.
	GetContact(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context, excludeUserID string, params PaginationParams) ([]*Profile, error)
}
