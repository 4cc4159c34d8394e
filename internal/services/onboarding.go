package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dancehub/internal/domain"
)

const maxDraftListItems = 32

type onboardingService struct {
	store          domain.OnboardingDraftStore
	now            func() time.Time
	contextTimeout time.Duration
}

// NewOnboardingService returns the single owner of onboarding drafts.
func NewOnboardingService(store domain.OnboardingDraftStore, timeout time.Duration) domain.OnboardingService {
	return &onboardingService{store: store, now: time.Now, contextTimeout: timeout}
}

// load returns the stored draft, or a fresh one when nothing usable is stored.
func (s *onboardingService) load(ctx context.Context, userID string) (*domain.OnboardingDraft, error) {
	d, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load onboarding draft: %w", err)
	}
	if d == nil || d.SchemaVersion != domain.OnboardingDraftVersion {
		return domain.NewOnboardingDraft(), nil
	}
	normalizeDraft(d)
	return d, nil
}

func (s *onboardingService) Get(ctx context.Context, userID string) (*domain.OnboardingDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.load(ctx, userID)
}

func (s *onboardingService) Merge(ctx context.Context, userID string, patch domain.OnboardingDraftPatch) (*domain.OnboardingDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	d, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := applyDraftPatch(d, patch); err != nil {
		return nil, err
	}
	d.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, userID, d); err != nil {
		return nil, fmt.Errorf("save onboarding draft: %w", err)
	}
	return d, nil
}

func (s *onboardingService) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear onboarding draft: %w", err)
	}
	return nil
}

// applyDraftPatch merges patch into d. Interests and levels are kept only for selected roles and styles.
func applyDraftPatch(d *domain.OnboardingDraft, patch domain.OnboardingDraftPatch) error {
	if patch.Roles != nil {
		roles, err := cleanList("roles", *patch.Roles)
		if err != nil {
			return err
		}
		d.Roles = roles
	}
	if patch.Styles != nil {
		styles, err := cleanList("styles", *patch.Styles)
		if err != nil {
			return err
		}
		d.Styles = styles
	}
	for role, interests := range patch.InterestsByRole {
		cleaned, err := cleanList("interests", interests)
		if err != nil {
			return err
		}
		d.InterestsByRole[strings.TrimSpace(role)] = cleaned
	}
	for style, level := range patch.StyleLevels {
		style = strings.TrimSpace(style)
		if level = strings.TrimSpace(level); level == "" {
			delete(d.StyleLevels, style)
			continue
		}
		d.StyleLevels[style] = level
	}
	if patch.AvatarPath != nil {
		d.AvatarPath = strings.TrimSpace(*patch.AvatarPath)
	}
	if patch.AvatarStatus != nil {
		d.AvatarStatus = strings.TrimSpace(*patch.AvatarStatus)
	}

	roles := toSet(d.Roles)
	for role := range d.InterestsByRole {
		if !roles[role] {
			delete(d.InterestsByRole, role)
		}
	}
	styles := toSet(d.Styles)
	for style := range d.StyleLevels {
		if !styles[style] {
			delete(d.StyleLevels, style)
		}
	}
	return nil
}

func normalizeDraft(d *domain.OnboardingDraft) {
	if d.Roles == nil {
		d.Roles = []string{}
	}
	if d.Styles == nil {
		d.Styles = []string{}
	}
	if d.InterestsByRole == nil {
		d.InterestsByRole = map[string][]string{}
	}
	if d.StyleLevels == nil {
		d.StyleLevels = map[string]string{}
	}
}

// cleanList trims, drops empties and de-duplicates while keeping order.
func cleanList(field string, in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) > maxDraftListItems {
		return nil, fmt.Errorf("%w: too many %s", domain.ErrInvalidInput, field)
	}
	return out, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
