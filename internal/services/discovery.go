package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dancehub/internal/domain"
	"dancehub/internal/filter"
)

// DiscoveryService lists events and profiles narrowed by the viewer's facets.
type DiscoveryService interface {
	Events(ctx context.Context, userID string, facets filter.EventFacets, params domain.PaginationParams) ([]*domain.Event, error)
	Profiles(ctx context.Context, userID string, facets filter.ProfileFacets, params domain.PaginationParams) ([]*domain.Profile, error)
}

type discoveryService struct {
	events         domain.EventService
	profiles       domain.ProfileRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewDiscoveryService returns a DiscoveryService reading events through events and profiles through profiles.
func NewDiscoveryService(events domain.EventService, profiles domain.ProfileRepository, timeout time.Duration) DiscoveryService {
	return &discoveryService{events: events, profiles: profiles, contextTimeout: timeout, now: time.Now}
}

func (s *discoveryService) Events(ctx context.Context, userID string, facets filter.EventFacets, params domain.PaginationParams) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if facets.MyLocation {
		loc, err := s.viewerLocation(ctx, userID)
		if err != nil {
			return nil, err
		}
		facets.Viewer = loc
	}
	events, err := s.events.ListPublic(ctx, userID, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	return filter.Events(events, facets, s.now()), nil
}

func (s *discoveryService) Profiles(ctx context.Context, userID string, facets filter.ProfileFacets, params domain.PaginationParams) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if facets.MyLocation {
		loc, err := s.viewerLocation(ctx, userID)
		if err != nil {
			return nil, err
		}
		facets.Viewer = loc
	}
	profiles, err := s.profiles.List(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return filter.Profiles(profiles, facets), nil
}

// viewerLocation returns the viewer's home location. A viewer without a profile has none,
// which turns the location facet off.
func (s *discoveryService) viewerLocation(ctx context.Context, userID string) (filter.Location, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return filter.Location{}, nil
		}
		return filter.Location{}, fmt.Errorf("load viewer profile: %w", err)
	}
	return filter.Location{City: p.City, Country: p.Country}, nil
}
