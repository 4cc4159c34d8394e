package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dancehub/internal/domain"
)

const (
	maxEventTitleLength = 140
	maxReportDetails    = 2000
)

type eventService struct {
	rpc            domain.RPCCaller
	contextTimeout time.Duration
}

// NewEventService returns an EventService forwarding to the event procedures.
func NewEventService(rpc domain.RPCCaller, timeout time.Duration) domain.EventService {
	return &eventService{rpc: rpc, contextTimeout: timeout}
}

// ValidateEventInput checks the fields create_event and update_event require.
func ValidateEventInput(in domain.EventInput) error {
	var problems []string
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		problems = append(problems, "title is required")
	case len(title) > maxEventTitleLength:
		problems = append(problems, "title is too long")
	}
	if strings.TrimSpace(in.EventType) == "" {
		problems = append(problems, "event_type is required")
	}
	if in.Visibility != domain.VisibilityPublic && in.Visibility != domain.VisibilityPrivate {
		problems = append(problems, "visibility must be public or private")
	}
	switch in.Status {
	case domain.EventDraft, domain.EventPublished, "":
	default:
		problems = append(problems, "status must be draft or published")
	}
	if in.StartsAt.IsZero() {
		problems = append(problems, "starts_at is required")
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		problems = append(problems, "ends_at must not be before starts_at")
	}
	if in.Capacity != nil && *in.Capacity < 1 {
		problems = append(problems, "capacity must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func eventArgs(in domain.EventInput) domain.Args {
	status := in.Status
	if status == "" {
		status = domain.EventDraft
	}
	return domain.Args{
		"p_title":       strings.TrimSpace(in.Title),
		"p_description": in.Description,
		"p_event_type":  in.EventType,
		"p_styles":      in.Styles,
		"p_city":        in.City,
		"p_country":     in.Country,
		"p_venue":       in.Venue,
		"p_visibility":  string(in.Visibility),
		"p_status":      string(status),
		"p_starts_at":   in.StartsAt,
		"p_ends_at":     in.EndsAt,
		"p_capacity":    in.Capacity,
		"p_cover_path":  in.CoverPath,
	}
}

func (s *eventService) Create(ctx context.Context, userID string, in domain.EventInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := ValidateEventInput(in); err != nil {
		return "", err
	}
	if in.Styles == nil {
		in.Styles = []string{}
	}
	var id string
	if err := s.rpc.Call(ctx, userID, "create_event", eventArgs(in), &id); err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (s *eventService) Update(ctx context.Context, userID, eventID string, in domain.EventInput) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := ValidateEventInput(in); err != nil {
		return err
	}
	if in.Styles == nil {
		in.Styles = []string{}
	}
	args := eventArgs(in)
	args["p_event_id"] = eventID
	if err := s.rpc.Call(ctx, userID, "update_event", args, nil); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (s *eventService) ListPublic(ctx context.Context, userID string, limit, offset int) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var events []*domain.Event
	err := s.rpc.CallSet(ctx, userID, "list_public_events_lite", domain.Args{
		"p_limit":  limit,
		"p_offset": offset,
	}, &events)
	if err != nil {
		return nil, fmt.Errorf("list public events: %w", err)
	}
	return events, nil
}

func (s *eventService) Report(ctx context.Context, userID, eventID, reason, details string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("%w: reason is required", domain.ErrInvalidInput)
	}
	if len(details) > maxReportDetails {
		return "", fmt.Errorf("%w: details are too long", domain.ErrInvalidInput)
	}
	var id string
	err := s.rpc.Call(ctx, userID, "create_event_report", domain.Args{
		"p_event_id": eventID,
		"p_reason":   reason,
		"p_details":  details,
	}, &id)
	if err != nil {
		return "", fmt.Errorf("create event report: %w", err)
	}
	return id, nil
}

func (s *eventService) SubmitFeedback(ctx context.Context, userID, eventID string, fb domain.EventFeedback) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if fb.Rating < 1 || fb.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	err := s.rpc.Call(ctx, userID, "submit_event_feedback", domain.Args{
		"p_event_id": eventID,
		"p_rating":   fb.Rating,
		"p_comment":  strings.TrimSpace(fb.Comment),
	}, nil)
	if err != nil {
		return fmt.Errorf("submit event feedback: %w", err)
	}
	return nil
}

func (s *eventService) CanSubmitFeedback(ctx context.Context, userID, eventID string) (domain.FeedbackEligibility, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var out domain.FeedbackEligibility
	if err := s.rpc.Call(ctx, userID, "can_submit_event_feedback", domain.Args{"p_event_id": eventID}, &out); err != nil {
		return domain.FeedbackEligibility{}, fmt.Errorf("can submit event feedback: %w", err)
	}
	return out, nil
}

func (s *eventService) FeedbackSummary(ctx context.Context, userID, eventID string) (domain.FeedbackSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var out domain.FeedbackSummary
	if err := s.rpc.Call(ctx, userID, "get_event_feedback_summary", domain.Args{"p_event_id": eventID}, &out); err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("get event feedback summary: %w", err)
	}
	if out.Distribution == nil {
		out.Distribution = map[int]int{}
	}
	return out, nil
}
