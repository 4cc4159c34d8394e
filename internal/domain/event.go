package domain

import (
	"context"
	"time"
)

// EventVisibility controls who can discover an event.
type EventVisibility string

const (
	VisibilityPublic  EventVisibility = "public"
	VisibilityPrivate EventVisibility = "private"
)

// EventStatus is the publication status of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
)

// CoverStatus is the moderation state of an event's cover image.
type CoverStatus string

const (
	CoverPending  CoverStatus = "pending"
	CoverApproved CoverStatus = "approved"
	CoverRejected CoverStatus = "rejected"
)

// Event is the list projection of an event as returned by list_public_events_lite.
// swagger:model Event
type Event struct {
	ID                      string          `json:"id"`
	HostID                  string          `json:"host_id"`
	HostName                string          `json:"host_name"`
	Title                   string          `json:"title"`
	Type                    string          `json:"event_type"`
	Styles                  []string        `json:"styles"`
	City                    string          `json:"city"`
	Country                 string          `json:"country"`
	Venue                   string          `json:"venue"`
	Visibility              EventVisibility `json:"visibility"`
	Status                  EventStatus     `json:"status"`
	CoverStatus             CoverStatus     `json:"cover_status"`
	StartsAt                time.Time       `json:"starts_at"`
	EndsAt                  *time.Time      `json:"ends_at,omitempty"`
	ConnectionAttendeeCount int             `json:"connection_attendee_count"`
}

// EffectiveEnd returns EndsAt, or StartsAt when the event has no end.
func (e *Event) EffectiveEnd() time.Time {
	if e.EndsAt != nil {
		return *e.EndsAt
	}
	return e.StartsAt
}

// EventMemberStatus is a member's participation in an event.
type EventMemberStatus string

const (
	MemberHost     EventMemberStatus = "host"
	MemberGoing    EventMemberStatus = "going"
	MemberWaitlist EventMemberStatus = "waitlist"
	MemberLeft     EventMemberStatus = "left"
)

// Rank orders member roles for picking a reference counterpart: host, then going, then waitlist.
func (s EventMemberStatus) Rank() int {
	switch s {
	case MemberHost:
		return 0
	case MemberGoing:
		return 1
	case MemberWaitlist:
		return 2
	}
	return 3
}

// EventMember is one user's membership in an event.
type EventMember struct {
	EventID string            `json:"event_id"`
	UserID  string            `json:"user_id"`
	Status  EventMemberStatus `json:"status"`
}

// EventWithMembers bundles an ended event with all of its members.
type EventWithMembers struct {
	Event   *Event
	Members []*EventMember
}

// EventInput is the payload of create_event and update_event.
// swagger:model EventInput
type EventInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	EventType   string          `json:"event_type"`
	Styles      []string        `json:"styles,omitempty"`
	City        string          `json:"city,omitempty"`
	Country     string          `json:"country,omitempty"`
	Venue       string          `json:"venue,omitempty"`
	Visibility  EventVisibility `json:"visibility"`
	Status      EventStatus     `json:"status"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at,omitempty"`
	Capacity    *int            `json:"capacity,omitempty"`
	CoverPath   string          `json:"cover_path,omitempty"`
}

// EventFeedback is the payload of submit_event_feedback.
type EventFeedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// FeedbackEligibility is the result of can_submit_event_feedback.
// swagger:model FeedbackEligibility
type FeedbackEligibility struct {
	CanSubmit bool   `json:"can_submit"`
	Reason    string `json:"reason,omitempty"`
}

// FeedbackSummary is the result of get_event_feedback_summary.
// swagger:model FeedbackSummary
type FeedbackSummary struct {
	Count         int         `json:"count"`
	AverageRating float64     `json:"average_rating"`
	Distribution  map[int]int `json:"distribution"`
}

// EventRepository reads events and their members.
type EventRepository interface {
	// ListEndedForMember returns events userID is a non-left member of whose end falls within [from, to], with every member.
	ListEndedForMember(ctx context.Context, userID string, from, to time.Time) ([]*EventWithMembers, error)
}

// EventService defines event authoring, listing, reporting and feedback.
type EventService interface {
	Create(ctx context.Context, userID string, in EventInput) (string, error)
	Update(ctx context.Context, userID, eventID string, in EventInput) error
	ListPublic(ctx context.Context, userID string, limit, offset int) ([]*Event, error)
	Report(ctx context.Context, userID, eventID, reason, details string) (string, error)
	SubmitFeedback(ctx context.Context, userID, eventID string, fb EventFeedback) error
	CanSubmitFeedback(ctx context.Context, userID, eventID string) (FeedbackEligibility, error)
	FeedbackSummary(ctx context.Context, userID, eventID string) (FeedbackSummary, error)
}
