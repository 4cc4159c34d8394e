package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"dancehub/internal/domain"
)

// Older deployments keep event membership in event_attendees.
var eventMemberTables = []string{"event_members", "event_attendees"}

type eventRepository struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB, logger *slog.Logger) domain.EventRepository {
	return &eventRepository{DB: db, Logger: logger}
}

func (r *eventRepository) ListEndedForMember(ctx context.Context, userID string, from, to time.Time) ([]*domain.EventWithMembers, error) {
	eventProjections := make([]Projection[*domain.Event], 0, len(eventMemberTables))
	for _, table := range eventMemberTables {
		eventProjections = append(eventProjections, Projection[*domain.Event]{
			Name: table,
			Query: `SELECT e.id, e.host_id, e.title, e.starts_at, e.ends_at
				FROM events e
				JOIN ` + table + ` m ON m.event_id = e.id
				WHERE m.user_id = $1 AND m.status <> 'left'
					AND coalesce(e.ends_at, e.starts_at) >= $2 AND coalesce(e.ends_at, e.starts_at) <= $3
				ORDER BY coalesce(e.ends_at, e.starts_at) DESC`,
			Scan: scanEndedEvent,
		})
	}
	events, err := queryProjections(ctx, r.DB, r.Logger, "events.ended_for_member", eventProjections, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	memberProjections := make([]Projection[*domain.EventMember], 0, len(eventMemberTables))
	for _, table := range eventMemberTables {
		memberProjections = append(memberProjections, Projection[*domain.EventMember]{
			Name:  table,
			Query: `SELECT event_id, user_id, status FROM ` + table + ` WHERE event_id = ANY($1)`,
			Scan:  scanEventMember,
		})
	}
	members, err := queryProjections(ctx, r.DB, r.Logger, "event_members.by_event", memberProjections, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	byEvent := make(map[string][]*domain.EventMember, len(events))
	for _, m := range members {
		byEvent[m.EventID] = append(byEvent[m.EventID], m)
	}
	out := make([]*domain.EventWithMembers, 0, len(events))
	for _, e := range events {
		out = append(out, &domain.EventWithMembers{Event: e, Members: withHost(e, byEvent[e.ID])})
	}
	return out, nil
}

// withHost adds the host as a member when the membership table has no host row.
func withHost(e *domain.Event, members []*domain.EventMember) []*domain.EventMember {
	if e.HostID == "" {
		return members
	}
	for _, m := range members {
		if m.UserID == e.HostID {
			return members
		}
	}
	return append(members, &domain.EventMember{EventID: e.ID, UserID: e.HostID, Status: domain.MemberHost})
}

func scanEndedEvent(rows *sql.Rows) (*domain.Event, error) {
	var e domain.Event
	var host sql.NullString
	var ends sql.NullTime
	if err := rows.Scan(&e.ID, &host, &e.Title, &e.StartsAt, &ends); err != nil {
		return nil, err
	}
	e.HostID = host.String
	e.EndsAt = nullTimePtr(ends)
	return &e, nil
}

func scanEventMember(rows *sql.Rows) (*domain.EventMember, error) {
	var m domain.EventMember
	var status string
	if err := rows.Scan(&m.EventID, &m.UserID, &status); err != nil {
		return nil, err
	}
	m.Status = domain.EventMemberStatus(status)
	return &m, nil
}
