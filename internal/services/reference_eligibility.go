package services

import (
	"sort"
	"strings"
	"time"

	"dancehub/internal/domain"
)

// ReferenceInputs is everything the candidate derivation reads for one user.
type ReferenceInputs struct {
	UserID      string
	Connections []*domain.Connection
	Syncs       []*domain.ConnectionSync
	OwnedTrips  []*domain.TripWithRequests
	JoinedTrips []*domain.TripWithRequests
	Events      []*domain.EventWithMembers
	Authored    []*domain.Reference
}

// DeriveReferenceCandidates returns the interactions userID can still leave a reference for:
// completed syncs, ended trips and ended events from the last 15 days whose counterpart is an
// accepted connection, minus entities the user already wrote a reference for.
func DeriveReferenceCandidates(in ReferenceInputs, now time.Time) []domain.ReferenceCandidate {
	connected := make(map[string]string, len(in.Connections))
	for _, c := range in.Connections {
		if c == nil || c.Status != domain.ConnectionAccepted || !c.Involves(in.UserID) {
			continue
		}
		other := c.OtherUser(in.UserID)
		if other == in.UserID {
			continue
		}
		if _, ok := connected[other]; !ok {
			connected[other] = c.ID
		}
	}

	authored := make(map[string]bool, len(in.Authored))
	for _, r := range in.Authored {
		if r == nil || r.AuthorID != in.UserID {
			continue
		}
		if key := r.EntityKey(); key != "" {
			authored[key] = true
		}
	}

	d := &derivation{
		userID:    in.UserID,
		connected: connected,
		authored:  authored,
		seen:      make(map[string]bool),
	}

	since := now.Add(-domain.ReferenceWindow)
	for _, s := range in.Syncs {
		if s == nil || s.Status != domain.SyncCompleted || s.CompletedAt == nil {
			continue
		}
		if !within(*s.CompletedAt, since, now) {
			continue
		}
		var other string
		switch in.UserID {
		case s.RequesterID:
			other = s.RecipientID
		case s.RecipientID:
			other = s.RequesterID
		default:
			continue
		}
		d.add(domain.ReferenceCandidate{
			Type:        domain.EntitySync,
			EntityID:    s.ID,
			RecipientID: other,
			EndedAt:     *s.CompletedAt,
			Label:       humanize(string(s.SyncType)),
		})
	}

	for _, tw := range in.OwnedTrips {
		if tw == nil || tw.Trip == nil || tw.Trip.OwnerID != in.UserID || !tripEndedWithin(tw.Trip, now) {
			continue
		}
		for _, req := range tw.Requests {
			if req == nil || req.Status != domain.TripRequestAccepted {
				continue
			}
			d.add(tripCandidate(tw.Trip, req.RequesterID))
		}
	}
	for _, tw := range in.JoinedTrips {
		if tw == nil || tw.Trip == nil || !tripEndedWithin(tw.Trip, now) {
			continue
		}
		if !acceptedOnto(tw.Requests, in.UserID) {
			continue
		}
		d.add(tripCandidate(tw.Trip, tw.Trip.OwnerID))
	}

	for _, ew := range in.Events {
		if ew == nil || ew.Event == nil {
			continue
		}
		end := ew.Event.EffectiveEnd()
		if !within(end, since, now) || !attended(ew, in.UserID) {
			continue
		}
		other := d.eventCounterpart(ew.Members)
		if other == "" {
			continue
		}
		d.add(domain.ReferenceCandidate{
			Type:        domain.EntityEvent,
			EntityID:    ew.Event.ID,
			RecipientID: other,
			EndedAt:     end,
			Label:       ew.Event.Title,
		})
	}

	sort.SliceStable(d.out, func(i, j int) bool {
		a, b := d.out[i], d.out[j]
		if a.Type.Rank() != b.Type.Rank() {
			return a.Type.Rank() < b.Type.Rank()
		}
		return a.EndedAt.After(b.EndedAt)
	})
	return d.out
}

type derivation struct {
	userID    string
	connected map[string]string
	authored  map[string]bool
	seen      map[string]bool
	out       []domain.ReferenceCandidate
}

func (d *derivation) add(c domain.ReferenceCandidate) {
	if c.RecipientID == "" || c.RecipientID == d.userID {
		return
	}
	connID, ok := d.connected[c.RecipientID]
	if !ok {
		return
	}
	if d.authored[string(c.Type)+":"+c.EntityID] {
		return
	}
	key := c.Key()
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	c.ConnectionID = connID
	d.out = append(d.out, c)
}

// eventCounterpart picks the best-ranked present member who is an accepted connection.
func (d *derivation) eventCounterpart(members []*domain.EventMember) string {
	best := ""
	bestRank := domain.MemberLeft.Rank()
	for _, m := range members {
		if m == nil || m.UserID == d.userID || m.Status == domain.MemberLeft {
			continue
		}
		if _, ok := d.connected[m.UserID]; !ok {
			continue
		}
		if r := m.Status.Rank(); r < bestRank {
			best, bestRank = m.UserID, r
		}
	}
	return best
}

func attended(ew *domain.EventWithMembers, userID string) bool {
	if ew.Event.HostID == userID {
		return true
	}
	for _, m := range ew.Members {
		if m != nil && m.UserID == userID && m.Status != domain.MemberLeft {
			return true
		}
	}
	return false
}

func acceptedOnto(requests []*domain.TripRequest, userID string) bool {
	for _, r := range requests {
		if r != nil && r.RequesterID == userID && r.Status == domain.TripRequestAccepted {
			return true
		}
	}
	return false
}

func tripCandidate(t *domain.Trip, other string) domain.ReferenceCandidate {
	return domain.ReferenceCandidate{
		Type:        domain.EntityTrip,
		EntityID:    t.ID,
		RecipientID: other,
		EndedAt:     t.EndDate,
		Label:       tripLabel(t),
	}
}

func tripLabel(t *domain.Trip) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{t.DestinationCity, t.DestinationCountry} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// tripEndedWithin compares calendar days: a trip ending today or up to 15 days ago counts.
func tripEndedWithin(t *domain.Trip, now time.Time) bool {
	today := calendarDay(now)
	end := calendarDay(t.EndDate)
	return !end.After(today) && !end.Before(today.AddDate(0, 0, -15))
}

// calendarDay truncates t to its UTC date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// CanEditReference reports whether userID may edit ref: the author, once, within 15 days.
func CanEditReference(ref *domain.Reference, userID string, now time.Time) bool {
	return ref != nil && ref.AuthorID == userID && ref.EditCount == 0 &&
		now.Sub(ref.CreatedAt) <= domain.ReferenceWindow
}

// CanReplyReference reports whether userID may reply to ref: the recipient, once, within 15 days.
func CanReplyReference(ref *domain.Reference, userID string, now time.Time) bool {
	return ref != nil && ref.RecipientID == userID && ref.ReplyText == "" && ref.RepliedAt == nil &&
		now.Sub(ref.CreatedAt) <= domain.ReferenceWindow
}
