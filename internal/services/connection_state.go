package services

import "dancehub/internal/domain"

// ResolveConnectionState reduces every row between the viewer and one other user to a single state.
// Precedence: blocked, accepted, incoming pending, outgoing pending, none.
func ResolveConnectionState(viewerID string, rows []*domain.Connection) domain.ConnectionState {
	var accepted, incoming, outgoing *domain.Connection
	for _, c := range rows {
		if c == nil {
			continue
		}
		switch c.Status {
		case domain.ConnectionBlocked:
			return domain.ConnectionState{Status: domain.StateBlocked, ID: c.ID}
		case domain.ConnectionAccepted:
			if accepted == nil {
				accepted = c
			}
		case domain.ConnectionPending:
			if c.TargetID == viewerID && incoming == nil {
				incoming = c
			} else if c.RequesterID == viewerID && outgoing == nil {
				outgoing = c
			}
		}
	}
	switch {
	case accepted != nil:
		return domain.ConnectionState{Status: domain.StateAccepted, ID: accepted.ID}
	case incoming != nil:
		return domain.ConnectionState{Status: domain.StatePending, Role: domain.RoleTarget, ID: incoming.ID}
	case outgoing != nil:
		return domain.ConnectionState{Status: domain.StatePending, Role: domain.RoleRequester, ID: outgoing.ID}
	}
	return domain.ConnectionState{Status: domain.StateNone}
}
