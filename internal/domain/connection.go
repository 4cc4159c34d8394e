package domain

import (
	"context"
	"time"
)

// ConnectionStatus is the lifecycle status of a connection row.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionBlocked  ConnectionStatus = "blocked"
)

// ConnectionMetadata carries the optional context a connection request was made with.
// Older schemas have none of these columns; every field may be empty.
type ConnectionMetadata struct {
	Context         string     `json:"context,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	TripID          string     `json:"trip_id,omitempty"`
	TripDestination string     `json:"trip_destination,omitempty"`
	TripStartDate   *time.Time `json:"trip_start_date,omitempty"`
	TripEndDate     *time.Time `json:"trip_end_date,omitempty"`
}

// Connection is a relationship row between two users.
// swagger:model Connection
type Connection struct {
	ID          string             `json:"id"`
	RequesterID string             `json:"requester_id"`
	TargetID    string             `json:"target_id"`
	Status      ConnectionStatus   `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	Metadata    ConnectionMetadata `json:"metadata"`
}

// OtherUser returns the id of the participant that is not userID.
func (c *Connection) OtherUser(userID string) string {
	if c.RequesterID == userID {
		return c.TargetID
	}
	return c.RequesterID
}

// Involves reports whether userID is one of the two participants.
func (c *Connection) Involves(userID string) bool {
	return c.RequesterID == userID || c.TargetID == userID
}

// ConnectionRole is the viewer's side of a pending request.
type ConnectionRole string

const (
	RoleRequester ConnectionRole = "requester"
	RoleTarget    ConnectionRole = "target"
)

// ConnectionStateStatus is the single resolved state between the viewer and another user.
type ConnectionStateStatus string

const (
	StateNone     ConnectionStateStatus = "none"
	StatePending  ConnectionStateStatus = "pending"
	StateAccepted ConnectionStateStatus = "accepted"
	StateBlocked  ConnectionStateStatus = "blocked"
)

// ConnectionState is the resolved relationship. Role is set only for pending; ID is empty for none.
// swagger:model ConnectionState
type ConnectionState struct {
	Status ConnectionStateStatus `json:"status"`
	Role   ConnectionRole        `json:"role,omitempty"`
	ID     string                `json:"id,omitempty"`
}

// ConnectionRequest is the input of create_connection_request.
type ConnectionRequest struct {
	TargetID string `json:"target_id"`
	Context  string `json:"context,omitempty"`
	Reason   string `json:"reason,omitempty"`
	TripID   string `json:"trip_id,omitempty"`
}

// ConnectionRepository reads connection rows.
type ConnectionRepository interface {
	// ListBetween returns every row between the two users, in either direction.
	ListBetween(ctx context.Context, userID, otherID string) ([]*Connection, error)
	// ListAccepted returns the accepted rows involving userID.
	ListAccepted(ctx context.Context, userID string) ([]*Connection, error)
}

// ConnectionService defines connection state reads and the connection lifecycle actions.
type ConnectionService interface {
	GetState(ctx context.Context, viewerID, otherID string) (ConnectionState, error)
	// Request creates a connection request. A duplicate request is not an error; the current state is returned.
	Request(ctx context.Context, userID string, req ConnectionRequest) (ConnectionState, error)
	Accept(ctx context.Context, userID, connectionID string) error
	Decline(ctx context.Context, userID, connectionID string) error
	Cancel(ctx context.Context, userID, connectionID string) error
	Block(ctx context.Context, userID, targetID string) error
	Unblock(ctx context.Context, userID, targetID string) error
}
