package domain

import "context"

// MaxMessageLength bounds the body of a direct message.
const MaxMessageLength = 4000

// MessageInput is the payload of send_message.
type MessageInput struct {
	ConnectionID string `json:"connection_id"`
	Body         string `json:"body"`
}

// MessageService sends direct messages between connected users.
type MessageService interface {
	Send(ctx context.Context, userID string, in MessageInput) (string, error)
}

// NotificationKind is the type of an in-app notification.
type NotificationKind string

const (
	NotifyConnectionRequest NotificationKind = "connection_request"
	NotifySyncProposed      NotificationKind = "sync_proposed"
	NotifyTripResponse      NotificationKind = "trip_request_response"
)

// Notification is the payload of create_notification.
type Notification struct {
	UserID  string           `json:"user_id"`
	ActorID string           `json:"actor_id"`
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Body    string           `json:"body,omitempty"`
	LinkURL string           `json:"link_url,omitempty"`
}

// Notifier delivers the best-effort side effects of a primary action:
// an in-app notification and, when the recipient has an address, an email.
// Failures are logged and never returned.
type Notifier interface {
	ConnectionRequested(ctx context.Context, actorID string, req ConnectionRequest)
	SyncProposed(ctx context.Context, actorID, recipientID string, p SyncProposal)
	TripResponded(ctx context.Context, ownerID, requesterID, destination string, accepted bool)
}
