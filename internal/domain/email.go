package domain

import "context"

// Mailer sends a rendered email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders subject, html and text bodies from a named template.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ConnectionRequestEmailData is rendered by the "connection_request" template.
type ConnectionRequestEmailData struct {
	Email         string
	RecipientName string
	SenderName    string
	Context       string
	Reason        string
}

// SyncProposalEmailData is rendered by the "sync_proposal" template.
type SyncProposalEmailData struct {
	Email         string
	RecipientName string
	SenderName    string
	SyncType      string
	ScheduledAt   string
	Note          string
}

// TripResponseEmailData is rendered by the "trip_response" template.
type TripResponseEmailData struct {
	Email         string
	RecipientName string
	OwnerName     string
	Destination   string
	Accepted      bool
}

// EmailService sends the domain emails that accompany notifications.
type EmailService interface {
	SendConnectionRequest(ctx context.Context, data *ConnectionRequestEmailData) error
	SendSyncProposal(ctx context.Context, data *SyncProposalEmailData) error
	SendTripResponse(ctx context.Context, data *TripResponseEmailData) error
}
