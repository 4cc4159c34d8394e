package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dancehub/internal/domain"
	"dancehub/internal/observability"
)

type notifier struct {
	service  domain.ServiceCaller
	profiles domain.ProfileRepository
	emails   domain.EmailService
	logger   *slog.Logger
	timeout  time.Duration
}

// NewNotifier returns a Notifier that records in-app notifications with the service credential
// and emails recipients who have an address. profiles must be able to read contact details.
func NewNotifier(service domain.ServiceCaller, profiles domain.ProfileRepository, emails domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.Notifier {
	return &notifier{service: service, profiles: profiles, emails: emails, logger: logger, timeout: timeout}
}

// detach keeps the side effects running after the request context is done.
func (n *notifier) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
}

func (n *notifier) ConnectionRequested(ctx context.Context, actorID string, req domain.ConnectionRequest) {
	ctx, cancel := n.detach(ctx)
	defer cancel()

	actor, recipient := n.lookup(ctx, actorID), n.lookup(ctx, req.TargetID)
	n.record(ctx, domain.Notification{
		UserID:  req.TargetID,
		ActorID: actorID,
		Kind:    domain.NotifyConnectionRequest,
		Title:   fmt.Sprintf("%s wants to connect", displayName(actor)),
		Body:    req.Reason,
		LinkURL: "/connections",
	})
	if recipient == nil || recipient.Email == "" {
		return
	}
	n.mail(ctx, "connection_request", n.emails.SendConnectionRequest(ctx, &domain.ConnectionRequestEmailData{
		Email:         recipient.Email,
		RecipientName: displayName(recipient),
		SenderName:    displayName(actor),
		Context:       req.Context,
		Reason:        req.Reason,
	}))
}

func (n *notifier) SyncProposed(ctx context.Context, actorID, recipientID string, p domain.SyncProposal) {
	ctx, cancel := n.detach(ctx)
	defer cancel()

	actor, recipient := n.lookup(ctx, actorID), n.lookup(ctx, recipientID)
	n.record(ctx, domain.Notification{
		UserID:  recipientID,
		ActorID: actorID,
		Kind:    domain.NotifySyncProposed,
		Title:   fmt.Sprintf("%s proposed a %s sync", displayName(actor), humanize(string(p.SyncType))),
		Body:    p.Note,
		LinkURL: "/connections/" + p.ConnectionID,
	})
	if recipient == nil || recipient.Email == "" {
		return
	}
	scheduled := ""
	if p.ScheduledAt != nil {
		scheduled = p.ScheduledAt.UTC().Format("Mon 2 Jan 2006 15:04 MST")
	}
	n.mail(ctx, "sync_proposal", n.emails.SendSyncProposal(ctx, &domain.SyncProposalEmailData{
		Email:         recipient.Email,
		RecipientName: displayName(recipient),
		SenderName:    displayName(actor),
		SyncType:      humanize(string(p.SyncType)),
		ScheduledAt:   scheduled,
		Note:          p.Note,
	}))
}

func (n *notifier) TripResponded(ctx context.Context, ownerID, requesterID, destination string, accepted bool) {
	ctx, cancel := n.detach(ctx)
	defer cancel()

	owner, recipient := n.lookup(ctx, ownerID), n.lookup(ctx, requesterID)
	verb := "declined"
	if accepted {
		verb = "accepted"
	}
	n.record(ctx, domain.Notification{
		UserID:  requesterID,
		ActorID: ownerID,
		Kind:    domain.NotifyTripResponse,
		Title:   fmt.Sprintf("%s %s your trip request", displayName(owner), verb),
		Body:    destination,
		LinkURL: "/trips",
	})
	if recipient == nil || recipient.Email == "" {
		return
	}
	n.mail(ctx, "trip_response", n.emails.SendTripResponse(ctx, &domain.TripResponseEmailData{
		Email:         recipient.Email,
		RecipientName: displayName(recipient),
		OwnerName:     displayName(owner),
		Destination:   destination,
		Accepted:      accepted,
	}))
}

func (n *notifier) lookup(ctx context.Context, userID string) *domain.Profile {
	p, err := n.profiles.GetContact(ctx, userID)
	if err != nil {
		n.logger.WarnContext(ctx, "notification profile lookup failed", "user_id", userID, "error", err)
		return nil
	}
	return p
}

func (n *notifier) record(ctx context.Context, note domain.Notification) {
	err := n.service.CallAsService(ctx, "create_notification", domain.Args{
		"p_user_id":  note.UserID,
		"p_actor_id": note.ActorID,
		"p_kind":     string(note.Kind),
		"p_title":    note.Title,
		"p_body":     note.Body,
		"p_link_url": note.LinkURL,
	}, nil)
	if err != nil {
		observability.NotificationFailures.WithLabelValues("in_app").Inc()
		n.logger.WarnContext(ctx, "create notification failed", "kind", note.Kind, "user_id", note.UserID, "error", err)
	}
}

func (n *notifier) mail(ctx context.Context, template string, err error) {
	if err != nil {
		observability.NotificationFailures.WithLabelValues("email").Inc()
		n.logger.WarnContext(ctx, "notification email failed", "template", template, "error", err)
	}
}

func displayName(p *domain.Profile) string {
	if p == nil || strings.TrimSpace(p.DisplayName) == "" {
		return "Someone"
	}
	return p.DisplayName
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
