package services

import (
	"context"
	"fmt"
	"log/slog"

	"dancehub/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that renders templates and sends them through mailer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	if to == "" {
		return fmt.Errorf("%s email: recipient address is empty", template)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template)
	return nil
}

func (s *emailService) SendConnectionRequest(ctx context.Context, data *domain.ConnectionRequestEmailData) error {
	if data == nil {
		return fmt.Errorf("connection request email data is nil")
	}
	return s.send(ctx, "connection_request", data.Email, data)
}

func (s *emailService) SendSyncProposal(ctx context.Context, data *domain.SyncProposalEmailData) error {
	if data == nil {
		return fmt.Errorf("sync proposal email data is nil")
	}
	return s.send(ctx, "sync_proposal", data.Email, data)
}

func (s *emailService) SendTripResponse(ctx context.Context, data *domain.TripResponseEmailData) error {
	if data == nil {
		return fmt.Errorf("trip response email data is nil")
	}
	return s.send(ctx, "trip_response", data.Email, data)
}
