package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dancehub/internal/domain"
)

type moderationService struct {
	rpc            domain.RPCCaller
	contextTimeout time.Duration
}

// NewModerationService returns a ModerationService forwarding to the moderation procedures.
// Admin checks happen inside the procedures.
func NewModerationService(rpc domain.RPCCaller, timeout time.Duration) domain.ModerationService {
	return &moderationService{rpc: rpc, contextTimeout: timeout}
}

func (s *moderationService) ModerateReport(ctx context.Context, userID, reportID string, d domain.ModerationDecision) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.IsModerateAction(string(d.Action)) {
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, d.Action)
	}
	err := s.rpc.Call(ctx, userID, "moderate_report", domain.Args{
		"p_report_id": reportID,
		"p_action":    string(d.Action),
		"p_note":      strings.TrimSpace(d.Note),
	}, nil)
	if err != nil {
		return fmt.Errorf("moderate report: %w", err)
	}
	return nil
}

func (s *moderationService) ModerateEvent(ctx context.Context, userID, eventID string, d domain.ModerationDecision) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.IsEventModerateAction(string(d.Action)) {
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, d.Action)
	}
	err := s.rpc.Call(ctx, userID, "moderate_event", domain.Args{
		"p_event_id": eventID,
		"p_action":   string(d.Action),
		"p_note":     strings.TrimSpace(d.Note),
	}, nil)
	if err != nil {
		return fmt.Errorf("moderate event: %w", err)
	}
	return nil
}

func (s *moderationService) CreateReport(ctx context.Context, userID string, in domain.ReportInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.IsReportTargetType(string(in.TargetType)) {
		return "", fmt.Errorf("%w: unknown target type %q", domain.ErrInvalidInput, in.TargetType)
	}
	if strings.TrimSpace(in.TargetID) == "" || strings.TrimSpace(in.Reason) == "" {
		return "", fmt.Errorf("%w: target_id and reason are required", domain.ErrInvalidInput)
	}
	if len(in.Details) > maxReportDetails {
		return "", fmt.Errorf("%w: details are too long", domain.ErrInvalidInput)
	}
	var id string
	err := s.rpc.Call(ctx, userID, "create_report", domain.Args{
		"p_target_type": string(in.TargetType),
		"p_target_id":   in.TargetID,
		"p_reason":      strings.TrimSpace(in.Reason),
		"p_details":     in.Details,
	}, &id)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	return id, nil
}
