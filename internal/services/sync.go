package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dancehub/internal/domain"
)

const maxSyncNoteLength = 500

type syncService struct {
	rpc            domain.RPCCaller
	notifier       domain.Notifier
	candidates     domain.CandidateCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewSyncService returns a SyncService forwarding to the sync procedures.
// Completing a sync drops the cached reference candidates of both participants.
func NewSyncService(rpc domain.RPCCaller, notifier domain.Notifier, candidates domain.CandidateCache, logger *slog.Logger, timeout time.Duration) domain.SyncService {
	return &syncService{rpc: rpc, notifier: notifier, candidates: candidates, logger: logger, contextTimeout: timeout}
}

type proposeResult struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
}

func (s *syncService) Propose(ctx context.Context, userID string, p domain.SyncProposal) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.IsSyncType(string(p.SyncType)) {
		return "", fmt.Errorf("%w: unknown sync type %q", domain.ErrInvalidInput, p.SyncType)
	}
	if len(p.Note) > maxSyncNoteLength {
		return "", fmt.Errorf("%w: note is too long", domain.ErrInvalidInput)
	}
	args := domain.Args{
		"p_connection_id": p.ConnectionID,
		"p_sync_type":     string(p.SyncType),
		"p_scheduled_at":  p.ScheduledAt,
		"p_note":          p.Note,
	}
	var res proposeResult
	if err := s.rpc.Call(ctx, userID, "propose_connection_sync", args, &res); err != nil {
		return "", fmt.Errorf("propose connection sync: %w", err)
	}
	if res.RecipientID != "" {
		s.notifier.SyncProposed(ctx, userID, res.RecipientID, p)
	}
	return res.ID, nil
}

// Complete marks a sync completed. Deployments without complete_connection_sync
// get the legacy mark_sync_completed instead.
func (s *syncService) Complete(ctx context.Context, userID, syncID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	args := domain.Args{"p_sync_id": syncID}
	var who participants
	err := s.rpc.Call(ctx, userID, "complete_connection_sync", args, &who)
	if errors.Is(err, domain.ErrSchemaDrift) {
		s.logger.WarnContext(ctx, "complete_connection_sync unavailable, using mark_sync_completed", "sync_id", syncID)
		err = s.rpc.Call(ctx, userID, "mark_sync_completed", args, &who)
	}
	if err != nil {
		return fmt.Errorf("complete sync: %w", err)
	}
	invalidateCandidates(ctx, s.candidates, s.logger, userID, who.RequesterID, who.RecipientID)
	return nil
}
