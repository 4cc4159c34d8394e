package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dancehub/internal/domain"
)

type connectionService struct {
	repo           domain.ConnectionRepository
	rpc            domain.RPCCaller
	notifier       domain.Notifier
	candidates     domain.CandidateCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewConnectionService returns a ConnectionService reading rows through repo and mutating through rpc.
// Accepting, blocking and unblocking drop the cached reference candidates of both users.
func NewConnectionService(repo domain.ConnectionRepository, rpc domain.RPCCaller, notifier domain.Notifier, candidates domain.CandidateCache, logger *slog.Logger, timeout time.Duration) domain.ConnectionService {
	return &connectionService{repo: repo, rpc: rpc, notifier: notifier, candidates: candidates, logger: logger, contextTimeout: timeout}
}

func (s *connectionService) GetState(ctx context.Context, viewerID, otherID string) (domain.ConnectionState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if viewerID == otherID {
		return domain.ConnectionState{Status: domain.StateNone}, nil
	}
	rows, err := s.repo.ListBetween(ctx, viewerID, otherID)
	if err != nil {
		return domain.ConnectionState{}, fmt.Errorf("list connections: %w", err)
	}
	return ResolveConnectionState(viewerID, rows), nil
}

// Request creates a connection request. When the procedure reports a unique violation the
// row already exists, the request is a no-op and the current state is returned.
func (s *connectionService) Request(ctx context.Context, userID string, req domain.ConnectionRequest) (domain.ConnectionState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	req.TargetID = strings.TrimSpace(req.TargetID)
	if req.TargetID == "" || req.TargetID == userID {
		return domain.ConnectionState{}, fmt.Errorf("%w: target must be another user", domain.ErrInvalidInput)
	}

	args := domain.Args{"p_target_id": req.TargetID}
	if req.Context != "" {
		args["p_context"] = req.Context
	}
	if req.Reason != "" {
		args["p_reason"] = req.Reason
	}
	if req.TripID != "" {
		args["p_trip_id"] = req.TripID
	}

	var id string
	err := s.rpc.Call(ctx, userID, "create_connection_request", args, &id)
	if err != nil && !domain.IsDuplicate(err) {
		return domain.ConnectionState{}, fmt.Errorf("create connection request: %w", err)
	}
	created := err == nil

	rows, err := s.repo.ListBetween(ctx, userID, req.TargetID)
	if err != nil {
		if created && id != "" {
			return domain.ConnectionState{Status: domain.StatePending, Role: domain.RoleRequester, ID: id}, nil
		}
		return domain.ConnectionState{}, fmt.Errorf("list connections: %w", err)
	}
	state := ResolveConnectionState(userID, rows)
	if created {
		s.notifier.ConnectionRequested(ctx, userID, req)
	}
	return state, nil
}

func (s *connectionService) Accept(ctx context.Context, userID, connectionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var who participants
	if err := s.rpc.Call(ctx, userID, "accept_connection_request", domain.Args{"p_connection_id": connectionID}, &who); err != nil {
		return fmt.Errorf("accept_connection_request: %w", err)
	}
	invalidateCandidates(ctx, s.candidates, s.logger, userID, who.RequesterID, who.TargetID)
	return nil
}

func (s *connectionService) Decline(ctx context.Context, userID, connectionID string) error {
	return s.call(ctx, userID, "decline_connection_request", domain.Args{"p_connection_id": connectionID})
}

func (s *connectionService) Cancel(ctx context.Context, userID, connectionID string) error {
	return s.call(ctx, userID, "cancel_connection_request", domain.Args{"p_connection_id": connectionID})
}

func (s *connectionService) Block(ctx context.Context, userID, targetID string) error {
	if targetID == userID {
		return fmt.Errorf("%w: cannot block yourself", domain.ErrInvalidInput)
	}
	if err := s.call(ctx, userID, "block_connection", domain.Args{"p_target_id": targetID}); err != nil {
		return err
	}
	invalidateCandidates(ctx, s.candidates, s.logger, userID, targetID)
	return nil
}

func (s *connectionService) Unblock(ctx context.Context, userID, targetID string) error {
	if err := s.call(ctx, userID, "unblock_connection", domain.Args{"p_target_id": targetID}); err != nil {
		return err
	}
	invalidateCandidates(ctx, s.candidates, s.logger, userID, targetID)
	return nil
}

func (s *connectionService) call(ctx context.Context, userID, proc string, args domain.Args) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.rpc.Call(ctx, userID, proc, args, nil); err != nil {
		return fmt.Errorf("%s: %w", proc, err)
	}
	return nil
}
