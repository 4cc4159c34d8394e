package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dancehub/internal/domain"
)

type tripService struct {
	rpc            domain.RPCCaller
	notifier       domain.Notifier
	candidates     domain.CandidateCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewTripService returns a TripService forwarding to the trip request procedures.
func NewTripService(rpc domain.RPCCaller, notifier domain.Notifier, candidates domain.CandidateCache, logger *slog.Logger, timeout time.Duration) domain.TripService {
	return &tripService{rpc: rpc, notifier: notifier, candidates: candidates, logger: logger, contextTimeout: timeout}
}

type tripResponseResult struct {
	RequesterID string `json:"requester_id"`
	Destination string `json:"destination"`
}

func (s *tripService) Respond(ctx context.Context, userID, requestID string, response domain.TripResponse) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if response != domain.TripAccept && response != domain.TripDecline {
		return fmt.Errorf("%w: response must be accept or decline", domain.ErrInvalidInput)
	}
	var res tripResponseResult
	err := s.rpc.Call(ctx, userID, "respond_trip_request", domain.Args{
		"p_request_id": requestID,
		"p_response":   string(response),
	}, &res)
	if err != nil {
		return fmt.Errorf("respond trip request: %w", err)
	}
	if response == domain.TripAccept {
		invalidateCandidates(ctx, s.candidates, s.logger, userID, res.RequesterID)
	}
	if res.RequesterID != "" {
		s.notifier.TripResponded(ctx, userID, res.RequesterID, res.Destination, response == domain.TripAccept)
	}
	return nil
}

func (s *tripService) CancelRequest(ctx context.Context, userID, requestID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.rpc.Call(ctx, userID, "cancel_trip_request", domain.Args{"p_request_id": requestID}, nil); err != nil {
		return fmt.Errorf("cancel trip request: %w", err)
	}
	return nil
}
