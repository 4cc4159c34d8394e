package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"dancehub/internal/domain"
)

type messageService struct {
	rpc            domain.RPCCaller
	contextTimeout time.Duration
}

// NewMessageService returns a MessageService forwarding to send_message.
func NewMessageService(rpc domain.RPCCaller, timeout time.Duration) domain.MessageService {
	return &messageService{rpc: rpc, contextTimeout: timeout}
}

func (s *messageService) Send(ctx context.Context, userID string, in domain.MessageInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return "", fmt.Errorf("%w: message body is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > domain.MaxMessageLength {
		return "", fmt.Errorf("%w: message is too long", domain.ErrInvalidInput)
	}
	if in.ConnectionID == "" {
		return "", fmt.Errorf("%w: connection_id is required", domain.ErrInvalidInput)
	}
	var id string
	err := s.rpc.Call(ctx, userID, "send_message", domain.Args{
		"p_connection_id": in.ConnectionID,
		"p_body":          body,
	}, &id)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return id, nil
}
