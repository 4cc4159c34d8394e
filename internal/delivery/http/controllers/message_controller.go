package controllers

import (
	"log/slog"
	"net/http"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
)

// SendMessageRequest is the request body for POST /messages.
type SendMessageRequest struct {
	ConnectionID string `json:"connection_id"`
	Body         string `json:"body"`
}

// Validate implements Validator.
func (m SendMessageRequest) Validate() []string {
	var errs []string
	if !helpers.IsUUID(m.ConnectionID) {
		errs = append(errs, "connection_id is required")
	}
	if m.Body == "" {
		errs = append(errs, "body is required")
	}
	return errs
}

type MessageController struct {
	Logger  *slog.Logger
	Service domain.MessageService
}

func NewMessageController(logger *slog.Logger, svc domain.MessageService) *MessageController {
	return &MessageController{Logger: logger, Service: svc}
}

// Send godoc
// @Summary Send a direct message
// @Description Sends a message on an accepted connection.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendMessageRequest true "Message"
// @Success 201 {object} controllers.IDSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not connected)"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /messages [post]
func (c *MessageController) Send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := c.Service.Send(r.Context(), userID, domain.MessageInput{ConnectionID: req.ConnectionID, Body: req.Body})
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, IDResponse{ID: id})
}
