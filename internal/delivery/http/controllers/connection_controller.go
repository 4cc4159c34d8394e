package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
)

const maxConnectionReason = 500

// CreateConnectionRequest is the request body for POST /connections.
type CreateConnectionRequest struct {
	TargetID string `json:"target_id"`
	Context  string `json:"context,omitempty"`
	Reason   string `json:"reason,omitempty"`
	TripID   string `json:"trip_id,omitempty"`
}

// Validate implements Validator.
func (c CreateConnectionRequest) Validate() []string {
	var errs []string
	if !helpers.IsUUID(c.TargetID) {
		errs = append(errs, "target_id must be a user id")
	}
	if c.TripID != "" && !helpers.IsUUID(c.TripID) {
		errs = append(errs, "trip_id must be a trip id")
	}
	if len(c.Reason) > maxConnectionReason {
		errs = append(errs, "reason is too long")
	}
	return errs
}

// ConnectionStateSuccessResponse is the success envelope carrying a connection state.
type ConnectionStateSuccessResponse struct {
	Data  domain.ConnectionState `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type ConnectionController struct {
	Logger  *slog.Logger
	Service domain.ConnectionService
}

func NewConnectionController(logger *slog.Logger, svc domain.ConnectionService) *ConnectionController {
	return &ConnectionController{
		Logger:  logger,
		Service: svc,
	}
}

// GetState godoc
// @Summary Get the connection state with another user
// @Description Resolves every connection row between the caller and the user to one state. Blocked wins over accepted, accepted over pending. Role is set only for pending.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userID path string true "Other user ID (UUID)"
// @Success 200 {object} controllers.ConnectionStateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /connections/state/{userID} [get]
func (c *ConnectionController) GetState(w http.ResponseWriter, r *http.Request) {
	otherID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	state, err := c.Service.GetState(r.Context(), userID, otherID)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// Request godoc
// @Summary Send a connection request
// @Description Creates a connection request to target_id. Repeating a request is not an error; the current state is returned.
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateConnectionRequest true "Target and optional context"
// @Success 200 {object} controllers.ConnectionStateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /connections [post]
func (c *ConnectionController) Request(w http.ResponseWriter, r *http.Request) {
	var req CreateConnectionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	state, err := c.Service.Request(r.Context(), userID, domain.ConnectionRequest{
		TargetID: req.TargetID,
		Context:  strings.TrimSpace(req.Context),
		Reason:   strings.TrimSpace(req.Reason),
		TripID:   req.TripID,
	})
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// Accept godoc
// @Summary Accept a connection request
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param connectionID path string true "Connection ID (UUID)"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /connections/{connectionID}/accept [post]
func (c *ConnectionController) Accept(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.Accept, "accepted")
}

// Decline godoc
// @Summary Decline a connection request
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param connectionID path string true "Connection ID (UUID)"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /connections/{connectionID}/decline [post]
func (c *ConnectionController) Decline(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.Decline, "declined")
}

// Cancel godoc
// @Summary Cancel a sent connection request
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param connectionID path string true "Connection ID (UUID)"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /connections/{connectionID}/cancel [post]
func (c *ConnectionController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.Cancel, "cancelled")
}

// Block godoc
// @Summary Block a user
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/{userID}/block [post]
func (c *ConnectionController) Block(w http.ResponseWriter, r *http.Request) {
	c.userAction(w, r, c.Service.Block, "blocked")
}

// Unblock godoc
// @Summary Unblock a user
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/{userID}/block [delete]
func (c *ConnectionController) Unblock(w http.ResponseWriter, r *http.Request) {
	c.userAction(w, r, c.Service.Unblock, "unblocked")
}

type connectionAction func(ctx context.Context, userID, id string) error

func (c *ConnectionController) transition(w http.ResponseWriter, r *http.Request, action connectionAction, status string) {
	connectionID, ok := helpers.PathUUID(w, r, "connectionID")
	if !ok {
		return
	}
	c.run(w, r, action, connectionID, status)
}

func (c *ConnectionController) userAction(w http.ResponseWriter, r *http.Request, action connectionAction, status string) {
	targetID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	c.run(w, r, action, targetID, status)
}

func (c *ConnectionController) run(w http.ResponseWriter, r *http.Request, action connectionAction, id, status string) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := action(r.Context(), userID, id); err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: status})
}
