package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
)

// ProposeSyncRequest is the request body for POST /connections/{connectionID}/syncs.
type ProposeSyncRequest struct {
	SyncType    string     `json:"sync_type"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// Validate implements Validator.
func (p ProposeSyncRequest) Validate() []string {
	var errs []string
	if !domain.IsSyncType(p.SyncType) {
		errs = append(errs, "sync_type must be one of training, social_dancing, workshop, collaboration")
	}
	return errs
}

// RespondTripRequest is the request body for POST /trip-requests/{requestID}/respond.
type RespondTripRequest struct {
	Response string `json:"response"`
}

// Validate implements Validator.
func (t RespondTripRequest) Validate() []string {
	switch domain.TripResponse(t.Response) {
	case domain.TripAccept, domain.TripDecline:
		return nil
	}
	return []string{"response must be accept or decline"}
}

// SyncController serves connection syncs and trip request responses.
type SyncController struct {
	Logger *slog.Logger
	Syncs  domain.SyncService
	Trips  domain.TripService
}

func NewSyncController(logger *slog.Logger, syncs domain.SyncService, trips domain.TripService) *SyncController {
	return &SyncController{
		Logger: logger,
		Syncs:  syncs,
		Trips:  trips,
	}
}

// Propose godoc
// @Summary Propose a sync
// @Description Proposes a meetup to the other participant of an accepted connection. The recipient is notified.
// @Tags syncs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param connectionID path string true "Connection ID (UUID)"
// @Param body body ProposeSyncRequest true "Sync proposal"
// @Success 201 {object} controllers.IDSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /connections/{connectionID}/syncs [post]
func (c *SyncController) Propose(w http.ResponseWriter, r *http.Request) {
	connectionID, ok := helpers.PathUUID(w, r, "connectionID")
	if !ok {
		return
	}
	var req ProposeSyncRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := c.Syncs.Propose(r.Context(), userID, domain.SyncProposal{
		ConnectionID: connectionID,
		SyncType:     domain.SyncType(req.SyncType),
		ScheduledAt:  req.ScheduledAt,
		Note:         strings.TrimSpace(req.Note),
	})
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, IDResponse{ID: id})
}

// Complete godoc
// @Summary Mark a sync completed
// @Tags syncs
// @Produce json
// @Security BearerAuth
// @Param syncID path string true "Sync ID (UUID)"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /syncs/{syncID}/complete [post]
func (c *SyncController) Complete(w http.ResponseWriter, r *http.Request) {
	syncID, ok := helpers.PathUUID(w, r, "syncID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Syncs.Complete(r.Context(), userID, syncID); err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: string(domain.SyncCompleted)})
}

// RespondTrip godoc
// @Summary Accept or decline a request to join your trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Trip request ID (UUID)"
// @Param body body RespondTripRequest true "accept or decline"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /trip-requests/{requestID}/respond [post]
func (c *SyncController) RespondTrip(w http.ResponseWriter, r *http.Request) {
	requestID, ok := helpers.PathUUID(w, r, "requestID")
	if !ok {
		return
	}
	var req RespondTripRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	response := domain.TripResponse(req.Response)
	if err := c.Trips.Respond(r.Context(), userID, requestID, response); err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	status := domain.TripRequestDeclined
	if response == domain.TripAccept {
		status = domain.TripRequestAccepted
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: string(status)})
}

// CancelTrip godoc
// @Summary Cancel your request to join a trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Trip request ID (UUID)"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /trip-requests/{requestID}/cancel [post]
func (c *SyncController) CancelTrip(w http.ResponseWriter, r *http.Request) {
	requestID, ok := helpers.PathUUID(w, r, "requestID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Trips.CancelRequest(r.Context(), userID, requestID); err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: string(domain.TripRequestCancelled)})
}
