package controllers

import (
	"log/slog"
	"net/http"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
	"dancehub/internal/filter"
	"dancehub/internal/services"
)

// ReportEventRequest is the request body for POST /events/{eventID}/reports.
type ReportEventRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

// Validate implements Validator.
func (r ReportEventRequest) Validate() []string {
	if r.Reason == "" {
		return []string{"reason is required"}
	}
	return nil
}

// FeedbackRequest is the request body for POST /events/{eventID}/feedback.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Validate implements Validator.
func (f FeedbackRequest) Validate() []string {
	if f.Rating < 1 || f.Rating > 5 {
		return []string{"rating must be between 1 and 5"}
	}
	return nil
}

// EventListResponse is the data payload for GET /events.
type EventListResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// EventListSuccessResponse is the success response envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data  EventListResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// FeedbackEligibilitySuccessResponse is the success response envelope for GET /events/{eventID}/feedback/eligibility (200).
type FeedbackEligibilitySuccessResponse struct {
	Data  domain.FeedbackEligibility `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// FeedbackSummarySuccessResponse is the success response envelope for GET /events/{eventID}/feedback/summary (200).
type FeedbackSummarySuccessResponse struct {
	Data  domain.FeedbackSummary `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type EventController struct {
	Logger    *slog.Logger
	Service   domain.EventService
	Discovery services.DiscoveryService
}

func NewEventController(logger *slog.Logger, svc domain.EventService, discovery services.DiscoveryService) *EventController {
	return &EventController{
		Logger:    logger,
		Service:   svc,
		Discovery: discovery,
	}
}

// ListEvents godoc
// @Summary List public events
// @Description Loads one page of public events and narrows it by the given facets. Facets combine with AND; omitted facets match everything.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param q query string false "Free text over title, place, venue, type, host and styles"
// @Param visibility query string false "public or private"
// @Param my_location query bool false "Only events in the caller's city (or country)"
// @Param date query string false "any, today, tomorrow, this_weekend, this_week, next_week, this_month or custom"
// @Param from query string false "Custom range start (YYYY-MM-DD)"
// @Param to query string false "Custom range end (YYYY-MM-DD)"
// @Param style query string false "Dance style"
// @Param type query string false "Event type"
// @Param connections_only query bool false "Only events a connection attends"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	facets, err := filter.ParseEventFacets(r.URL.Query())
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	params := helpers.ParsePagination(r)
	events, err := c.Discovery.Events(r.Context(), userID, facets, params)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:     events,
		Pagination: helpers.PageMeta(params),
	})
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event hosted by the caller. Published events go through moderation before they are listed.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body domain.EventInput true "Event"
// @Success 201 {object} controllers.IDSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.EventInput
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := c.Service.Create(r.Context(), userID, req)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, IDResponse{ID: id})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces the event's details. Only the host can update.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body domain.EventInput true "Event"
// @Success 200 {object} controllers.IDSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req domain.EventInput
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Update(r.Context(), userID, eventID, req); err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, IDResponse{ID: eventID})
}

// ReportEvent godoc
// @Summary Report an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body ReportEventRequest true "Reason and details"
// @Success 201 {object} controllers.IDSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already reported)"
// @Router /events/{eventID}/reports [post]
func (c *EventController) ReportEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req ReportEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := c.Service.Report(r.Context(), userID, eventID, req.Reason, req.Details)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, IDResponse{ID: id})
}

// SubmitFeedback godoc
// @Summary Leave feedback on an event you attended
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body FeedbackRequest true "Rating 1-5 and optional comment"
// @Success 201 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/feedback [post]
func (c *EventController) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req FeedbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	err := c.Service.SubmitFeedback(r.Context(), userID, eventID, domain.EventFeedback{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, StatusResponse{Status: "submitted"})
}

// FeedbackEligibility godoc
// @Summary Check whether you can leave feedback on an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.FeedbackEligibilitySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/feedback/eligibility [get]
func (c *EventController) FeedbackEligibility(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	out, err := c.Service.CanSubmitFeedback(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// FeedbackSummary godoc
// @Summary Get an event's feedback summary
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.FeedbackSummarySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/feedback/summary [get]
func (c *EventController) FeedbackSummary(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	out, err := c.Service.FeedbackSummary(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}
