package controllers

import (
	"log/slog"
	"net/http"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
)

// CreateReferenceRequest is the request body for POST /references.
type CreateReferenceRequest struct {
	RecipientID string `json:"recipient_id"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	Sentiment   string `json:"sentiment"`
	Body        string `json:"body"`
}

// Validate implements Validator.
func (c CreateReferenceRequest) Validate() []string {
	var errs []string
	if !helpers.IsUUID(c.RecipientID) {
		errs = append(errs, "recipient_id must be a user id")
	}
	switch domain.EntityType(c.EntityType) {
	case domain.EntitySync, domain.EntityTrip, domain.EntityEvent:
	default:
		errs = append(errs, "entity_type must be one of sync, trip, event")
	}
	if c.EntityID == "" {
		errs = append(errs, "entity_id is required")
	}
	if !domain.IsSentiment(c.Sentiment) {
		errs = append(errs, "sentiment must be one of positive, neutral, negative")
	}
	return errs
}

// EditReferenceRequest is the request body for PATCH /references/{referenceID}.
type EditReferenceRequest struct {
	Sentiment string `json:"sentiment"`
	Body      string `json:"body"`
}

// Validate implements Validator.
func (e EditReferenceRequest) Validate() []string {
	if !domain.IsSentiment(e.Sentiment) {
		return []string{"sentiment must be one of positive, neutral, negative"}
	}
	return nil
}

// ReplyReferenceRequest is the request body for POST /references/{referenceID}/reply.
type ReplyReferenceRequest struct {
	Reply string `json:"reply"`
}

// CandidatesSuccessResponse is the success response envelope for GET /references/candidates (200).
type CandidatesSuccessResponse struct {
	Data  []domain.ReferenceCandidate `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// ReferenceSuccessResponse is the success response envelope carrying one reference.
type ReferenceSuccessResponse struct {
	Data  *domain.Reference `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ReferenceListResponse is the data payload for GET /users/{userID}/references.
type ReferenceListResponse struct {
	References []*domain.Reference    `json:"references"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ReferenceListSuccessResponse is the success response envelope for GET /users/{userID}/references (200).
type ReferenceListSuccessResponse struct {
	Data  ReferenceListResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type ReferenceController struct {
	Logger  *slog.Logger
	Service domain.ReferenceService
}

func NewReferenceController(logger *slog.Logger, svc domain.ReferenceService) *ReferenceController {
	return &ReferenceController{Logger: logger, Service: svc}
}

// ListCandidates godoc
// @Summary List interactions you can leave a reference for
// @Description Syncs, trips and events that ended in the last 15 days with a connected counterpart you have not yet referenced. Ordered sync, trip, event, then most recent first.
// @Tags references
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.CandidatesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /references/candidates [get]
func (c *ReferenceController) ListCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	candidates, err := c.Service.ListCandidates(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	if candidates == nil {
		candidates = []domain.ReferenceCandidate{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, candidates)
}

// Create godoc
// @Summary Leave a reference
// @Description The recipient and entity must match one of your current candidates.
// @Tags references
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateReferenceRequest true "Reference"
// @Success 201 {object} controllers.ReferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not eligible)"
// @Router /references [post]
func (c *ReferenceController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ref, err := c.Service.Create(r.Context(), userID, domain.NewReference{
		RecipientID: req.RecipientID,
		EntityType:  domain.EntityType(req.EntityType),
		EntityID:    req.EntityID,
		Sentiment:   domain.Sentiment(req.Sentiment),
		Body:        req.Body,
	})
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ref)
}

// Edit godoc
// @Summary Edit a reference you wrote
// @Description Allowed once, within 15 days of writing it.
// @Tags references
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param referenceID path string true "Reference ID (UUID)"
// @Param body body EditReferenceRequest true "New sentiment and body"
// @Success 200 {object} controllers.ReferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already edited)"
// @Router /references/{referenceID} [patch]
func (c *ReferenceController) Edit(w http.ResponseWriter, r *http.Request) {
	referenceID, ok := helpers.PathUUID(w, r, "referenceID")
	if !ok {
		return
	}
	var req EditReferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ref, err := c.Service.Edit(r.Context(), userID, referenceID, domain.Sentiment(req.Sentiment), req.Body)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ref)
}

// Reply godoc
// @Summary Reply to a reference you received
// @Description One reply, within 15 days of the reference.
// @Tags references
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param referenceID path string true "Reference ID (UUID)"
// @Param body body ReplyReferenceRequest true "Reply"
// @Success 200 {object} controllers.ReferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already replied)"
// @Router /references/{referenceID}/reply [post]
func (c *ReferenceController) Reply(w http.ResponseWriter, r *http.Request) {
	referenceID, ok := helpers.PathUUID(w, r, "referenceID")
	if !ok {
		return
	}
	var req ReplyReferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ref, err := c.Service.Reply(r.Context(), userID, referenceID, req.Reply)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ref)
}

// ListForUser godoc
// @Summary List the references a user received
// @Tags references
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ReferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/{userID}/references [get]
func (c *ReferenceController) ListForUser(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	if _, ok := currentUser(w, r); !ok {
		return
	}
	params := helpers.ParsePagination(r)
	refs, total, err := c.Service.ListForUser(r.Context(), recipientID, params)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	if refs == nil {
		refs = []*domain.Reference{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ReferenceListResponse{
		References: refs,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}
