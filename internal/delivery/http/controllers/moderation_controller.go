package controllers

import (
	"log/slog"
	"net/http"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
)

// ModerateReportRequest is the request body for POST /moderation/reports/{reportID}.
type ModerateReportRequest struct {
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

// Validate implements Validator.
func (m ModerateReportRequest) Validate() []string {
	if !domain.IsModerateAction(m.Action) {
		return []string{"action must be one of dismiss, warn, hide, remove, suspend, reopen"}
	}
	return nil
}

// ModerateEventRequest is the request body for POST /moderation/events/{eventID}.
type ModerateEventRequest struct {
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

// Validate implements Validator.
func (m ModerateEventRequest) Validate() []string {
	if !domain.IsEventModerateAction(m.Action) {
		return []string{"action must be one of approve, reject, hide, unpublish, remove"}
	}
	return nil
}

// CreateReportRequest is the request body for POST /reports.
type CreateReportRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
	Details    string `json:"details,omitempty"`
}

// Validate implements Validator.
func (c CreateReportRequest) Validate() []string {
	var errs []string
	if !domain.IsReportTargetType(c.TargetType) {
		errs = append(errs, "target_type must be one of user, message, reference, event")
	}
	if !helpers.IsUUID(c.TargetID) {
		errs = append(errs, "target_id is required")
	}
	if c.Reason == "" {
		errs = append(errs, "reason is required")
	}
	return errs
}

// ModerationController serves admin moderation and user reports.
type ModerationController struct {
	Logger  *slog.Logger
	Service domain.ModerationService
}

func NewModerationController(logger *slog.Logger, svc domain.ModerationService) *ModerationController {
	return &ModerationController{Logger: logger, Service: svc}
}

// ModerateReport godoc
// @Summary Act on a user report
// @Description Admin only. The procedure checks the caller's admin role.
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportID path string true "Report ID (UUID)"
// @Param body body ModerateReportRequest true "Action and note"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not admin)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /moderation/reports/{reportID} [post]
func (c *ModerationController) ModerateReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := helpers.PathUUID(w, r, "reportID")
	if !ok {
		return
	}
	var req ModerateReportRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	d := domain.ModerationDecision{Action: domain.ModerateAction(req.Action), Note: req.Note}
	if err := c.Service.ModerateReport(r.Context(), userID, reportID, d); err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: req.Action})
}

// ModerateEvent godoc
// @Summary Act on an event
// @Description Admin only. Approves, rejects, hides, unpublishes or removes an event.
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body ModerateEventRequest true "Action and note"
// @Success 200 {object} controllers.StatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not admin)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /moderation/events/{eventID} [post]
func (c *ModerationController) ModerateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req ModerateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	d := domain.ModerationDecision{Action: domain.ModerateAction(req.Action), Note: req.Note}
	if err := c.Service.ModerateEvent(r.Context(), userID, eventID, d); err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: req.Action})
}

// CreateReport godoc
// @Summary Report a user, message, reference or event
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateReportRequest true "Report"
// @Success 201 {object} controllers.IDSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already reported)"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /reports [post]
func (c *ModerationController) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := c.Service.CreateReport(r.Context(), userID, domain.ReportInput{
		TargetType: domain.ReportTargetType(req.TargetType),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Details:    req.Details,
	})
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, IDResponse{ID: id})
}
