package controllers

import (
	"log/slog"
	"net/http"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
)

// OnboardingDraftSuccessResponse is the success response envelope carrying a draft.
type OnboardingDraftSuccessResponse struct {
	Data  *domain.OnboardingDraft `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type OnboardingController struct {
	Logger  *slog.Logger
	Service domain.OnboardingService
}

func NewOnboardingController(logger *slog.Logger, svc domain.OnboardingService) *OnboardingController {
	return &OnboardingController{Logger: logger, Service: svc}
}

// GetDraft godoc
// @Summary Get your onboarding draft
// @Description Returns an empty draft when none is saved.
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.OnboardingDraftSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /onboarding/draft [get]
func (c *OnboardingController) GetDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	draft, err := c.Service.Get(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, draft)
}

// PatchDraft godoc
// @Summary Update your onboarding draft
// @Description Merges the given fields into the saved draft. Omitted fields are unchanged.
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.OnboardingDraftPatch true "Fields to change"
// @Success 200 {object} controllers.OnboardingDraftSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /onboarding/draft [patch]
func (c *OnboardingController) PatchDraft(w http.ResponseWriter, r *http.Request) {
	var patch domain.OnboardingDraftPatch
	if !helpers.DecodeAndValidate(w, r, &patch) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	draft, err := c.Service.Merge(r.Context(), userID, patch)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, draft)
}

// DeleteDraft godoc
// @Summary Discard your onboarding draft
// @Tags onboarding
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /onboarding/draft [delete]
func (c *OnboardingController) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Clear(r.Context(), userID); err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
