package controllers

import (
	"log/slog"
	"net/http"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/domain"
	"dancehub/internal/filter"
	"dancehub/internal/services"
)

// ProfileListResponse is the data payload for GET /profiles.
type ProfileListResponse struct {
	Profiles   []*domain.Profile      `json:"profiles"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ProfileListSuccessResponse is the success response envelope for GET /profiles (200).
type ProfileListSuccessResponse struct {
	Data  ProfileListResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type ProfileController struct {
	Logger    *slog.Logger
	Discovery services.DiscoveryService
}

func NewProfileController(logger *slog.Logger, discovery services.DiscoveryService) *ProfileController {
	return &ProfileController{Logger: logger, Discovery: discovery}
}

// ListProfiles godoc
// @Summary Discover dancers
// @Description Loads one page of profiles other than the caller and narrows it by the given facets. Multi-value facets match when any value matches.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param q query string false "Free text over name, place, roles, styles and languages"
// @Param role query []string false "Roles (repeatable or comma-separated)"
// @Param style query []string false "Dance styles"
// @Param language query []string false "Languages"
// @Param my_location query bool false "Only dancers in the caller's city (or country)"
// @Param verified query bool false "Only verified dancers"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ProfileListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profiles [get]
func (c *ProfileController) ListProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	facets, err := filter.ParseProfileFacets(r.URL.Query())
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	params := helpers.ParsePagination(r)
	profiles, err := c.Discovery.Profiles(r.Context(), userID, facets, params)
	if err != nil {
		helpers.WriteServiceError(r.Context(), w, r, c.Logger, err)
		return
	}
	if profiles == nil {
		profiles = []*domain.Profile{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ProfileListResponse{
		Profiles:   profiles,
		Pagination: helpers.PageMeta(params),
	})
}
