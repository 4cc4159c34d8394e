package controllers

import (
	"net/http"

	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/delivery/http/middleware"
)

// IDResponse is the data payload of endpoints that create something.
type IDResponse struct {
	ID string `json:"id"`
}

// IDSuccessResponse is the success envelope carrying an IDResponse.
type IDSuccessResponse struct {
	Data  IDResponse        `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// StatusResponse is the data payload of actions that return no resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatusSuccessResponse is the success envelope carrying a StatusResponse.
type StatusSuccessResponse struct {
	Data  StatusResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// currentUser returns the authenticated user id, writing 401 when there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}
