package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dancehub/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeRateLimited   = "rate_limited"
	ErrCodeInternalError = "internal_error"
	ErrCodeUnavailable   = "unavailable"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// StatusForKind maps an error kind to its HTTP status and envelope code.
func StatusForKind(kind domain.ErrorKind) (int, string) {
	switch kind {
	case domain.KindInvalidInput:
		return http.StatusBadRequest, ErrCodeBadRequest
	case domain.KindNotAuthenticated:
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case domain.KindNotAuthorized:
		return http.StatusForbidden, ErrCodeForbidden
	case domain.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case domain.KindConflict:
		return http.StatusConflict, ErrCodeConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests, ErrCodeRateLimited
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteServiceError writes the envelope for an error returned by a service.
// Server-side failures are logged and answered with a generic message; anything
// else carries the procedure's own detail, or the error text when there is none.
func WriteServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusForKind(domain.KindOf(err))
	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, status, code, "internal server error")
		return
	}
	WriteJSONError(w, status, code, errorMessage(err))
}

func errorMessage(err error) string {
	var rpcErr *domain.RPCError
	if errors.As(err, &rpcErr) && rpcErr.Detail != "" {
		return rpcErr.Detail
	}
	return err.Error()
}
