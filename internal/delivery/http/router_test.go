package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancehub/internal/delivery/http/controllers"
	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/delivery/http/middleware"
	"dancehub/internal/domain"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*domain.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthenticated
	}
	return &domain.Claims{UserID: "5b0e2a55-7d0e-4c1b-9d1f-6a2b8f1d0001", Role: "authenticated"}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

// newTestRouter mounts controllers without services; the requests below never reach a service call.
func newTestRouter(db Pinger, burst int) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(Controllers{
		Connections: controllers.NewConnectionController(logger, nil),
		Syncs:       controllers.NewSyncController(logger, nil, nil),
		Events:      controllers.NewEventController(logger, nil, nil),
		Profiles:    controllers.NewProfileController(logger, nil),
		References:  controllers.NewReferenceController(logger, nil),
		Moderation:  controllers.NewModerationController(logger, nil),
		Messages:    controllers.NewMessageController(logger, nil),
		Onboarding:  controllers.NewOnboardingController(logger, nil),
	}, RouterConfig{
		Verifier:       stubVerifier{},
		Limiter:        middleware.NewRateLimiter(0.001, burst),
		DB:             db,
		AllowedOrigins: []string{"https://app.dancehub.test"},
		Logger:         logger,
	})
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	require.NotNil(t, env.Error)
	return env.Error.Code
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(stubPinger{}, 10)
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{name: "protected route without token", method: http.MethodGet, target: "/references/candidates", wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "protected route with bad token", method: http.MethodPost, target: "/messages", body: `{}`, token: "bad", wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "message body validated", method: http.MethodPost, target: "/messages", body: `{"body":"hi"}`, token: "good", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "sync path id validated", method: http.MethodPost, target: "/syncs/not-a-uuid/complete", token: "good", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "trip response validated", method: http.MethodPost, target: "/trip-requests/9c1f3b66-8e1f-4d2c-8e20-7b3c9a2e0003/respond", body: `{"response":"maybe"}`, token: "good", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "event date preset validated", method: http.MethodGet, target: "/events?date=someday", token: "good", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "moderation action validated", method: http.MethodPost, target: "/moderation/reports/9c1f3b66-8e1f-4d2c-8e20-7b3c9a2e0003", body: `{"action":"explode"}`, token: "good", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "wrong method", method: http.MethodPut, target: "/messages", token: "good", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, target: "/nowhere", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rr))
			}
		})
	}
}

func TestRouter_RateLimitsWrites(t *testing.T) {
	router := newTestRouter(stubPinger{}, 1)
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer good")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusBadRequest, send().Code)
	rr := send()
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(stubPinger{}, 1).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"},"error":null}`, rr.Body.String())

	rr = httptest.NewRecorder()
	newTestRouter(stubPinger{err: errors.New("dial tcp: refused")}, 1).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, helpers.ErrCodeUnavailable, errorCode(t, rr))
}

func TestRouter_MetricsAndCORS(t *testing.T) {
	router := newTestRouter(stubPinger{}, 1)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="GET /health"`)

	req := httptest.NewRequest(http.MethodOptions, "/messages", nil)
	req.Header.Set("Origin", "https://app.dancehub.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.dancehub.test", rr.Header().Get("Access-Control-Allow-Origin"))
}
