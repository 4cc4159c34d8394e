package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"dancehub/internal/delivery/http/controllers"
	"dancehub/internal/delivery/http/helpers"
	"dancehub/internal/delivery/http/middleware"
	"dancehub/internal/domain"
)

// Controllers groups the route handlers mounted by NewRouter.
type Controllers struct {
	Connections *controllers.ConnectionController
	Syncs       *controllers.SyncController
	Events      *controllers.EventController
	Profiles    *controllers.ProfileController
	References  *controllers.ReferenceController
	Moderation  *controllers.ModerationController
	Messages    *controllers.MessageController
	Onboarding  *controllers.OnboardingController
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig carries the cross-cutting pieces the router wraps around every route.
type RouterConfig struct {
	Verifier       domain.TokenVerifier
	Limiter        *middleware.RateLimiter
	DB             Pinger
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	// write is for routes that mutate remote state: authenticated, then rate limited per caller.
	write := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(cfg.Limiter.Limit(h))
	}

	// Connections
	mux.HandleFunc("GET /connections/state/{userID}", auth(c.Connections.GetState))
	mux.HandleFunc("POST /connections", write(c.Connections.Request))
	mux.HandleFunc("POST /connections/{connectionID}/accept", write(c.Connections.Accept))
	mux.HandleFunc("POST /connections/{connectionID}/decline", write(c.Connections.Decline))
	mux.HandleFunc("POST /connections/{connectionID}/cancel", write(c.Connections.Cancel))
	mux.HandleFunc("POST /users/{userID}/block", write(c.Connections.Block))
	mux.HandleFunc("DELETE /users/{userID}/block", write(c.Connections.Unblock))

	// Syncs and trips
	mux.HandleFunc("POST /connections/{connectionID}/syncs", write(c.Syncs.Propose))
	mux.HandleFunc("POST /syncs/{syncID}/complete", write(c.Syncs.Complete))
	mux.HandleFunc("POST /trip-requests/{requestID}/respond", write(c.Syncs.RespondTrip))
	mux.HandleFunc("POST /trip-requests/{requestID}/cancel", write(c.Syncs.CancelTrip))

	// Events
	mux.HandleFunc("GET /events", auth(c.Events.ListEvents))
	mux.HandleFunc("POST /events", write(c.Events.CreateEvent))
	mux.HandleFunc("PATCH /events/{eventID}", write(c.Events.UpdateEvent))
	mux.HandleFunc("POST /events/{eventID}/reports", write(c.Events.ReportEvent))
	mux.HandleFunc("POST /events/{eventID}/feedback", write(c.Events.SubmitFeedback))
	mux.HandleFunc("GET /events/{eventID}/feedback/eligibility", auth(c.Events.FeedbackEligibility))
	mux.HandleFunc("GET /events/{eventID}/feedback/summary", auth(c.Events.FeedbackSummary))

	// Profiles and references
	mux.HandleFunc("GET /profiles", auth(c.Profiles.ListProfiles))
	mux.HandleFunc("GET /references/candidates", auth(c.References.ListCandidates))
	mux.HandleFunc("POST /references", write(c.References.Create))
	mux.HandleFunc("PATCH /references/{referenceID}", write(c.References.Edit))
	mux.HandleFunc("POST /references/{referenceID}/reply", write(c.References.Reply))
	mux.HandleFunc("GET /users/{userID}/references", auth(c.References.ListForUser))

	// Moderation, reports and messages
	mux.HandleFunc("POST /moderation/reports/{reportID}", write(c.Moderation.ModerateReport))
	mux.HandleFunc("POST /moderation/events/{eventID}", write(c.Moderation.ModerateEvent))
	mux.HandleFunc("POST /reports", write(c.Moderation.CreateReport))
	mux.HandleFunc("POST /messages", write(c.Messages.Send))

	// Onboarding
	mux.HandleFunc("GET /onboarding/draft", auth(c.Onboarding.GetDraft))
	mux.HandleFunc("PATCH /onboarding/draft", auth(c.Onboarding.PatchDraft))
	mux.HandleFunc("DELETE /onboarding/draft", auth(c.Onboarding.DeleteDraft))

	// Operations
	mux.HandleFunc("GET /health", healthHandler(cfg.DB))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.Metrics(handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	return handler
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "database unreachable")
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, controllers.StatusResponse{Status: "ok"})
	}
}
