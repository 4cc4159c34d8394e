// @title DanceHub API
// @version 1.0
// @description Connections, syncs, trips, events, references and moderation for the DanceHub dancer network.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
package main

//go:generate swag init -g cmd/api/main.go -o docs --dir ../../

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"dancehub/config"
	_ "dancehub/docs"
	"dancehub/internal/adapters/auth"
	"dancehub/internal/adapters/email"
	"dancehub/internal/cache"
	httpDelivery "dancehub/internal/delivery/http"
	"dancehub/internal/delivery/http/controllers"
	"dancehub/internal/delivery/http/middleware"
	"dancehub/internal/repository/postgres"
	"dancehub/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userDB, err := openDB(cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer userDB.Close()

	var serviceDB *sql.DB
	if cfg.ServiceDBUrl != "" {
		if serviceDB, err = openDB(cfg.ServiceDBUrl); err != nil {
			logger.Error("failed to connect to service database", "error", err)
			os.Exit(1)
		}
		defer serviceDB.Close()
	} else {
		logger.Warn("SERVICE_DATABASE_URL not set, notifications and contact lookups are disabled")
	}
	// Direct reads filter by the caller themselves and run on the privileged pool when there is one.
	readDB := userDB
	if serviceDB != nil {
		readDB = serviceDB
	}

	redisClient := cache.Connect(cfg.RedisURL, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
			Endpoint:        cfg.SESEndpoint,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		logger.Error("failed to parse email templates", "error", err)
		os.Exit(1)
	}

	// Repositories
	connectionRepo := postgres.NewConnectionRepository(readDB, logger)
	syncRepo := postgres.NewSyncRepository(readDB, logger)
	tripRepo := postgres.NewTripRepository(readDB, logger)
	eventRepo := postgres.NewEventRepository(readDB, logger)
	referenceRepo := postgres.NewReferenceRepository(readDB, logger)
	profileRepo := postgres.NewProfileRepository(readDB, logger)
	rpc := postgres.NewRPCCaller(userDB, serviceDB, logger)

	// Services
	timeout := cfg.RequestTimeout
	candidates := cache.NewCandidateCache(redisClient)
	notifier := services.NewNotifier(rpc, profileRepo, services.NewEmailService(mailer, renderer, logger), logger, timeout)
	connectionService := services.NewConnectionService(connectionRepo, rpc, notifier, candidates, logger, timeout)
	syncService := services.NewSyncService(rpc, notifier, candidates, logger, timeout)
	tripService := services.NewTripService(rpc, notifier, candidates, logger, timeout)
	eventService := services.NewEventService(rpc, timeout)
	discoveryService := services.NewDiscoveryService(eventService, profileRepo, timeout)
	referenceService := services.NewReferenceService(services.ReferenceSources{
		References:  referenceRepo,
		Connections: connectionRepo,
		Syncs:       syncRepo,
		Trips:       tripRepo,
		Events:      eventRepo,
	}, candidates, logger, timeout)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx, time.Minute)

	router := httpDelivery.NewRouter(httpDelivery.Controllers{
		Connections: controllers.NewConnectionController(logger, connectionService),
		Syncs:       controllers.NewSyncController(logger, syncService, tripService),
		Events:      controllers.NewEventController(logger, eventService, discoveryService),
		Profiles:    controllers.NewProfileController(logger, discoveryService),
		References:  controllers.NewReferenceController(logger, referenceService),
		Moderation:  controllers.NewModerationController(logger, services.NewModerationService(rpc, timeout)),
		Messages:    controllers.NewMessageController(logger, services.NewMessageService(rpc, timeout)),
		Onboarding:  controllers.NewOnboardingController(logger, services.NewOnboardingService(cache.NewDraftStore(redisClient), timeout)),
	}, httpDelivery.RouterConfig{
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		Limiter:        limiter,
		DB:             userDB,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server shutdown complete")
}

func openDB(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
