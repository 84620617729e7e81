package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/tourbook/api/internal/config"
	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/handler"
	"github.com/forgo/tourbook/api/internal/middleware"
	"github.com/forgo/tourbook/api/internal/repository"
	"github.com/forgo/tourbook/api/internal/service"
	"github.com/forgo/tourbook/api/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.ApplySchema(ctx, db); err != nil {
		slog.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tourRepo := repository.NewTourRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Initialize services
	credentials := service.NewCredentialService(service.CredentialServiceConfig{
		Hasher: service.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens: service.NewResetTokenIssuer(cfg.Auth.ResetTokenTTL),
		Store:  userRepo,
	})
	mailer := service.NewLogMailer(service.LogMailerConfig{
		Logger:      logger,
		RevealLinks: cfg.IsDevelopment(),
	})
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:    userRepo,
		Credentials: credentials,
		Tokens:      jwtService,
		Mailer:      mailer,
		Logger:      logger,
	})
	ratings := service.NewRatingRecalculator(service.RatingRecalculatorConfig{
		Reviews: reviewRepo,
		Tours:   tourRepo,
		Logger:  logger,
	})
	reviewService := service.NewReviewService(service.ReviewServiceConfig{
		Repo:   reviewRepo,
		Tours:  tourRepo,
		Hooks:  []service.ReviewHook{ratings},
		Logger: logger,
	})

	// Initialize handlers
	errs := handler.NewErrorResponder(handler.ErrorResponderConfig{
		Verbose: cfg.IsDevelopment(),
		Logger:  logger,
	})
	authHandler := handler.NewAuthHandler(handler.AuthHandlerConfig{
		Auth:          authService,
		Errors:        errs,
		CookieTTL:     cfg.CookieTTL(),
		SecureCookies: cfg.IsProduction(),
	})
	reviewHandler := handler.NewReviewHandler(reviewService, errs)

	protect := middleware.Protect(authService, errs)

	// Setup routes
	mux := http.NewServeMux()
	authHandler.RegisterRoutes(mux, protect)
	reviewHandler.RegisterRoutes(mux, protect)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", errs.NotFound)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery(errs),
		middleware.BodyLimit(cfg.Server.MaxBodyBytes),
		middleware.Metrics,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
