package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/forgo/tourbook/api/internal/config"
	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/repository"
	"github.com/forgo/tourbook/api/internal/service"
	"github.com/forgo/tourbook/api/pkg/jwt"
)

func main() {
	recompute := flag.Bool("recompute", false, "Recompute tour rating summaries from their reviews")
	tourID := flag.String("tour", "", "Tour record ID to recompute (e.g. tour:abc)")
	all := flag.Bool("all", false, "Recompute every tour")

	token := flag.Bool("token", false, "Print a signed admin access token")
	userID := flag.String("user", "user:admin", "User ID for the token")
	email := flag.String("email", "admin@tourbook.dev", "Email for the token")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	timeout := flag.Duration("timeout", 5*time.Minute, "Overall timeout")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch {
	case *recompute:
		if (*tourID == "") == !*all {
			fmt.Fprintln(os.Stderr, "Use exactly one of -tour or -all with -recompute")
			os.Exit(2)
		}
		if err := runRecompute(ctx, cfg, *tourID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *token:
		if err := printToken(cfg, *userID, *email, *outputJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// runRecompute rebuilds one tour's summary, or every tour's when tourID is empty
func runRecompute(ctx context.Context, cfg *config.Config, tourID string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	ratings := service.NewRatingRecalculator(service.RatingRecalculatorConfig{
		Reviews: repository.NewReviewRepository(db),
		Tours:   repository.NewTourRepository(db),
		Logger:  logger,
	})

	if tourID != "" {
		summary, err := ratings.Recompute(ctx, tourID)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d ratings, average %.1f\n", tourID, summary.Quantity, summary.Average)
		return nil
	}

	updated, err := ratings.RecomputeAll(ctx)
	fmt.Printf("Recomputed %d tours\n", updated)
	return err
}

// printToken signs an admin token with the configured secret
func printToken(cfg *config.Config, userID, email string, outputJSON bool) error {
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		return fmt.Errorf("create JWT service: %w", err)
	}

	signed, err := jwtService.Sign(jwt.Claims{
		UserID: userID,
		Email:  email,
		Role:   "admin",
	})
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"token":      signed,
			"token_type": "Bearer",
			"expires_in": int(jwtService.GetExpiration().Seconds()),
			"user_id":    userID,
			"email":      email,
			"role":       "admin",
		})
	}

	fmt.Println("Admin Token Generated")
	fmt.Println("=====================")
	fmt.Printf("User ID:  %s\n", userID)
	fmt.Printf("Email:    %s\n", email)
	fmt.Printf("Expires:  %s\n", time.Now().Add(jwtService.GetExpiration()).Format(time.RFC3339))
	fmt.Println()
	fmt.Println(signed)
	return nil
}
