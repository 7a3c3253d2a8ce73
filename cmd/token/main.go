// Command token mints an access token for an existing user so operators can
// call the API without a login flow.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/therealutkarshpriyadarshi/vidshare/internal/config"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/database"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/middleware"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/objectid"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/token"
)

func main() {
	userID := flag.String("user", "", "ID of the user the token is issued for")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to auth.accessTokenTTL)")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewWithWriter(os.Stderr, logging.Config{Level: cfg.Logging.Level, Format: "console"})

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	if *ttl == 0 {
		*ttl = cfg.Auth.AccessTokenTTL
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	raw, err := issue(ctx, database.NewRepository(db.Pool, logger), token.NewManager(cfg.Auth.AccessTokenSecret), *userID, *ttl)
	if err != nil {
		logger.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(raw)
}

// issue signs a token for userID after checking the user exists
func issue(ctx context.Context, store middleware.PrincipalStore, manager *token.Manager, userID string, ttl time.Duration) (string, error) {
	if !objectid.IsValid(userID) {
		return "", fmt.Errorf("invalid user ID %q", userID)
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}

	user, err := store.FindPrincipalByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", fmt.Errorf("user %s not found", userID)
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	return manager.Issue(user.ID, user.Email, user.Username, ttl)
}
