package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/tracing"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

// Repository provides database operations
type Repository struct {
	db     Querier
	logger *logging.Logger
}

// NewRepository creates a new repository. A nil logger discards store logs.
func NewRepository(db Querier, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Repository{db: db, logger: logger}
}

// Health checks if the database is reachable
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// track opens a span for a store call and returns a function that records
// the outcome. Absence is a normal result, not an error.
func (r *Repository) track(ctx context.Context, operation string) (context.Context, func(error)) {
	span, ctx := tracing.StartDBSpan(ctx, operation)
	start := time.Now()

	return ctx, func(err error) {
		elapsed := time.Since(start)
		if errors.Is(err, ErrNotFound) {
			err = nil
		}

		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordDatabaseOperation(operation, status, elapsed.Seconds())
		r.logger.LogDatabaseOperation(operation, elapsed, err)
		tracing.FinishDBSpan(span, err)
	}
}

// Users

// principalColumns deliberately leaves out password and refresh_token
const principalColumns = `id, username, email, full_name, avatar, COALESCE(cover_image, ''), created_at, updated_at`

// FindPrincipalByID loads a user without its password hash or refresh token
func (r *Repository) FindPrincipalByID(ctx context.Context, id string) (user *models.User, err error) {
	ctx, done := r.track(ctx, "find_principal")
	defer func() { done(err) }()

	query := `SELECT ` + principalColumns + ` FROM users WHERE id = $1`

	var u models.User
	err = r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.CoverImage,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}
