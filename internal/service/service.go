// Package service implements the playlist and video operations. Every
// operation validates its identifiers before touching the store and returns
// an *apperr.Error describing any failure.
package service

import (
	"context"
	"errors"

	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/database"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/events"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

// PlaylistStore persists playlist documents
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, p *models.Playlist) error
	FindPlaylistByID(ctx context.Context, id string) (*models.Playlist, error)
	FindPlaylistsByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error)
	SavePlaylist(ctx context.Context, p *models.Playlist) error
	DeletePlaylist(ctx context.Context, id string) error
}

// VideoStore persists video documents
type VideoStore interface {
	CreateVideo(ctx context.Context, v *models.Video) error
	FindVideoByID(ctx context.Context, id string) (*models.Video, error)
	ListVideos(ctx context.Context, q models.VideoQuery) ([]*models.Video, error)
	SaveVideo(ctx context.Context, v *models.Video) error
	DeleteVideo(ctx context.Context, id string) error
}

// MediaUploader hands local files to the media host
type MediaUploader interface {
	Upload(ctx context.Context, localPath string) (*models.MediaAsset, error)
	Delete(ctx context.Context, publicID string) error
}

// EventPublisher announces state changes
type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event) error
}

const (
	entityPlaylist = "playlist"
	entityVideo    = "video"
)

// observe counts the outcome of an entity operation
func observe(entity, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = apperr.From(err).Kind.String()
	}
	metrics.RecordEntityOperation(entity, operation, outcome)
}

// storeFailure logs the internal cause and hides it from the caller
func storeFailure(logger *logging.Logger, message string, err error) error {
	logger.ErrorWithErr(message, err)
	return apperr.Store(message, err)
}

// lookupErr maps a find failure to NotFound or a store failure
func lookupErr(logger *logging.Logger, notFound, failure string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return storeFailure(logger, failure, err)
}

// requireOwner rejects mutations by anyone other than the owner
func requireOwner(principal *models.User, ownerID, message string) error {
	if principal == nil {
		return apperr.New(apperr.KindUnauthenticated, "Unauthorized request")
	}
	if principal.ID != ownerID {
		return apperr.Forbidden(message)
	}
	return nil
}
