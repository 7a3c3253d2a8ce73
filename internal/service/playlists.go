package service

import (
	"context"
	"strings"

	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/objectid"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

const (
	msgInvalidPlaylistID = "Invalid playlist ID"
	msgPlaylistNotFound  = "Playlist not found"
	msgPlaylistForbidden = "You are not allowed to modify this playlist"
)

// Playlists implements the playlist operations
type Playlists struct {
	store  PlaylistStore
	videos VideoStore
	logger *logging.Logger
}

// NewPlaylists creates the playlist service. videos is used to check that a
// video exists before it is added to a playlist.
func NewPlaylists(store PlaylistStore, videos VideoStore, logger *logging.Logger) *Playlists {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Playlists{store: store, videos: videos, logger: logger}
}

// PlaylistUpdate carries the fields a caller wants to change. Nil fields are
// left untouched.
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

// Create stores a new, empty playlist owned by principal
func (s *Playlists) Create(ctx context.Context, principal *models.User, name, description string) (playlist *models.Playlist, err error) {
	defer func() { observe(entityPlaylist, "create", err) }()

	if principal == nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "Unauthorized request")
	}

	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" && description == "" {
		return nil, apperr.BadRequest("Please provide name and description")
	}

	playlist = &models.Playlist{
		ID:          objectid.New(),
		Name:        name,
		Description: description,
		Owner:       principal.ID,
		Videos:      []string{},
	}
	if err := s.store.CreatePlaylist(ctx, playlist); err != nil {
		return nil, storeFailure(s.logger.WithUserID(principal.ID), "Failed to create the playlist", err)
	}

	return playlist, nil
}

// ListByOwner returns every playlist owned by userID
func (s *Playlists) ListByOwner(ctx context.Context, userID string) (playlists []*models.Playlist, err error) {
	defer func() { observe(entityPlaylist, "list", err) }()

	if !objectid.IsValid(userID) {
		return nil, apperr.BadRequest("Invalid userId")
	}

	playlists, err = s.store.FindPlaylistsByOwner(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.logger.WithUserID(userID), "Failed to fetch user playlists", err)
	}
	if len(playlists) == 0 {
		return nil, apperr.NotFound("User playlists not found")
	}

	return playlists, nil
}

// Get returns a single playlist
func (s *Playlists) Get(ctx context.Context, playlistID string) (playlist *models.Playlist, err error) {
	defer func() { observe(entityPlaylist, "get", err) }()

	if !objectid.IsValid(playlistID) {
		return nil, apperr.BadRequest(msgInvalidPlaylistID)
	}

	return s.load(ctx, playlistID)
}

// Update renames a playlist or changes its description
func (s *Playlists) Update(ctx context.Context, principal *models.User, playlistID string, update PlaylistUpdate) (playlist *models.Playlist, err error) {
	defer func() { observe(entityPlaylist, "update", err) }()

	if !objectid.IsValid(playlistID) {
		return nil, apperr.BadRequest(msgInvalidPlaylistID)
	}
	if update.Name == nil && update.Description == nil {
		return nil, apperr.BadRequest("Please provide name or description")
	}

	playlist, err = s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(principal, playlist.Owner, msgPlaylistForbidden); err != nil {
		return nil, err
	}

	if update.Name != nil {
		playlist.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		playlist.Description = strings.TrimSpace(*update.Description)
	}

	if err := s.save(ctx, playlist, "Failed to update the playlist"); err != nil {
		return nil, err
	}

	return playlist, nil
}

// Delete removes a playlist
func (s *Playlists) Delete(ctx context.Context, principal *models.User, playlistID string) (err error) {
	defer func() { observe(entityPlaylist, "delete", err) }()

	if !objectid.IsValid(playlistID) {
		return apperr.BadRequest(msgInvalidPlaylistID)
	}

	playlist, err := s.load(ctx, playlistID)
	if err != nil {
		return err
	}
	if err := requireOwner(principal, playlist.Owner, msgPlaylistForbidden); err != nil {
		return err
	}

	if err := s.store.DeletePlaylist(ctx, playlistID); err != nil {
		return lookupErr(s.logger.WithPlaylistID(playlistID), msgPlaylistNotFound, "Failed to delete the playlist", err)
	}

	return nil
}

// AddVideo appends videoID to the playlist. A video may appear only once.
func (s *Playlists) AddVideo(ctx context.Context, principal *models.User, playlistID, videoID string) (playlist *models.Playlist, err error) {
	defer func() { observe(entityPlaylist, "add_video", err) }()

	if err := validateMembershipIDs(playlistID, videoID); err != nil {
		return nil, err
	}

	playlist, err = s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(principal, playlist.Owner, msgPlaylistForbidden); err != nil {
		return nil, err
	}
	if playlist.HasVideo(videoID) {
		return nil, apperr.New(apperr.KindDuplicateMember, "Video already exists in the playlist")
	}

	if _, err := s.videos.FindVideoByID(ctx, videoID); err != nil {
		return nil, lookupErr(s.logger.WithVideoID(videoID), msgVideoNotFound, "Failed to add video to the playlist", err)
	}

	playlist.AddVideo(videoID)
	if err := s.save(ctx, playlist, "Failed to add video to the playlist"); err != nil {
		return nil, err
	}

	return playlist, nil
}

// RemoveVideo drops videoID from the playlist
func (s *Playlists) RemoveVideo(ctx context.Context, principal *models.User, playlistID, videoID string) (playlist *models.Playlist, err error) {
	defer func() { observe(entityPlaylist, "remove_video", err) }()

	if err := validateMembershipIDs(playlistID, videoID); err != nil {
		return nil, err
	}

	playlist, err = s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(principal, playlist.Owner, msgPlaylistForbidden); err != nil {
		return nil, err
	}
	if !playlist.RemoveVideo(videoID) {
		return nil, apperr.New(apperr.KindNotAMember, "Video not found in the playlist")
	}

	if err := s.save(ctx, playlist, "Failed to remove video from the playlist"); err != nil {
		return nil, err
	}

	return playlist, nil
}

func validateMembershipIDs(playlistID, videoID string) error {
	if !objectid.IsValid(playlistID) {
		return apperr.BadRequest(msgInvalidPlaylistID)
	}
	if !objectid.IsValid(videoID) {
		return apperr.BadRequest(msgInvalidVideoID)
	}
	return nil
}

func (s *Playlists) load(ctx context.Context, playlistID string) (*models.Playlist, error) {
	playlist, err := s.store.FindPlaylistByID(ctx, playlistID)
	if err != nil {
		return nil, lookupErr(s.logger.WithPlaylistID(playlistID), msgPlaylistNotFound, "Failed to fetch the playlist", err)
	}
	return playlist, nil
}

func (s *Playlists) save(ctx context.Context, playlist *models.Playlist, failure string) error {
	if err := s.store.SavePlaylist(ctx, playlist); err != nil {
		return lookupErr(s.logger.WithPlaylistID(playlist.ID), msgPlaylistNotFound, failure, err)
	}
	return nil
}
