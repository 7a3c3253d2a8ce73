package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/events"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/objectid"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

const (
	msgInvalidVideoID = "Invalid video ID"
	msgVideoNotFound  = "Video not found"
	msgVideoForbidden = "You are not allowed to modify this video"
	msgServerError    = "Server Error"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Videos implements the video operations
type Videos struct {
	store     VideoStore
	uploader  MediaUploader
	publisher EventPublisher
	logger    *logging.Logger
}

// NewVideos creates the video service. A nil publisher drops events.
func NewVideos(store VideoStore, uploader MediaUploader, publisher EventPublisher, logger *logging.Logger) *Videos {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Videos{
		store:     store,
		uploader:  uploader,
		publisher: publisher,
		logger:    logger,
	}
}

// ListParams holds the raw listing query parameters
type ListParams struct {
	Page     string
	Limit    string
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

// VideoPage is one page of a video listing
type VideoPage struct {
	Videos []*models.Video `json:"videos"`
	Count  int             `json:"count"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// PublishInput describes a freshly uploaded video. Paths point at local
// temporary files; ThumbnailPath is optional.
type PublishInput struct {
	Title         string
	Description   string
	VideoPath     string
	VideoSize     int64
	ThumbnailPath string
}

// VideoUpdate carries the fields a caller wants to change. Nil fields and an
// empty ThumbnailPath are left untouched.
type VideoUpdate struct {
	Title         *string
	Description   *string
	ThumbnailPath string
}

// List returns one page of videos
func (s *Videos) List(ctx context.Context, params ListParams) (page *VideoPage, err error) {
	defer func() { observe(entityVideo, "list", err) }()

	q, pageNum, err := buildQuery(params)
	if err != nil {
		return nil, err
	}

	videos, err := s.store.ListVideos(ctx, q)
	if err != nil {
		return nil, storeFailure(s.logger, msgServerError, err)
	}
	if videos == nil {
		videos = []*models.Video{}
	}

	return &VideoPage{
		Videos: videos,
		Count:  len(videos),
		Page:   pageNum,
		Limit:  q.Limit,
	}, nil
}

func buildQuery(params ListParams) (models.VideoQuery, int, error) {
	page, err := positiveInt(params.Page, DefaultPage)
	if err != nil {
		return models.VideoQuery{}, 0, apperr.BadRequest("page must be a positive integer")
	}
	limit, err := positiveInt(params.Limit, DefaultLimit)
	if err != nil {
		return models.VideoQuery{}, 0, apperr.BadRequest("limit must be a positive integer")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page-1 > math.MaxInt/limit {
		return models.VideoQuery{}, 0, apperr.BadRequest("page is out of range")
	}

	q := models.VideoQuery{
		Search: strings.TrimSpace(params.Query),
		Limit:  limit,
		Skip:   (page - 1) * limit,
	}

	if params.SortBy != "" {
		column, ok := models.VideoSortFields[params.SortBy]
		if !ok {
			return models.VideoQuery{}, 0, apperr.BadRequest("Invalid sortBy field")
		}
		q.SortField = column
		q.SortDesc = params.SortType != "asc"
	}

	if params.UserID != "" {
		if !objectid.IsValid(params.UserID) {
			return models.VideoQuery{}, 0, apperr.BadRequest("Invalid userId")
		}
		q.OwnerID = params.UserID
	}

	return q, page, nil
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// Publish uploads the media files and stores a new, unpublished video
func (s *Videos) Publish(ctx context.Context, principal *models.User, in PublishInput) (video *models.Video, err error) {
	defer func() { observe(entityVideo, "publish", err) }()

	if principal == nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "Unauthorized request")
	}
	if in.VideoPath == "" {
		return nil, apperr.BadRequest("Please upload a video file")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.BadRequest("Title is required")
	}

	logger := s.logger.WithUserID(principal.ID)

	media, err := s.uploader.Upload(ctx, in.VideoPath)
	if err != nil {
		return nil, storeFailure(logger, "Failed to upload video file", err)
	}
	uploaded := []string{media.PublicID}

	video = &models.Video{
		ID:          objectid.New(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		VideoFile:   media.SecureURL,
		PublicID:    media.PublicID,
		Owner:       principal.ID,
		IsPublished: false,
	}

	if in.ThumbnailPath != "" {
		thumb, err := s.uploader.Upload(ctx, in.ThumbnailPath)
		if err != nil {
			s.discard(ctx, uploaded)
			return nil, storeFailure(logger, "Failed to upload thumbnail", err)
		}
		uploaded = append(uploaded, thumb.PublicID)
		video.Thumbnail = thumb.SecureURL
		video.ThumbnailPublicID = thumb.PublicID
	}

	if err := s.store.CreateVideo(ctx, video); err != nil {
		s.discard(ctx, uploaded)
		return nil, storeFailure(logger, msgServerError, err)
	}

	metrics.RecordVideoUpload(in.VideoSize)
	s.publish(ctx, events.VideoCreated, video, principal.ID)

	return video, nil
}

// Get returns a single video
func (s *Videos) Get(ctx context.Context, videoID string) (video *models.Video, err error) {
	defer func() { observe(entityVideo, "get", err) }()

	if !objectid.IsValid(videoID) {
		return nil, apperr.BadRequest(msgInvalidVideoID)
	}

	return s.load(ctx, videoID)
}

// Update changes the title, description or thumbnail of a video
func (s *Videos) Update(ctx context.Context, principal *models.User, videoID string, update VideoUpdate) (video *models.Video, err error) {
	defer func() { observe(entityVideo, "update", err) }()

	if !objectid.IsValid(videoID) {
		return nil, apperr.BadRequest(msgInvalidVideoID)
	}
	if update.Title == nil && update.Description == nil && update.ThumbnailPath == "" {
		return nil, apperr.BadRequest("Please provide title, description or thumbnail")
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, apperr.BadRequest("Title cannot be empty")
	}

	video, err = s.load(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(principal, video.Owner, msgVideoForbidden); err != nil {
		return nil, err
	}

	if update.Title != nil {
		video.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		video.Description = strings.TrimSpace(*update.Description)
	}

	var oldThumbnail string
	if update.ThumbnailPath != "" {
		thumb, err := s.uploader.Upload(ctx, update.ThumbnailPath)
		if err != nil {
			return nil, storeFailure(s.logger.WithVideoID(videoID), "Failed to upload thumbnail", err)
		}
		oldThumbnail = video.ThumbnailPublicID
		video.Thumbnail = thumb.SecureURL
		video.ThumbnailPublicID = thumb.PublicID
	}

	if err := s.store.SaveVideo(ctx, video); err != nil {
		if update.ThumbnailPath != "" {
			s.discard(ctx, []string{video.ThumbnailPublicID})
		}
		return nil, lookupErr(s.logger.WithVideoID(videoID), msgVideoNotFound, msgServerError, err)
	}

	if oldThumbnail != "" {
		s.discard(ctx, []string{oldThumbnail})
	}

	return video, nil
}

// Delete removes a video and, best effort, its media assets. Playlists that
// reference the video keep the reference.
func (s *Videos) Delete(ctx context.Context, principal *models.User, videoID string) (err error) {
	defer func() { observe(entityVideo, "delete", err) }()

	if !objectid.IsValid(videoID) {
		return apperr.BadRequest(msgInvalidVideoID)
	}

	video, err := s.load(ctx, videoID)
	if err != nil {
		return err
	}
	if err := requireOwner(principal, video.Owner, msgVideoForbidden); err != nil {
		return err
	}

	if err := s.store.DeleteVideo(ctx, videoID); err != nil {
		return lookupErr(s.logger.WithVideoID(videoID), msgVideoNotFound, msgServerError, err)
	}

	s.discard(ctx, []string{video.PublicID, video.ThumbnailPublicID})
	s.publish(ctx, events.VideoDeleted, video, principal.ID)

	return nil
}

// TogglePublish flips the published flag
func (s *Videos) TogglePublish(ctx context.Context, principal *models.User, videoID string) (video *models.Video, err error) {
	defer func() { observe(entityVideo, "toggle_publish", err) }()

	if !objectid.IsValid(videoID) {
		return nil, apperr.BadRequest(msgInvalidVideoID)
	}

	video, err = s.load(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(principal, video.Owner, msgVideoForbidden); err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.store.SaveVideo(ctx, video); err != nil {
		return nil, lookupErr(s.logger.WithVideoID(videoID), msgVideoNotFound, msgServerError, err)
	}

	eventType := events.VideoUnpublished
	if video.IsPublished {
		eventType = events.VideoPublished
	}
	s.publish(ctx, eventType, video, principal.ID)

	return video, nil
}

func (s *Videos) load(ctx context.Context, videoID string) (*models.Video, error) {
	video, err := s.store.FindVideoByID(ctx, videoID)
	if err != nil {
		return nil, lookupErr(s.logger.WithVideoID(videoID), msgVideoNotFound, msgServerError, err)
	}
	return video, nil
}

// discard deletes uploaded assets, logging failures
func (s *Videos) discard(ctx context.Context, publicIDs []string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, id); err != nil {
			s.logger.WithError(err).WithField("public_id", id).Warn("failed to delete media asset")
		}
	}
}

func (s *Videos) publish(ctx context.Context, eventType string, video *models.Video, actorID string) {
	evt := events.Event{
		Type:       eventType,
		EntityID:   video.ID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Payload:    video,
	}

	err := s.publisher.Publish(ctx, evt)
	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordEventPublished(eventType, status)
	s.logger.LogEvent(eventType, video.ID, err)
}
