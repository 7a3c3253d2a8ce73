package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/events"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

const (
	ownerID    = "65f1c0ffee0000000000a001"
	strangerID = "65f1c0ffee0000000000a002"
	playlistID = "65f1c0ffee0000000000b001"
	videoID    = "65f1c0ffee0000000000c001"
	badID      = "not-an-id"
	upperID    = "65F1C0FFEE0000000000B001"
)

var (
	owner    = &models.User{ID: ownerID, Username: "owner"}
	stranger = &models.User{ID: strangerID, Username: "stranger"}
)

type MockPlaylistStore struct {
	mock.Mock
}

func (m *MockPlaylistStore) CreatePlaylist(ctx context.Context, p *models.Playlist) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPlaylistStore) FindPlaylistByID(ctx context.Context, id string) (*models.Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockPlaylistStore) FindPlaylistsByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Playlist), args.Error(1)
}

func (m *MockPlaylistStore) SavePlaylist(ctx context.Context, p *models.Playlist) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPlaylistStore) DeletePlaylist(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVideoStore struct {
	mock.Mock
}

func (m *MockVideoStore) CreateVideo(ctx context.Context, v *models.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVideoStore) FindVideoByID(ctx context.Context, id string) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockVideoStore) ListVideos(ctx context.Context, q models.VideoQuery) ([]*models.Video, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Video), args.Error(1)
}

func (m *MockVideoStore) SaveVideo(ctx context.Context, v *models.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVideoStore) DeleteVideo(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, localPath string) (*models.MediaAsset, error) {
	args := m.Called(ctx, localPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaAsset), args.Error(1)
}

func (m *MockUploader) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt events.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
