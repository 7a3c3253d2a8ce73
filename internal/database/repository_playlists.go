package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

const playlistColumns = `id, name, description, owner_id, video_ids, created_at, updated_at`

func scanPlaylist(row pgx.Row) (*models.Playlist, error) {
	var p models.Playlist
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Owner, &p.Videos, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if p.Videos == nil {
		p.Videos = []string{}
	}
	return &p, nil
}

// CreatePlaylist inserts a new playlist document
func (r *Repository) CreatePlaylist(ctx context.Context, p *models.Playlist) (err error) {
	ctx, done := r.track(ctx, "create_playlist")
	defer func() { done(err) }()

	if p.Videos == nil {
		p.Videos = []string{}
	}

	query := `
		INSERT INTO playlists (id, name, description, owner_id, video_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Owner, p.Videos,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return nil
}

// FindPlaylistByID retrieves a playlist by ID
func (r *Repository) FindPlaylistByID(ctx context.Context, id string) (playlist *models.Playlist, err error) {
	ctx, done := r.track(ctx, "find_playlist")
	defer func() { done(err) }()

	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1`

	playlist, err = scanPlaylist(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	return playlist, nil
}

// FindPlaylistsByOwner retrieves every playlist owned by ownerID in
// insertion order
func (r *Repository) FindPlaylistsByOwner(ctx context.Context, ownerID string) (playlists []*models.Playlist, err error) {
	ctx, done := r.track(ctx, "find_playlists_by_owner")
	defer func() { done(err) }()

	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE owner_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	playlists = []*models.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	return playlists, nil
}

// SavePlaylist writes back the whole mutable part of a playlist document.
// The owner is never rewritten.
func (r *Repository) SavePlaylist(ctx context.Context, p *models.Playlist) (err error) {
	ctx, done := r.track(ctx, "save_playlist")
	defer func() { done(err) }()

	if p.Videos == nil {
		p.Videos = []string{}
	}

	query := `
		UPDATE playlists
		SET name = $2, description = $3, video_ids = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRow(ctx, query, p.ID, p.Name, p.Description, p.Videos).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to save playlist: %w", err)
	}

	return nil
}

// DeletePlaylist removes a playlist
func (r *Repository) DeletePlaylist(ctx context.Context, id string) (err error) {
	ctx, done := r.track(ctx, "delete_playlist")
	defer func() { done(err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
