package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

const videoColumns = `id, title, description, thumbnail, thumbnail_public_id, video_file, public_id,
		       owner_id, is_published, created_at, updated_at`

// searchVector must match the expression of idx_videos_search
const searchVector = `to_tsvector('english', title || ' ' || description)`

func scanVideo(row pgx.Row) (*models.Video, error) {
	var v models.Video
	if err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.Thumbnail, &v.ThumbnailPublicID, &v.VideoFile,
		&v.PublicID, &v.Owner, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVideo inserts a new video document
func (r *Repository) CreateVideo(ctx context.Context, v *models.Video) (err error) {
	ctx, done := r.track(ctx, "create_video")
	defer func() { done(err) }()

	query := `
		INSERT INTO videos (id, title, description, thumbnail, thumbnail_public_id, video_file,
		                    public_id, owner_id, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		v.ID, v.Title, v.Description, v.Thumbnail, v.ThumbnailPublicID, v.VideoFile,
		v.PublicID, v.Owner, v.IsPublished,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// FindVideoByID retrieves a video by ID
func (r *Repository) FindVideoByID(ctx context.Context, id string) (video *models.Video, err error) {
	ctx, done := r.track(ctx, "find_video")
	defer func() { done(err) }()

	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	video, err = scanVideo(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return video, nil
}

// buildVideoListQuery renders the listing statement. SortField must be one of
// models.VideoSortFields; anything else is rejected rather than interpolated.
func buildVideoListQuery(q models.VideoQuery) (string, []any, error) {
	var (
		where []string
		args  []any
	)

	if q.Search != "" {
		args = append(args, q.Search)
		where = append(where, fmt.Sprintf("%s @@ plainto_tsquery('english', $%d)", searchVector, len(args)))
	}
	if q.OwnerID != "" {
		args = append(args, q.OwnerID)
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + videoColumns + ` FROM videos`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if q.SortField == "" {
		// natural order: ids are time-prefixed
		sb.WriteString(" ORDER BY id")
	} else {
		allowed := false
		for _, column := range models.VideoSortFields {
			if column == q.SortField {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", nil, fmt.Errorf("unsupported sort field %q", q.SortField)
		}
		direction := "ASC"
		if q.SortDesc {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s, id", q.SortField, direction)
	}

	args = append(args, q.Limit, q.Skip)
	fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return sb.String(), args, nil
}

// ListVideos retrieves one page of videos matching q
func (r *Repository) ListVideos(ctx context.Context, q models.VideoQuery) (videos []*models.Video, err error) {
	ctx, done := r.track(ctx, "list_videos")
	defer func() { done(err) }()

	query, args, err := buildVideoListQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos = []*models.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	return videos, nil
}

// SaveVideo writes back the mutable fields of a video document
func (r *Repository) SaveVideo(ctx context.Context, v *models.Video) (err error) {
	ctx, done := r.track(ctx, "save_video")
	defer func() { done(err) }()

	query := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail = $4, thumbnail_public_id = $5,
		    is_published = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRow(ctx, query,
		v.ID, v.Title, v.Description, v.Thumbnail, v.ThumbnailPublicID, v.IsPublished,
	).Scan(&v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}

	return nil
}

// DeleteVideo removes a video. Playlists referencing it are left untouched.
func (r *Repository) DeleteVideo(ctx context.Context, id string) (err error) {
	ctx, done := r.track(ctx, "delete_video")
	defer func() { done(err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
