package models

import (
	"time"
)

// Video represents an uploaded video and its media assets
type Video struct {
	ID                string    `json:"_id" db:"id"`
	Title             string    `json:"title" db:"title"`
	Description       string    `json:"description" db:"description"`
	Thumbnail         string    `json:"thumbnail" db:"thumbnail"`
	ThumbnailPublicID string    `json:"thumbnailPublicId,omitempty" db:"thumbnail_public_id"`
	VideoFile         string    `json:"videoFile" db:"video_file"`
	PublicID          string    `json:"publicId" db:"public_id"`
	Owner             string    `json:"owner" db:"owner_id"`
	IsPublished       bool      `json:"isPublished" db:"is_published"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// MediaAsset is the result of handing a local file to the media host
type MediaAsset struct {
	SecureURL string `json:"secureUrl"`
	PublicID  string `json:"publicId"`
}

// VideoSortFields maps the sortBy values accepted by the listing endpoint to
// store columns.
var VideoSortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"isPublished": "is_published",
}

// VideoQuery describes a paginated, optionally filtered and sorted listing
type VideoQuery struct {
	Search    string
	OwnerID   string
	SortField string // store column, empty for natural order
	SortDesc  bool
	Limit     int
	Skip      int
}
