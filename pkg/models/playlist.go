package models

import (
	"time"
)

// Playlist is an ordered, duplicate-free collection of video references
// owned by one user.
type Playlist struct {
	ID          string    `json:"_id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Owner       string    `json:"owner" db:"owner_id"`
	Videos      []string  `json:"videos" db:"video_ids"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// HasVideo reports whether videoID is already referenced by the playlist
func (p *Playlist) HasVideo(videoID string) bool {
	for _, id := range p.Videos {
		if id == videoID {
			return true
		}
	}
	return false
}

// AddVideo appends videoID unless it is already present.
// It returns false when the video was a member already.
func (p *Playlist) AddVideo(videoID string) bool {
	if p.HasVideo(videoID) {
		return false
	}
	p.Videos = append(p.Videos, videoID)
	return true
}

// RemoveVideo drops videoID from the playlist, keeping the order of the
// remaining references. It returns false when the video was not a member.
func (p *Playlist) RemoveVideo(videoID string) bool {
	for i, id := range p.Videos {
		if id == videoID {
			p.Videos = append(p.Videos[:i:i], p.Videos[i+1:]...)
			return true
		}
	}
	return false
}
