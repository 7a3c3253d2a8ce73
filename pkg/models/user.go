package models

import (
	"time"
)

// User represents a registered account. It is the principal attached to a
// request by the authentication middleware.
type User struct {
	ID           string    `json:"_id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"fullName" db:"full_name"`
	Avatar       string    `json:"avatar" db:"avatar"`
	CoverImage   string    `json:"coverImage,omitempty" db:"cover_image"`
	PasswordHash string    `json:"-" db:"password"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
