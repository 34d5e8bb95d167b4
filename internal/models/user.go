package models

import "time"

// Access levels for users.
const (
	AccessLevelUser  = "user"
	AccessLevelAdmin = "admin"
)

// UserDB represents a user record in the database.
type UserDB struct {
	ID           int64     `json:"id" db:"id"`                     // Primary key
	Name         string    `json:"name" db:"name"`                 // Display name
	Username     string    `json:"username" db:"username"`         // Unique username
	Email        string    `json:"email" db:"email"`               // Unique email
	PasswordHash string    `json:"-" db:"password_hash"`           // bcrypt hash, never serialized
	About        string    `json:"about" db:"about"`               // Free-text biography
	ProfilePic   *string   `json:"profile_pic" db:"profile_pic"`   // Avatar object key, nullable
	AccessLevel  string    `json:"access_level" db:"access_level"` // "user" or "admin"
	CreatedAt    time.Time `json:"created_at" db:"created_at"`     // Creation timestamp
}

// IsAdmin reports whether the user holds the admin access level.
func (u *UserDB) IsAdmin() bool {
	return u.AccessLevel == AccessLevelAdmin
}

// UserWithPostCount is a users row joined with the number of posts the
// user authored. Used by the admin listing.
type UserWithPostCount struct {
	UserDB
	PostCount int64 `json:"post_count" db:"post_count"`
}
