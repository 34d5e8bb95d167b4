package models

import "time"

// PostDB represents a blog post record in the database.
type PostDB struct {
	ID        int64     `json:"id" db:"id"`                 // Primary key
	Title     string    `json:"title" db:"title"`           // Post title
	Slug      string    `json:"slug" db:"slug"`             // URL-safe slug within the author's namespace
	Content   string    `json:"content" db:"content"`       // Post body
	AuthorID  int64     `json:"author_id" db:"author_id"`   // users.id of the author
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Creation timestamp
}
