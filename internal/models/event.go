package models

// ContentEvent is the payload published to Kafka after a successful post
// mutation.
type ContentEvent struct {
	Event     string `json:"event"`     // post_created, post_updated, post_deleted
	PostID    int64  `json:"post_id"`   // Affected post
	AuthorID  int64  `json:"author_id"` // Post author
	Timestamp int64  `json:"timestamp"` // Unix seconds
}
