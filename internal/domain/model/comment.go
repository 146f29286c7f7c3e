package model

import "time"

// Comment is a single entry in a comment thread.
type Comment struct {
	ID              int
	Content         string
	Author          Identity
	PublishedDate   time.Time
	LastUpdatedDate time.Time
	IsDeleted       bool
	Type            CommentType
}
