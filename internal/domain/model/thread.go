package model

import "time"

// CommentThread is a discussion on a pull request, optionally anchored to a
// file and line range. Threads with a nil Context are pull-request-level
// ("general") discussions.
type CommentThread struct {
	ID            int
	Status        ThreadStatus
	Comments      []Comment
	Context       *ThreadContext
	IsDeleted     bool
	PublishedDate time.Time
}

// ThreadContext anchors a thread to a file path plus a line range on the
// left (base) and/or right (modified) side. A zero line means that side
// carries no range.
type ThreadContext struct {
	FilePath   string // Repository-relative, no leading slash.
	LeftStart  int
	LeftEnd    int
	RightStart int
	RightEnd   int
}

// AnchoredTo reports whether the thread is attributable to the given file:
// it has a context whose path matches and it is not deleted.
func (t CommentThread) AnchoredTo(path string) bool {
	return !t.IsDeleted && t.Context != nil && t.Context.FilePath == path
}

// IsGeneral reports whether the thread belongs in the general-comments list:
// no file anchor, not deleted, and at least one non-system comment. Pure
// vote-audit threads carry only system comments and are suppressed.
func (t CommentThread) IsGeneral() bool {
	if t.IsDeleted || t.Context != nil {
		return false
	}
	for _, c := range t.Comments {
		if c.Type != CommentTypeSystem {
			return true
		}
	}
	return false
}

// ThreadAnchor describes where a new thread should attach: a file path plus
// a single line on one side of the diff.
type ThreadAnchor struct {
	FilePath string
	Line     int
	Side     Side
}
