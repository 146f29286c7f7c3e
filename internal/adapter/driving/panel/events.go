// Package panel is the driving adapter for the interactive pull-request
// panel. A webview client connects over a websocket, sends tagged
// interaction events, and receives tagged responses carrying view models.
package panel

import "encoding/json"

// Event is the tagged envelope for every message in both directions. The
// payload schema is determined by Type alone.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event types. Each carries the payload struct of the same name.
const (
	EventFetchDiff           = "fetchDiff"
	EventCollapseFile        = "collapseFile"
	EventVote                = "vote"
	EventComplete            = "complete"
	EventFetchComments       = "fetchComments"
	EventCreateComment       = "createComment"
	EventReplyComment        = "replyComment"
	EventUpdateCommentStatus = "updateCommentStatus"
)

// Outbound event types.
const (
	EventPanelState    = "panelState"
	EventDiff          = "diff"
	EventFileState     = "fileState"
	EventPullRequest   = "pullRequest"
	EventComments      = "comments"
	EventThreadCreated = "threadCreated"
	EventThreadUpdated = "threadUpdated"
	EventCommentAdded  = "commentAdded"
	EventError         = "error"
)

// FetchDiffPayload requests the diff for one changed file by path.
type FetchDiffPayload struct {
	Path string `json:"path"`
}

// CollapseFilePayload collapses an expanded file, discarding any fetch in
// flight for it.
type CollapseFilePayload struct {
	Path string `json:"path"`
}

// VotePayload casts the current user's vote.
type VotePayload struct {
	Vote int `json:"vote"`
}

// CompletePayload merges the pull request.
type CompletePayload struct {
	MergeStrategy      string `json:"mergeStrategy"`
	DeleteSourceBranch bool   `json:"deleteSourceBranch"`
	MergeCommitMessage string `json:"mergeCommitMessage,omitempty"`
}

// CreateCommentPayload opens a new thread. Path, Line, and Side are omitted
// for a pull-request-level comment.
type CreateCommentPayload struct {
	Content string `json:"content"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Side    string `json:"side,omitempty"`
}

// ReplyCommentPayload appends a comment to an existing thread.
type ReplyCommentPayload struct {
	ThreadID int    `json:"threadId"`
	Content  string `json:"content"`
}

// UpdateCommentStatusPayload changes a thread's status.
type UpdateCommentStatusPayload struct {
	ThreadID int    `json:"threadId"`
	Status   string `json:"status"`
}

// ErrorPayload reports a failed event. RequestType echoes the inbound event
// type so the client can route the failure; Path is set for per-file
// failures.
type ErrorPayload struct {
	RequestType string `json:"requestType"`
	Path        string `json:"path,omitempty"`
	Message     string `json:"message"`
}

// FileStatePayload reports a file's loading-state transition.
type FileStatePayload struct {
	Path  string `json:"path"`
	State string `json:"state"`
}

func mustEvent(eventType string, payload any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload types are plain structs; marshal cannot fail at runtime.
		panic(err)
	}
	return Event{Type: eventType, Payload: data}
}
