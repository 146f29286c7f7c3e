package driven

import (
	"context"
	"errors"

	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// ErrNotConfigured is returned by operations that require a connected remote
// client when no credentials or connection settings are available.
var ErrNotConfigured = errors.New("remote client not configured")

// RemoteClient defines the driven port for the hosted code-collaboration
// service. Every call attaches the bearer credential and may fail with a
// network or remote error; implementations wrap failures with context but
// keep the underlying cause.
type RemoteClient interface {
	// Pull requests

	GetPullRequests(ctx context.Context, status model.PRStatus) ([]model.PullRequest, error)
	GetPullRequest(ctx context.Context, id int) (*model.PullRequest, error)
	CreatePullRequest(ctx context.Context, opts model.CreatePROptions) (*model.PullRequest, error)
	// VotePullRequest casts the current user's vote. The service keeps one
	// reviewer entry per identity; re-voting overwrites.
	VotePullRequest(ctx context.Context, id int, vote model.Vote) (*model.Reviewer, error)
	CompletePullRequest(ctx context.Context, id int, opts model.CompletionOptions) (*model.PullRequest, error)

	// File changes

	// GetChangedFiles diffs the pull request's two branch tips and returns
	// paths and change types only; no file content is fetched.
	GetChangedFiles(ctx context.Context, id int) (*model.ChangeList, error)
	// GetFileContent returns the whole content of path at the given branch.
	GetFileContent(ctx context.Context, path, branch string) (string, error)

	// Comment threads

	GetThreads(ctx context.Context, id int) ([]model.CommentThread, error)
	// CreateThread opens a new thread with a single comment. A nil anchor
	// creates a pull-request-level thread.
	CreateThread(ctx context.Context, id int, content string, anchor *model.ThreadAnchor) (*model.CommentThread, error)
	ReplyToThread(ctx context.Context, id, threadID int, content string) (*model.Comment, error)
	SetThreadStatus(ctx context.Context, id, threadID int, status model.ThreadStatus) (*model.CommentThread, error)

	// Pipelines and identity

	// GetPipelineRuns returns CI runs for the pull request's source branch,
	// newest first.
	GetPipelineRuns(ctx context.Context, pr *model.PullRequest) ([]model.PipelineRun, error)
	GetCurrentUser(ctx context.Context) (*model.Identity, error)
}
