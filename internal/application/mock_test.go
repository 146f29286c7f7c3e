package application

import (
	"context"
	"errors"

	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

var errNotStubbed = errors.New("mock method not stubbed")

// mockRemoteClient implements driven.RemoteClient with per-method function
// fields. Tests stub only what they exercise; unstubbed calls fail loudly.
type mockRemoteClient struct {
	getPullRequestsFn     func(ctx context.Context, status model.PRStatus) ([]model.PullRequest, error)
	getPullRequestFn      func(ctx context.Context, id int) (*model.PullRequest, error)
	createPullRequestFn   func(ctx context.Context, opts model.CreatePROptions) (*model.PullRequest, error)
	votePullRequestFn     func(ctx context.Context, id int, vote model.Vote) (*model.Reviewer, error)
	completePullRequestFn func(ctx context.Context, id int, opts model.CompletionOptions) (*model.PullRequest, error)
	getChangedFilesFn     func(ctx context.Context, id int) (*model.ChangeList, error)
	getFileContentFn      func(ctx context.Context, path, branch string) (string, error)
	getThreadsFn          func(ctx context.Context, id int) ([]model.CommentThread, error)
	createThreadFn        func(ctx context.Context, id int, content string, anchor *model.ThreadAnchor) (*model.CommentThread, error)
	replyToThreadFn       func(ctx context.Context, id, threadID int, content string) (*model.Comment, error)
	setThreadStatusFn     func(ctx context.Context, id, threadID int, status model.ThreadStatus) (*model.CommentThread, error)
	getPipelineRunsFn     func(ctx context.Context, pr *model.PullRequest) ([]model.PipelineRun, error)
	getCurrentUserFn      func(ctx context.Context) (*model.Identity, error)
}

var _ driven.RemoteClient = (*mockRemoteClient)(nil)

func (m *mockRemoteClient) GetPullRequests(ctx context.Context, status model.PRStatus) ([]model.PullRequest, error) {
	if m.getPullRequestsFn == nil {
		return nil, errNotStubbed
	}
	return m.getPullRequestsFn(ctx, status)
}

func (m *mockRemoteClient) GetPullRequest(ctx context.Context, id int) (*model.PullRequest, error) {
	if m.getPullRequestFn == nil {
		return nil, errNotStubbed
	}
	return m.getPullRequestFn(ctx, id)
}

func (m *mockRemoteClient) CreatePullRequest(ctx context.Context, opts model.CreatePROptions) (*model.PullRequest, error) {
	if m.createPullRequestFn == nil {
		return nil, errNotStubbed
	}
	return m.createPullRequestFn(ctx, opts)
}

func (m *mockRemoteClient) VotePullRequest(ctx context.Context, id int, vote model.Vote) (*model.Reviewer, error) {
	if m.votePullRequestFn == nil {
		return nil, errNotStubbed
	}
	return m.votePullRequestFn(ctx, id, vote)
}

func (m *mockRemoteClient) CompletePullRequest(ctx context.Context, id int, opts model.CompletionOptions) (*model.PullRequest, error) {
	if m.completePullRequestFn == nil {
		return nil, errNotStubbed
	}
	return m.completePullRequestFn(ctx, id, opts)
}

func (m *mockRemoteClient) GetChangedFiles(ctx context.Context, id int) (*model.ChangeList, error) {
	if m.getChangedFilesFn == nil {
		return nil, errNotStubbed
	}
	return m.getChangedFilesFn(ctx, id)
}

func (m *mockRemoteClient) GetFileContent(ctx context.Context, path, branch string) (string, error) {
	if m.getFileContentFn == nil {
		return "", errNotStubbed
	}
	return m.getFileContentFn(ctx, path, branch)
}

func (m *mockRemoteClient) GetThreads(ctx context.Context, id int) ([]model.CommentThread, error) {
	if m.getThreadsFn == nil {
		return nil, errNotStubbed
	}
	return m.getThreadsFn(ctx, id)
}

func (m *mockRemoteClient) CreateThread(ctx context.Context, id int, content string, anchor *model.ThreadAnchor) (*model.CommentThread, error) {
	if m.createThreadFn == nil {
		return nil, errNotStubbed
	}
	return m.createThreadFn(ctx, id, content, anchor)
}

func (m *mockRemoteClient) ReplyToThread(ctx context.Context, id, threadID int, content string) (*model.Comment, error) {
	if m.replyToThreadFn == nil {
		return nil, errNotStubbed
	}
	return m.replyToThreadFn(ctx, id, threadID, content)
}

func (m *mockRemoteClient) SetThreadStatus(ctx context.Context, id, threadID int, status model.ThreadStatus) (*model.CommentThread, error) {
	if m.setThreadStatusFn == nil {
		return nil, errNotStubbed
	}
	return m.setThreadStatusFn(ctx, id, threadID, status)
}

func (m *mockRemoteClient) GetPipelineRuns(ctx context.Context, pr *model.PullRequest) ([]model.PipelineRun, error) {
	if m.getPipelineRunsFn == nil {
		return nil, errNotStubbed
	}
	return m.getPipelineRunsFn(ctx, pr)
}

func (m *mockRemoteClient) GetCurrentUser(ctx context.Context) (*model.Identity, error) {
	if m.getCurrentUserFn == nil {
		return nil, errNotStubbed
	}
	return m.getCurrentUserFn(ctx)
}
