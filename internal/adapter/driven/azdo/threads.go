package azdo

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/converter"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"

	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// GetThreads fetches all comment threads on a pull request, including
// deleted and system-only threads. Filtering is a presentation concern.
func (c *Client) GetThreads(ctx context.Context, id int) ([]model.CommentThread, error) {
	threads, err := c.gitClient.GetThreads(ctx, git.GetThreadsArgs{
		RepositoryId:  &c.repo,
		Project:       &c.project,
		PullRequestId: &id,
	})
	if err != nil {
		return nil, fmt.Errorf("listing threads for pull request %d: %w", id, err)
	}

	out := make([]model.CommentThread, 0, len(*threads))
	for _, t := range *threads {
		out = append(out, mapThread(t))
	}

	return out, nil
}

// CreateThread opens a new thread with a single text comment. A nil anchor
// creates a pull-request-level thread; an anchored thread attaches to one
// line on the left or right side of the file's diff.
func (c *Client) CreateThread(ctx context.Context, id int, content string, anchor *model.ThreadAnchor) (*model.CommentThread, error) {
	thread := &git.GitPullRequestCommentThread{
		Status: &git.CommentThreadStatusValues.Active,
		Comments: &[]git.Comment{
			{
				Content:         converter.String(content),
				ParentCommentId: converter.Int(0),
				CommentType:     &git.CommentTypeValues.Text,
			},
		},
	}

	if anchor != nil {
		tc := &git.CommentThreadContext{
			FilePath: converter.String("/" + anchor.FilePath),
		}
		pos := git.CommentPosition{
			Line:   converter.Int(anchor.Line),
			Offset: converter.Int(1),
		}
		if anchor.Side == model.SideLeft {
			tc.LeftFileStart = &pos
			tc.LeftFileEnd = &pos
		} else {
			tc.RightFileStart = &pos
			tc.RightFileEnd = &pos
		}
		thread.ThreadContext = tc
	}

	created, err := c.gitClient.CreateThread(ctx, git.CreateThreadArgs{
		RepositoryId:  &c.repo,
		Project:       &c.project,
		PullRequestId: &id,
		CommentThread: thread,
	})
	if err != nil {
		return nil, fmt.Errorf("creating thread on pull request %d: %w", id, err)
	}

	out := mapThread(*created)
	return &out, nil
}

// ReplyToThread appends a comment to an existing thread.
func (c *Client) ReplyToThread(ctx context.Context, id, threadID int, content string) (*model.Comment, error) {
	comment, err := c.gitClient.CreateComment(ctx, git.CreateCommentArgs{
		RepositoryId:  &c.repo,
		Project:       &c.project,
		PullRequestId: &id,
		ThreadId:      &threadID,
		Comment: &git.Comment{
			Content:         converter.String(content),
			ParentCommentId: converter.Int(1),
			CommentType:     &git.CommentTypeValues.Text,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("replying to thread %d on pull request %d: %w", threadID, id, err)
	}

	out := mapComment(*comment)
	return &out, nil
}

// SetThreadStatus updates a thread's status. Each call is an independent
// remote write; the caller serializes concurrent changes to one thread.
func (c *Client) SetThreadStatus(ctx context.Context, id, threadID int, status model.ThreadStatus) (*model.CommentThread, error) {
	sdkStatus := threadStatusValue(status)

	updated, err := c.gitClient.UpdateThread(ctx, git.UpdateThreadArgs{
		RepositoryId:  &c.repo,
		Project:       &c.project,
		PullRequestId: &id,
		ThreadId:      &threadID,
		CommentThread: &git.GitPullRequestCommentThread{
			Status: &sdkStatus,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("setting thread %d status to %s on pull request %d: %w", threadID, status, id, err)
	}

	out := mapThread(*updated)
	return &out, nil
}
