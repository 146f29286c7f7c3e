package azdo

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/converter"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"

	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// GetPullRequests lists pull requests for the repository filtered by status.
func (c *Client) GetPullRequests(ctx context.Context, status model.PRStatus) ([]model.PullRequest, error) {
	sdkStatus := prStatusValue(status)

	prs, err := c.gitClient.GetPullRequests(ctx, git.GetPullRequestsArgs{
		RepositoryId: &c.repo,
		Project:      &c.project,
		SearchCriteria: &git.GitPullRequestSearchCriteria{
			Status: &sdkStatus,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s pull requests for %s/%s: %w", status, c.project, c.repo, err)
	}

	out := make([]model.PullRequest, 0, len(*prs))
	for i := range *prs {
		pr := &(*prs)[i]
		out = append(out, mapPullRequest(pr, c.webURL(intVal(pr.PullRequestId))))
	}

	return out, nil
}

// GetPullRequest fetches a single pull request with its reviewer list.
func (c *Client) GetPullRequest(ctx context.Context, id int) (*model.PullRequest, error) {
	pr, err := c.gitClient.GetPullRequest(ctx, git.GetPullRequestArgs{
		RepositoryId:  &c.repo,
		Project:       &c.project,
		PullRequestId: &id,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %d: %w", id, err)
	}

	out := mapPullRequest(pr, c.webURL(id))
	return &out, nil
}

// CreatePullRequest opens a new pull request from the given branches.
func (c *Client) CreatePullRequest(ctx context.Context, opts model.CreatePROptions) (*model.PullRequest, error) {
	pr, err := c.gitClient.CreatePullRequest(ctx, git.CreatePullRequestArgs{
		RepositoryId: &c.repo,
		Project:      &c.project,
		GitPullRequestToCreate: &git.GitPullRequest{
			SourceRefName: converter.String(refPrefix + opts.SourceBranch),
			TargetRefName: converter.String(refPrefix + opts.TargetBranch),
			Title:         converter.String(opts.Title),
			Description:   converter.String(opts.Description),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating pull request %s -> %s: %w", opts.SourceBranch, opts.TargetBranch, err)
	}

	out := mapPullRequest(pr, c.webURL(intVal(pr.PullRequestId)))
	return &out, nil
}

// VotePullRequest casts the authenticated user's vote. The service keeps a
// single reviewer entry per identity, so re-voting overwrites the prior vote.
func (c *Client) VotePullRequest(ctx context.Context, id int, vote model.Vote) (*model.Reviewer, error) {
	if !vote.Valid() {
		return nil, fmt.Errorf("invalid vote value %d", int(vote))
	}

	user, err := c.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	reviewer, err := c.gitClient.CreatePullRequestReviewer(ctx, git.CreatePullRequestReviewerArgs{
		RepositoryId:  &c.repo,
		Project:       &c.project,
		PullRequestId: &id,
		ReviewerId:    &user.ID,
		Reviewer: &git.IdentityRefWithVote{
			Vote: converter.Int(int(vote)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("voting %d on pull request %d: %w", int(vote), id, err)
	}

	out := mapReviewer(*reviewer)
	return &out, nil
}

// CompletePullRequest merges the pull request with the given options. The
// current last-merge source commit is fetched first; the service requires it
// to guard against completing a stale head.
func (c *Client) CompletePullRequest(ctx context.Context, id int, opts model.CompletionOptions) (*model.PullRequest, error) {
	current, err := c.gitClient.GetPullRequest(ctx, git.GetPullRequestArgs{
		RepositoryId:  &c.repo,
		Project:       &c.project,
		PullRequestId: &id,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %d before completion: %w", id, err)
	}

	strategy := mergeStrategyValue(opts.MergeStrategy)

	updated, err := c.gitClient.UpdatePullRequest(ctx, git.UpdatePullRequestArgs{
		RepositoryId:  &c.repo,
		Project:       &c.project,
		PullRequestId: &id,
		GitPullRequestToUpdate: &git.GitPullRequest{
			Status:                &git.PullRequestStatusValues.Completed,
			LastMergeSourceCommit: current.LastMergeSourceCommit,
			CompletionOptions: &git.GitPullRequestCompletionOptions{
				MergeStrategy:      &strategy,
				DeleteSourceBranch: converter.Bool(opts.DeleteSourceBranch),
				MergeCommitMessage: converter.String(opts.MergeCommitMessage),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("completing pull request %d: %w", id, err)
	}

	out := mapPullRequest(updated, c.webURL(id))
	return &out, nil
}
