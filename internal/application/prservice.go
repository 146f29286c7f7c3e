package application

import (
	"context"
	"fmt"

	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// PRService exposes pull-request operations that do not need an open panel
// session: listing, creation, voting, and completion. The HTTP API and the
// CLI both sit on top of it.
type PRService struct {
	provider *RemoteClientProvider
}

// NewPRService creates a PRService backed by the given provider.
func NewPRService(provider *RemoteClientProvider) *PRService {
	return &PRService{provider: provider}
}

// List returns pull requests filtered by status. PRStatusAll returns every
// pull request regardless of state.
func (s *PRService) List(ctx context.Context, status model.PRStatus) ([]model.PullRequest, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}
	return client.GetPullRequests(ctx, status)
}

// Get fetches one pull request by id.
func (s *PRService) Get(ctx context.Context, id int) (*model.PullRequest, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}
	return client.GetPullRequest(ctx, id)
}

// Create opens a new pull request from the given branches.
func (s *PRService) Create(ctx context.Context, opts model.CreatePROptions) (*model.PullRequest, error) {
	if opts.SourceBranch == "" || opts.TargetBranch == "" {
		return nil, fmt.Errorf("source and target branches are required")
	}
	if opts.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}
	return client.CreatePullRequest(ctx, opts)
}

// Vote casts the current user's vote on a pull request.
func (s *PRService) Vote(ctx context.Context, id int, vote model.Vote) (*model.Reviewer, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}
	return client.VotePullRequest(ctx, id, vote)
}

// Complete merges a pull request.
func (s *PRService) Complete(ctx context.Context, id int, opts model.CompletionOptions) (*model.PullRequest, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}
	return client.CompletePullRequest(ctx, id, opts)
}

// Pipelines lists recent CI runs for a pull request's source branch.
func (s *PRService) Pipelines(ctx context.Context, id int) ([]model.PipelineRun, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}

	pr, err := client.GetPullRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return client.GetPipelineRuns(ctx, pr)
}
