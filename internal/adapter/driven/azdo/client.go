// Package azdo implements the RemoteClient port using the Microsoft Azure
// DevOps Go SDK. All calls attach the personal access token supplied at
// construction; failures are wrapped with context but keep the underlying
// cause.
package azdo

import (
	"context"
	"fmt"
	"sync"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/build"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/location"

	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RemoteClient = (*Client)(nil)

const refPrefix = "refs/heads/"

// Client implements the driven.RemoteClient port against one
// organization/project/repository triple.
type Client struct {
	gitClient   git.Client
	buildClient build.Client
	locClient   location.Client

	orgURL  string
	project string
	repo    string

	mu   sync.Mutex
	user *model.Identity // Cached current user; fetched at most once.
}

// NewClient connects to the given organization with a personal access token.
// Client construction performs the SDK's resource-area lookups, so it
// requires network access and a valid token.
func NewClient(ctx context.Context, orgURL, token, project, repo string) (*Client, error) {
	if orgURL == "" || token == "" || project == "" || repo == "" {
		return nil, driven.ErrNotConfigured
	}

	conn := azuredevops.NewPatConnection(orgURL, token)

	gitClient, err := git.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("creating git client for %s: %w", orgURL, err)
	}

	buildClient, err := build.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("creating build client for %s: %w", orgURL, err)
	}

	locClient := location.NewClient(ctx, conn)

	return &Client{
		gitClient:   gitClient,
		buildClient: buildClient,
		locClient:   locClient,
		orgURL:      orgURL,
		project:     project,
		repo:        repo,
	}, nil
}

// GetCurrentUser returns the identity the token authenticates as. The result
// is cached for the lifetime of the client.
func (c *Client) GetCurrentUser(ctx context.Context) (*model.Identity, error) {
	c.mu.Lock()
	if c.user != nil {
		u := *c.user
		c.mu.Unlock()
		return &u, nil
	}
	c.mu.Unlock()

	data, err := c.locClient.GetConnectionData(ctx, location.GetConnectionDataArgs{})
	if err != nil {
		return nil, fmt.Errorf("fetching connection data: %w", err)
	}
	if data.AuthorizedUser == nil {
		return nil, fmt.Errorf("connection data for %s has no authorized user", c.orgURL)
	}

	user := mapAuthorizedUser(data.AuthorizedUser)

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()

	u := user
	return &u, nil
}

// webURL builds the browser URL for a pull request.
func (c *Client) webURL(prID int) string {
	return fmt.Sprintf("%s/%s/_git/%s/pullrequest/%d", c.orgURL, c.project, c.repo, prID)
}

// buildURL builds the browser URL for a pipeline run.
func (c *Client) buildURL(buildID int) string {
	return fmt.Sprintf("%s/%s/_build/results?buildId=%d", c.orgURL, c.project, buildID)
}
