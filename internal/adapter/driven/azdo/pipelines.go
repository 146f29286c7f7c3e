package azdo

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/build"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/converter"

	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// maxPipelineRuns caps the number of runs fetched per pull request.
const maxPipelineRuns = 20

// GetPipelineRuns lists recent CI runs for the pull request's source branch,
// newest first. An empty result is data, not an error.
func (c *Client) GetPipelineRuns(ctx context.Context, pr *model.PullRequest) ([]model.PipelineRun, error) {
	resp, err := c.buildClient.GetBuilds(ctx, build.GetBuildsArgs{
		Project:    &c.project,
		BranchName: &pr.SourceRefName,
		Top:        converter.Int(maxPipelineRuns),
	})
	if err != nil {
		return nil, fmt.Errorf("listing pipeline runs for %s: %w", pr.SourceBranch(), err)
	}

	runs := make([]model.PipelineRun, 0, len(resp.Value))
	for _, b := range resp.Value {
		runs = append(runs, mapBuild(b, c.buildURL(intVal(b.Id))))
	}

	return runs, nil
}
