package azdo

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/converter"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"

	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// maxDiffEntries caps a single commit-diff page. Pull requests touching more
// files than this are truncated in the file list.
const maxDiffEntries = 500

// GetChangedFiles resolves the pull request's branch tips and requests a
// commit-level diff between them. Only paths and change types are returned;
// file content is fetched lazily per file.
func (c *Client) GetChangedFiles(ctx context.Context, id int) (*model.ChangeList, error) {
	pr, err := c.GetPullRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	source := pr.SourceBranch()
	target := pr.TargetBranch()

	diffs, err := c.gitClient.GetCommitDiffs(ctx, git.GetCommitDiffsArgs{
		RepositoryId:     &c.repo,
		Project:          &c.project,
		DiffCommonCommit: converter.Bool(false),
		Top:              converter.Int(maxDiffEntries),
		BaseVersionDescriptor: &git.GitBaseVersionDescriptor{
			BaseVersion:     &target,
			BaseVersionType: &git.GitVersionTypeValues.Branch,
		},
		TargetVersionDescriptor: &git.GitTargetVersionDescriptor{
			TargetVersion:     &source,
			TargetVersionType: &git.GitVersionTypeValues.Branch,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("diffing %s against %s for pull request %d: %w", source, target, id, err)
	}

	var files []model.FileChange
	if diffs.Changes != nil {
		files = parseChanges(*diffs.Changes)
	}

	return &model.ChangeList{
		Files:     files,
		SourceRef: source,
		TargetRef: target,
	}, nil
}

// parseChanges decodes the untyped change entries of a commit diff. The SDK
// surfaces them as raw JSON objects; each carries an item (path, folder flag)
// and a change type. Folder entries are dropped.
func parseChanges(raw []interface{}) []model.FileChange {
	files := make([]model.FileChange, 0, len(raw))

	for _, entry := range raw {
		change, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		item, ok := change["item"].(map[string]interface{})
		if !ok {
			continue
		}
		if isFolder, _ := item["isFolder"].(bool); isFolder {
			continue
		}
		if objType, _ := item["gitObjectType"].(string); objType == "tree" {
			continue
		}

		path, _ := item["path"].(string)
		if path == "" {
			continue
		}

		changeType, _ := change["changeType"].(string)

		fc := model.FileChange{
			Path:       strings.TrimPrefix(path, "/"),
			ChangeType: parseChangeType(changeType),
		}
		if fc.ChangeType == model.ChangeTypeRename {
			if original, _ := change["sourceServerItem"].(string); original != "" {
				fc.OriginalPath = strings.TrimPrefix(original, "/")
			}
		}

		files = append(files, fc)
	}

	return files
}

// GetFileContent returns the whole content of a file at the given branch.
func (c *Client) GetFileContent(ctx context.Context, path, branch string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	reader, err := c.gitClient.GetItemContent(ctx, git.GetItemContentArgs{
		RepositoryId: &c.repo,
		Project:      &c.project,
		Path:         &path,
		Download:     converter.Bool(false),
		VersionDescriptor: &git.GitVersionDescriptor{
			Version:     &branch,
			VersionType: &git.GitVersionTypeValues.Branch,
		},
	})
	if err != nil {
		return "", fmt.Errorf("fetching %s at %s: %w", path, branch, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading %s at %s: %w", path, branch, err)
	}

	return string(content), nil
}
