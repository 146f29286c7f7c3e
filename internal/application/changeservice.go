package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/azdopanel/azdopanel/internal/diff"
	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// FileDiff is the reconciled diff of one changed file. It exists only for
// the lifetime of the panel session that requested it.
type FileDiff struct {
	Path            string
	ChangeType      model.ChangeType
	OriginalContent string
	ModifiedContent string
	Lines           []diff.Line
}

// ChangeService is the file-change orchestrator: it lists changed files
// without fetching content, and assembles per-file diffs on demand.
type ChangeService struct {
	provider *RemoteClientProvider
}

// NewChangeService creates a ChangeService backed by the given provider.
func NewChangeService(provider *RemoteClientProvider) *ChangeService {
	return &ChangeService{provider: provider}
}

// ListChangedFiles returns the changed-file list and the two branch names
// for a pull request. No file content is fetched; the view can render the
// list immediately while content loads lazily.
func (s *ChangeService) ListChangedFiles(ctx context.Context, prID int) (*model.ChangeList, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}
	return client.GetChangedFiles(ctx, prID)
}

// FetchFileDiff fetches both versions of one file and runs the diff engine.
// For an added file the base-side fetch is skipped; for a deleted file the
// modified-side fetch is skipped; for a renamed file the base side is read
// from the pre-rename path. A failed side degrades to empty content so the
// diff still renders, showing the fetched side as entirely added or deleted.
// Both sides are resolved before the diff engine is invoked.
func (s *ChangeService) FetchFileDiff(ctx context.Context, fc model.FileChange, sourceRef, targetRef string) (*FileDiff, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}

	basePath := fc.Path
	if fc.OriginalPath != "" {
		basePath = fc.OriginalPath
	}

	var original, modified string
	var wg sync.WaitGroup

	if fc.ChangeType != model.ChangeTypeAdd {
		wg.Add(1)
		go func() {
			defer wg.Done()
			content, err := client.GetFileContent(ctx, basePath, targetRef)
			if err != nil {
				slog.Warn("base-side fetch failed, rendering side as empty",
					"path", basePath,
					"ref", targetRef,
					"error", err,
				)
				return
			}
			original = content
		}()
	}

	if fc.ChangeType != model.ChangeTypeDelete {
		wg.Add(1)
		go func() {
			defer wg.Done()
			content, err := client.GetFileContent(ctx, fc.Path, sourceRef)
			if err != nil {
				slog.Warn("modified-side fetch failed, rendering side as empty",
					"path", fc.Path,
					"ref", sourceRef,
					"error", err,
				)
				return
			}
			modified = content
		}()
	}

	wg.Wait()

	return &FileDiff{
		Path:            fc.Path,
		ChangeType:      fc.ChangeType,
		OriginalContent: original,
		ModifiedContent: modified,
		Lines:           diff.Lines(original, modified),
	}, nil
}
