package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// ErrUnknownThread is returned when a reply or status update targets a
// thread that is not in the session's local set. Callers must list threads
// before mutating them.
var ErrUnknownThread = errors.New("thread not found in local set")

// ThreadService is the comment-thread model for one pull request. The thread
// set is fetched once per panel session and then mutated locally as
// create/reply/status round-trips succeed; the local copy is the single
// source of truth for the open view and is discarded with the session.
type ThreadService struct {
	provider *RemoteClientProvider
	prID     int

	mu      sync.Mutex
	threads []model.CommentThread
	loaded  bool
}

// NewThreadService creates the thread model for the given pull request.
func NewThreadService(provider *RemoteClientProvider, prID int) *ThreadService {
	return &ThreadService{provider: provider, prID: prID}
}

// List returns the thread set, fetching it from the remote service on the
// first call. Subsequent calls return the locally maintained copy.
func (s *ThreadService) List(ctx context.Context) ([]model.CommentThread, error) {
	s.mu.Lock()
	if s.loaded {
		out := s.snapshotLocked()
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}

	threads, err := client.GetThreads(ctx, s.prID)
	if err != nil {
		return nil, fmt.Errorf("fetching threads for pull request %d: %w", s.prID, err)
	}

	s.mu.Lock()
	s.threads = threads
	s.loaded = true
	out := s.snapshotLocked()
	s.mu.Unlock()

	return out, nil
}

// Create opens a new thread. A nil anchor creates a pull-request-level
// comment. The created thread starts active with exactly one comment and is
// appended to the local set on success.
func (s *ThreadService) Create(ctx context.Context, content string, anchor *model.ThreadAnchor) (*model.CommentThread, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}

	thread, err := client.CreateThread(ctx, s.prID, content, anchor)
	if err != nil {
		return nil, fmt.Errorf("creating thread on pull request %d: %w", s.prID, err)
	}

	s.mu.Lock()
	if s.loaded {
		s.threads = append(s.threads, *thread)
	}
	s.mu.Unlock()

	return thread, nil
}

// Reply appends a comment to an existing thread. Replying to a thread that
// is not in the local set fails with ErrUnknownThread.
func (s *ThreadService) Reply(ctx context.Context, threadID int, content string) (*model.Comment, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(threadID)
	s.mu.Unlock()
	if idx < 0 {
		return nil, fmt.Errorf("replying to thread %d: %w", threadID, ErrUnknownThread)
	}

	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}

	comment, err := client.ReplyToThread(ctx, s.prID, threadID, content)
	if err != nil {
		return nil, fmt.Errorf("replying to thread %d: %w", threadID, err)
	}

	s.mu.Lock()
	if i := s.indexOfLocked(threadID); i >= 0 {
		s.threads[i].Comments = append(s.threads[i].Comments, *comment)
	}
	s.mu.Unlock()

	return comment, nil
}

// SetStatus updates a thread's status. The remote call is independent per
// thread; concurrent changes to the same thread are the caller's race to
// serialize. The local copy is replaced with the updated thread on success.
func (s *ThreadService) SetStatus(ctx context.Context, threadID int, status model.ThreadStatus) (*model.CommentThread, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(threadID)
	s.mu.Unlock()
	if idx < 0 {
		return nil, fmt.Errorf("updating thread %d status: %w", threadID, ErrUnknownThread)
	}

	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}

	updated, err := client.SetThreadStatus(ctx, s.prID, threadID, status)
	if err != nil {
		return nil, fmt.Errorf("updating thread %d status: %w", threadID, err)
	}

	s.mu.Lock()
	if i := s.indexOfLocked(threadID); i >= 0 {
		// The service may omit comments on update responses; keep the
		// local comment list when the response has none.
		if updated.Comments == nil {
			updated.Comments = s.threads[i].Comments
		}
		s.threads[i] = *updated
	}
	s.mu.Unlock()

	return updated, nil
}

// FileThreads returns the threads anchored to the given file path.
func (s *ThreadService) FileThreads(path string) []model.CommentThread {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.CommentThread
	for _, t := range s.threads {
		if t.AnchoredTo(path) {
			out = append(out, t)
		}
	}
	return out
}

// GeneralThreads returns the pull-request-level threads that contain at
// least one non-system comment.
func (s *ThreadService) GeneralThreads() []model.CommentThread {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.CommentThread
	for _, t := range s.threads {
		if t.IsGeneral() {
			out = append(out, t)
		}
	}
	return out
}

func (s *ThreadService) indexOfLocked(threadID int) int {
	for i := range s.threads {
		if s.threads[i].ID == threadID {
			return i
		}
	}
	return -1
}

func (s *ThreadService) snapshotLocked() []model.CommentThread {
	out := make([]model.CommentThread, len(s.threads))
	copy(out, s.threads)
	return out
}
