package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// FileState tracks where one file in the change list is in its loading
// lifecycle. Files start collapsed; expanding moves them to loading, and a
// successful diff fetch moves them to rendered.
type FileState string

const (
	FileCollapsed FileState = "collapsed"
	FileLoading   FileState = "loading"
	FileRendered  FileState = "rendered"
)

// ErrSuperseded is returned when a diff fetch completes after a newer
// request for the same file has started. The stale result is discarded.
var ErrSuperseded = errors.New("diff request superseded by a newer one")

// ErrUnknownFile is returned when a diff is requested for a path that is
// not in the pull request's change list.
var ErrUnknownFile = errors.New("file not in change list")

type filePanel struct {
	state FileState
	gen   uint64
	diff  *FileDiff
}

// PanelSession is the working state of one open pull-request panel: the
// pull request itself, its pipeline runs, the changed-file list with
// per-file loading state, and the comment-thread set. All of it is
// in-memory and discarded when the session closes.
type PanelSession struct {
	ID   string
	prID int

	provider *RemoteClientProvider
	changes  *ChangeService
	threads  *ThreadService
	timeout  time.Duration

	mu          sync.Mutex
	pr          *model.PullRequest
	pipelines   []model.PipelineRun
	changeList  *model.ChangeList
	currentUser *model.Identity
	files       map[string]*filePanel
}

func newPanelSession(provider *RemoteClientProvider, prID int, timeout time.Duration) *PanelSession {
	return &PanelSession{
		ID:       uuid.NewString(),
		prID:     prID,
		provider: provider,
		changes:  NewChangeService(provider),
		threads:  NewThreadService(provider, prID),
		timeout:  timeout,
		files:    make(map[string]*filePanel),
	}
}

// load performs the initial batch: the pull request first, then its
// pipeline runs, change list, and the current user concurrently. No file
// content is fetched here.
func (s *PanelSession) load(ctx context.Context) error {
	client := s.provider.Get()
	if client == nil {
		return driven.ErrNotConfigured
	}

	prCtx, cancel := s.callCtx(ctx)
	pr, err := client.GetPullRequest(prCtx, s.prID)
	cancel()
	if err != nil {
		return fmt.Errorf("loading pull request %d: %w", s.prID, err)
	}

	var (
		pipelines  []model.PipelineRun
		changeList *model.ChangeList
		user       *model.Identity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		callCtx, cancel := s.callCtx(gctx)
		defer cancel()
		runs, err := client.GetPipelineRuns(callCtx, pr)
		if err != nil {
			return fmt.Errorf("loading pipeline runs: %w", err)
		}
		pipelines = runs
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := s.callCtx(gctx)
		defer cancel()
		list, err := s.changes.ListChangedFiles(callCtx, s.prID)
		if err != nil {
			return fmt.Errorf("loading change list: %w", err)
		}
		changeList = list
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := s.callCtx(gctx)
		defer cancel()
		u, err := client.GetCurrentUser(callCtx)
		if err != nil {
			return fmt.Errorf("resolving current user: %w", err)
		}
		user = u
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.pr = pr
	s.pipelines = pipelines
	s.changeList = changeList
	s.currentUser = user
	s.files = make(map[string]*filePanel, len(changeList.Files))
	for _, f := range changeList.Files {
		s.files[f.Path] = &filePanel{state: FileCollapsed}
	}
	s.mu.Unlock()

	return nil
}

// PullRequest returns the session's pull request as of the last refresh.
func (s *PanelSession) PullRequest() *model.PullRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pr
}

// Pipelines returns the pipeline runs loaded for the session.
func (s *PanelSession) Pipelines() []model.PipelineRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipelines
}

// ChangeList returns the changed-file listing loaded for the session.
func (s *PanelSession) ChangeList() *model.ChangeList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeList
}

// CurrentUser returns the authenticated identity for the session.
func (s *PanelSession) CurrentUser() *model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser
}

// FileState returns the loading state of one file in the change list.
func (s *PanelSession) FileState(path string) (FileState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.files[path]
	if !ok {
		return "", false
	}
	return p.state, true
}

// Collapse returns a rendered or loading file to the collapsed state. A
// fetch in flight for the file is superseded and its result discarded;
// already-rendered content is kept so re-expanding is instant.
func (s *PanelSession) Collapse(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.files[path]
	if !ok {
		return
	}
	p.gen++
	p.state = FileCollapsed
}

// FetchDiff expands one file: it marks the file loading, fetches both
// content versions, and runs the diff engine. If a newer fetch or a
// collapse for the same file starts before this one finishes, the stale
// result is dropped and ErrSuperseded is returned.
func (s *PanelSession) FetchDiff(ctx context.Context, path string) (*FileDiff, error) {
	s.mu.Lock()
	p, ok := s.files[path]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("fetching diff for %q: %w", path, ErrUnknownFile)
	}
	if p.diff != nil {
		p.state = FileRendered
		d := p.diff
		s.mu.Unlock()
		return d, nil
	}
	p.gen++
	gen := p.gen
	p.state = FileLoading
	var fc model.FileChange
	for _, f := range s.changeList.Files {
		if f.Path == path {
			fc = f
			break
		}
	}
	sourceRef := s.changeList.SourceRef
	targetRef := s.changeList.TargetRef
	s.mu.Unlock()

	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	d, err := s.changes.FetchFileDiff(callCtx, fc, sourceRef, targetRef)

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.gen != gen {
		slog.Debug("discarding superseded diff result", "path", path)
		return nil, ErrSuperseded
	}
	if err != nil {
		p.state = FileCollapsed
		return nil, err
	}
	p.state = FileRendered
	p.diff = d
	return d, nil
}

// Vote casts the current user's vote and refreshes the pull request so the
// reviewer list reflects it.
func (s *PanelSession) Vote(ctx context.Context, vote model.Vote) (*model.PullRequest, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}

	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	if _, err := client.VotePullRequest(callCtx, s.prID, vote); err != nil {
		return nil, err
	}
	return s.refreshPR(ctx, client)
}

// Complete merges the pull request with the given options and refreshes
// the session's copy.
func (s *PanelSession) Complete(ctx context.Context, opts model.CompletionOptions) (*model.PullRequest, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, driven.ErrNotConfigured
	}

	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	pr, err := client.CompletePullRequest(callCtx, s.prID, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pr = pr
	s.mu.Unlock()
	return pr, nil
}

// Threads exposes the session's comment-thread model.
func (s *PanelSession) Threads() *ThreadService {
	return s.threads
}

func (s *PanelSession) refreshPR(ctx context.Context, client driven.RemoteClient) (*model.PullRequest, error) {
	callCtx, cancel := s.callCtx(ctx)
	defer cancel()

	pr, err := client.GetPullRequest(callCtx, s.prID)
	if err != nil {
		return nil, fmt.Errorf("refreshing pull request %d: %w", s.prID, err)
	}

	s.mu.Lock()
	s.pr = pr
	s.mu.Unlock()
	return pr, nil
}

func (s *PanelSession) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// SessionManager keeps the single active panel session. Opening a panel for
// a pull request replaces any session already open; the editor shows one
// panel at a time.
type SessionManager struct {
	provider *RemoteClientProvider
	timeout  time.Duration

	mu     sync.Mutex
	active *PanelSession
}

// NewSessionManager creates a manager whose sessions apply the given
// per-call timeout to every remote request.
func NewSessionManager(provider *RemoteClientProvider, timeout time.Duration) *SessionManager {
	return &SessionManager{provider: provider, timeout: timeout}
}

// Open creates a session for the pull request, loads its initial batch,
// and makes it the active session. A previously active session is dropped.
func (m *SessionManager) Open(ctx context.Context, prID int) (*PanelSession, error) {
	session := newPanelSession(m.provider, prID, m.timeout)
	if err := session.load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	prev := m.active
	m.active = session
	m.mu.Unlock()

	if prev != nil {
		slog.Info("replaced active panel session",
			"previous", prev.ID,
			"current", session.ID,
		)
	}
	return session, nil
}

// Get returns the session with the given ID, or nil if it is not the
// active one.
func (m *SessionManager) Get(id string) *PanelSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || m.active.ID != id {
		return nil
	}
	return m.active
}

// Active returns the currently open session, or nil.
func (m *SessionManager) Active() *PanelSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Close drops the session with the given ID if it is the active one.
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil && m.active.ID == id {
		m.active = nil
	}
}
