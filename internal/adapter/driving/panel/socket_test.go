package panel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azdopanel/azdopanel/internal/application"
	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// fakeRemote is a canned driven.RemoteClient for socket tests: one active
// pull request with two changed files, one pipeline run, and one general
// comment thread.
type fakeRemote struct{}

var _ driven.RemoteClient = fakeRemote{}

func (fakeRemote) GetPullRequests(context.Context, model.PRStatus) ([]model.PullRequest, error) {
	return nil, nil
}

func (fakeRemote) GetPullRequest(_ context.Context, id int) (*model.PullRequest, error) {
	return &model.PullRequest{
		ID:            id,
		Title:         "Add feature X",
		SourceRefName: "refs/heads/feature-x",
		TargetRefName: "refs/heads/main",
		Status:        model.PRStatusActive,
	}, nil
}

func (fakeRemote) CreatePullRequest(context.Context, model.CreatePROptions) (*model.PullRequest, error) {
	return nil, nil
}

func (fakeRemote) VotePullRequest(_ context.Context, _ int, vote model.Vote) (*model.Reviewer, error) {
	return &model.Reviewer{Identity: model.Identity{ID: "user-1"}, Vote: vote}, nil
}

func (fakeRemote) CompletePullRequest(_ context.Context, id int, _ model.CompletionOptions) (*model.PullRequest, error) {
	return &model.PullRequest{ID: id, Status: model.PRStatusCompleted}, nil
}

func (fakeRemote) GetChangedFiles(context.Context, int) (*model.ChangeList, error) {
	return &model.ChangeList{
		Files: []model.FileChange{
			{Path: "src/app.ts", ChangeType: model.ChangeTypeEdit},
			{Path: "new.ts", ChangeType: model.ChangeTypeAdd},
		},
		SourceRef: "feature-x",
		TargetRef: "main",
	}, nil
}

func (fakeRemote) GetFileContent(_ context.Context, _, branch string) (string, error) {
	if branch == "main" {
		return "a\nb\nc", nil
	}
	return "a\nx\nc", nil
}

func (fakeRemote) GetThreads(context.Context, int) ([]model.CommentThread, error) {
	return []model.CommentThread{
		{
			ID:       7,
			Status:   model.ThreadStatusActive,
			Comments: []model.Comment{{ID: 1, Content: "overall LGTM", Type: model.CommentTypeText}},
		},
	}, nil
}

func (fakeRemote) CreateThread(_ context.Context, _ int, content string, anchor *model.ThreadAnchor) (*model.CommentThread, error) {
	t := &model.CommentThread{
		ID:       8,
		Status:   model.ThreadStatusActive,
		Comments: []model.Comment{{ID: 1, Content: content, Type: model.CommentTypeText}},
	}
	if anchor != nil {
		t.Context = &model.ThreadContext{
			FilePath:   anchor.FilePath,
			RightStart: anchor.Line,
			RightEnd:   anchor.Line,
		}
	}
	return t, nil
}

func (fakeRemote) ReplyToThread(_ context.Context, _, _ int, content string) (*model.Comment, error) {
	return &model.Comment{ID: 2, Content: content, Type: model.CommentTypeText}, nil
}

func (fakeRemote) SetThreadStatus(_ context.Context, _, threadID int, status model.ThreadStatus) (*model.CommentThread, error) {
	return &model.CommentThread{ID: threadID, Status: status}, nil
}

func (fakeRemote) GetPipelineRuns(context.Context, *model.PullRequest) ([]model.PipelineRun, error) {
	return []model.PipelineRun{
		{ID: 100, BuildNumber: "20260301.1", Status: model.PipelineStatusCompleted, Result: model.PipelineResultSucceeded},
	}, nil
}

func (fakeRemote) GetCurrentUser(context.Context) (*model.Identity, error) {
	return &model.Identity{ID: "user-1", DisplayName: "Alice"}, nil
}

func dialPanel(t *testing.T) *websocket.Conn {
	t.Helper()

	provider := application.NewRemoteClientProvider(fakeRemote{})
	sessions := application.NewSessionManager(provider, time.Second)
	h := NewHandler(sessions, slog.Default())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/panel/{id}", h.ServePanel)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/panel/42"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

// waitFor reads events until one of the wanted type arrives, failing on
// anything unexpected in between.
func waitFor(t *testing.T, conn *websocket.Conn, eventType string) Event {
	t.Helper()
	for i := 0; i < 10; i++ {
		ev := readEvent(t, conn)
		if ev.Type == eventType {
			return ev
		}
		require.NotEqual(t, EventError, ev.Type, "unexpected error event: %s", ev.Payload)
	}
	t.Fatalf("event %q never arrived", eventType)
	return Event{}
}

func TestServePanel_PushesInitialState(t *testing.T) {
	conn := dialPanel(t)

	ev := readEvent(t, conn)
	require.Equal(t, EventPanelState, ev.Type)

	var state PanelStateView
	require.NoError(t, json.Unmarshal(ev.Payload, &state))
	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, "Add feature X", state.PullRequest.Title)
	assert.Equal(t, "Alice", state.CurrentUser.DisplayName)
	require.Len(t, state.Files, 2)
	assert.Equal(t, string(application.FileCollapsed), state.Files[0].State)
	require.Len(t, state.Pipelines, 1)
	assert.Equal(t, "succeeded", state.Pipelines[0].Result)
}

func TestServePanel_FetchDiffLifecycle(t *testing.T) {
	conn := dialPanel(t)
	waitFor(t, conn, EventPanelState)

	require.NoError(t, conn.WriteJSON(mustEvent(EventFetchDiff, FetchDiffPayload{Path: "src/app.ts"})))

	loading := waitFor(t, conn, EventFileState)
	var fs FileStatePayload
	require.NoError(t, json.Unmarshal(loading.Payload, &fs))
	assert.Equal(t, string(application.FileLoading), fs.State)

	diffEv := waitFor(t, conn, EventDiff)
	var view DiffView
	require.NoError(t, json.Unmarshal(diffEv.Payload, &view))
	assert.Equal(t, "src/app.ts", view.Path)
	require.Len(t, view.Rows, 3)

	rendered := waitFor(t, conn, EventFileState)
	require.NoError(t, json.Unmarshal(rendered.Payload, &fs))
	assert.Equal(t, string(application.FileRendered), fs.State)
}

func TestServePanel_VoteReturnsPullRequest(t *testing.T) {
	conn := dialPanel(t)
	waitFor(t, conn, EventPanelState)

	require.NoError(t, conn.WriteJSON(mustEvent(EventVote, VotePayload{Vote: 10})))

	ev := waitFor(t, conn, EventPullRequest)
	var pr PRView
	require.NoError(t, json.Unmarshal(ev.Payload, &pr))
	assert.Equal(t, 42, pr.ID)
}

func TestServePanel_InvalidVoteRejected(t *testing.T) {
	conn := dialPanel(t)
	waitFor(t, conn, EventPanelState)

	require.NoError(t, conn.WriteJSON(mustEvent(EventVote, VotePayload{Vote: 3})))

	ev := readEvent(t, conn)
	require.Equal(t, EventError, ev.Type)

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &p))
	assert.Equal(t, EventVote, p.RequestType)
	assert.Contains(t, p.Message, "invalid vote")
}

func TestServePanel_CommentsRoundTrip(t *testing.T) {
	conn := dialPanel(t)
	waitFor(t, conn, EventPanelState)

	require.NoError(t, conn.WriteJSON(Event{Type: EventFetchComments}))
	ev := waitFor(t, conn, EventComments)

	var comments CommentsView
	require.NoError(t, json.Unmarshal(ev.Payload, &comments))
	require.Len(t, comments.General, 1)
	assert.Equal(t, 7, comments.General[0].ID)

	require.NoError(t, conn.WriteJSON(mustEvent(EventReplyComment, ReplyCommentPayload{
		ThreadID: 7,
		Content:  "agreed",
	})))
	reply := waitFor(t, conn, EventCommentAdded)
	assert.Contains(t, string(reply.Payload), "agreed")

	// Replying to an unlisted thread routes an error back.
	require.NoError(t, conn.WriteJSON(mustEvent(EventReplyComment, ReplyCommentPayload{
		ThreadID: 999,
		Content:  "hello?",
	})))
	errEv := waitFor(t, conn, EventError)
	assert.Contains(t, string(errEv.Payload), "not found")
}

func TestServePanel_UnknownEventType(t *testing.T) {
	conn := dialPanel(t)
	waitFor(t, conn, EventPanelState)

	require.NoError(t, conn.WriteJSON(Event{Type: "selfDestruct"}))

	ev := readEvent(t, conn)
	require.Equal(t, EventError, ev.Type)
	assert.Contains(t, string(ev.Payload), "unknown event type")
}

// The write loop stops draining the send channel once the connection context
// is canceled. A dispatch goroutine replying into a full queue after that
// must return instead of blocking forever and pinning the session.
func TestDispatch_ReplyReleasedOnContextCancel(t *testing.T) {
	provider := application.NewRemoteClientProvider(fakeRemote{})
	sessions := application.NewSessionManager(provider, time.Second)
	session, err := sessions.Open(context.Background(), 42)
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close(session.ID) })

	c := &client{
		session: session,
		logger:  slog.Default(),
		send:    make(chan Event, sendBuffer),
	}
	// Fill the queue so the next reply would block; nothing drains it.
	for i := 0; i < sendBuffer; i++ {
		c.send <- Event{Type: EventFileState}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.dispatch(ctx, mustEvent(EventCollapseFile, CollapseFilePayload{Path: "src/app.ts"}))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch goroutine still blocked after context cancellation")
	}
}

func TestServePanel_InvalidPRID(t *testing.T) {
	provider := application.NewRemoteClientProvider(fakeRemote{})
	sessions := application.NewSessionManager(provider, time.Second)
	h := NewHandler(sessions, slog.Default())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/panel/{id}", h.ServePanel)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/v1/panel/banana")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
