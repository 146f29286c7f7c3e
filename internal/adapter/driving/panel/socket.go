package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/azdopanel/azdopanel/internal/application"
	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// sendBuffer is the per-client outbound queue depth. Diff responses for
// large files can be slow to drain; events beyond the buffer block the
// producing goroutine rather than dropping.
const sendBuffer = 32

// Handler upgrades panel connections and speaks the tagged event protocol.
type Handler struct {
	sessions *application.SessionManager
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates the websocket panel handler.
func NewHandler(sessions *application.SessionManager, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The panel is served to a local editor webview; the service
			// binds to loopback and does not gate on Origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServePanel handles GET /api/v1/panel/{id}: it opens a session for the
// pull request (replacing any active one), upgrades the connection, pushes
// the initial panel state, and then serves interaction events until the
// client disconnects.
func (h *Handler) ServePanel(w http.ResponseWriter, r *http.Request) {
	prID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid pull request id", http.StatusBadRequest)
		return
	}

	session, err := h.sessions.Open(r.Context(), prID)
	if err != nil {
		h.logger.Error("failed to open panel session", "pr", prID, "error", err)
		http.Error(w, "failed to open panel session", http.StatusBadGateway)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Error("websocket upgrade failed", "pr", prID, "error", err)
		h.sessions.Close(session.ID)
		return
	}

	c := &client{
		conn:    conn,
		session: session,
		logger:  h.logger.With("session", session.ID, "pr", prID),
		send:    make(chan Event, sendBuffer),
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	defer h.sessions.Close(session.ID)

	go c.writeLoop(ctx)

	c.reply(ctx, mustEvent(EventPanelState, toPanelStateView(session)))
	c.readLoop(ctx)
}

// client is one connected panel webview.
type client struct {
	conn    *websocket.Conn
	session *application.PanelSession
	logger  *slog.Logger
	send    chan Event
}

func (c *client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.send:
			if err := c.conn.WriteJSON(ev); err != nil {
				c.logger.Debug("panel write failed", "type", ev.Type, "error", err)
				return
			}
		}
	}
}

func (c *client) readLoop(ctx context.Context) {
	defer func() {
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("panel close failed", "error", err)
		}
	}()

	for {
		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("panel connection lost", "error", err)
			}
			return
		}
		// Each event runs in its own goroutine so a slow diff fetch does
		// not block votes or comments. The send channel serializes writes.
		go c.dispatch(ctx, ev)
	}
}

// dispatch routes one inbound event. The switch is exhaustive over the
// protocol; unknown types produce an error reply instead of being ignored.
func (c *client) dispatch(ctx context.Context, ev Event) {
	var err error
	switch ev.Type {
	case EventFetchDiff:
		err = c.handleFetchDiff(ctx, ev.Payload)
	case EventCollapseFile:
		err = c.handleCollapseFile(ctx, ev.Payload)
	case EventVote:
		err = c.handleVote(ctx, ev.Payload)
	case EventComplete:
		err = c.handleComplete(ctx, ev.Payload)
	case EventFetchComments:
		err = c.handleFetchComments(ctx)
	case EventCreateComment:
		err = c.handleCreateComment(ctx, ev.Payload)
	case EventReplyComment:
		err = c.handleReplyComment(ctx, ev.Payload)
	case EventUpdateCommentStatus:
		err = c.handleUpdateCommentStatus(ctx, ev.Payload)
	default:
		err = fmt.Errorf("unknown event type %q", ev.Type)
	}

	if err != nil {
		c.logger.Warn("panel event failed", "type", ev.Type, "error", err)
		c.reply(ctx, mustEvent(EventError, ErrorPayload{
			RequestType: ev.Type,
			Path:        pathOf(ev),
			Message:     err.Error(),
		}))
	}
}

func (c *client) handleFetchDiff(ctx context.Context, payload json.RawMessage) error {
	var p FetchDiffPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decoding fetchDiff payload: %w", err)
	}

	c.reply(ctx, mustEvent(EventFileState, FileStatePayload{
		Path:  p.Path,
		State: string(application.FileLoading),
	}))

	d, err := c.session.FetchDiff(ctx, p.Path)
	if errors.Is(err, application.ErrSuperseded) {
		// A newer request for the file owns the reply slot.
		return nil
	}
	if err != nil {
		c.reply(ctx, mustEvent(EventFileState, FileStatePayload{
			Path:  p.Path,
			State: string(application.FileCollapsed),
		}))
		return err
	}

	c.reply(ctx, mustEvent(EventDiff, toDiffView(d, c.session.Threads().FileThreads(p.Path))))
	c.reply(ctx, mustEvent(EventFileState, FileStatePayload{
		Path:  p.Path,
		State: string(application.FileRendered),
	}))
	return nil
}

func (c *client) handleCollapseFile(ctx context.Context, payload json.RawMessage) error {
	var p CollapseFilePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decoding collapseFile payload: %w", err)
	}

	c.session.Collapse(p.Path)
	c.reply(ctx, mustEvent(EventFileState, FileStatePayload{
		Path:  p.Path,
		State: string(application.FileCollapsed),
	}))
	return nil
}

func (c *client) handleVote(ctx context.Context, payload json.RawMessage) error {
	var p VotePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decoding vote payload: %w", err)
	}

	vote := model.Vote(p.Vote)
	if !vote.Valid() {
		return fmt.Errorf("invalid vote value %d", p.Vote)
	}

	pr, err := c.session.Vote(ctx, vote)
	if err != nil {
		return err
	}

	c.reply(ctx, mustEvent(EventPullRequest, toPRView(pr)))
	return nil
}

func (c *client) handleComplete(ctx context.Context, payload json.RawMessage) error {
	var p CompletePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decoding complete payload: %w", err)
	}

	opts := model.CompletionOptions{
		MergeStrategy:      model.MergeStrategy(p.MergeStrategy),
		DeleteSourceBranch: p.DeleteSourceBranch,
		MergeCommitMessage: p.MergeCommitMessage,
	}
	if opts.MergeStrategy == "" {
		opts.MergeStrategy = model.MergeNoFastForward
	}

	pr, err := c.session.Complete(ctx, opts)
	if err != nil {
		return err
	}

	c.reply(ctx, mustEvent(EventPullRequest, toPRView(pr)))
	return nil
}

func (c *client) handleFetchComments(ctx context.Context) error {
	threads, err := c.session.Threads().List(ctx)
	if err != nil {
		return err
	}

	var general, anchored []model.CommentThread
	for _, t := range threads {
		switch {
		case t.IsGeneral():
			general = append(general, t)
		case !t.IsDeleted && t.Context != nil:
			anchored = append(anchored, t)
		}
	}

	c.reply(ctx, mustEvent(EventComments, toCommentsView(general, anchored)))
	return nil
}

func (c *client) handleCreateComment(ctx context.Context, payload json.RawMessage) error {
	var p CreateCommentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decoding createComment payload: %w", err)
	}
	if p.Content == "" {
		return fmt.Errorf("comment content is required")
	}

	var anchor *model.ThreadAnchor
	if p.Path != "" {
		side := model.Side(p.Side)
		if side != model.SideLeft && side != model.SideRight {
			return fmt.Errorf("invalid side %q", p.Side)
		}
		if p.Line <= 0 {
			return fmt.Errorf("invalid line %d", p.Line)
		}
		anchor = &model.ThreadAnchor{FilePath: p.Path, Line: p.Line, Side: side}
	}

	thread, err := c.session.Threads().Create(ctx, p.Content, anchor)
	if err != nil {
		return err
	}

	c.reply(ctx, mustEvent(EventThreadCreated, toThreadView(*thread)))
	return nil
}

func (c *client) handleReplyComment(ctx context.Context, payload json.RawMessage) error {
	var p ReplyCommentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decoding replyComment payload: %w", err)
	}

	comment, err := c.session.Threads().Reply(ctx, p.ThreadID, p.Content)
	if err != nil {
		return err
	}

	c.reply(ctx, mustEvent(EventCommentAdded, struct {
		ThreadID int         `json:"threadId"`
		Comment  CommentView `json:"comment"`
	}{
		ThreadID: p.ThreadID,
		Comment:  toCommentView(*comment),
	}))
	return nil
}

func (c *client) handleUpdateCommentStatus(ctx context.Context, payload json.RawMessage) error {
	var p UpdateCommentStatusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decoding updateCommentStatus payload: %w", err)
	}

	status := model.ThreadStatus(p.Status)
	switch status {
	case model.ThreadStatusActive, model.ThreadStatusFixed, model.ThreadStatusWontFix,
		model.ThreadStatusClosed, model.ThreadStatusByDesign, model.ThreadStatusPending:
	default:
		return fmt.Errorf("invalid thread status %q", p.Status)
	}

	thread, err := c.session.Threads().SetStatus(ctx, p.ThreadID, status)
	if err != nil {
		return err
	}

	c.reply(ctx, mustEvent(EventThreadUpdated, toThreadView(*thread)))
	return nil
}

// reply queues one outbound event. The write loop stops draining the send
// channel when the connection context is canceled, so a blocked queue must
// give up on cancellation or the producing goroutine leaks.
func (c *client) reply(ctx context.Context, ev Event) {
	select {
	case c.send <- ev:
	case <-ctx.Done():
	}
}

// pathOf extracts the file path from path-carrying payloads so per-file
// errors route to the right slot in the client.
func pathOf(ev Event) string {
	switch ev.Type {
	case EventFetchDiff, EventCollapseFile:
		var p struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(ev.Payload, &p); err == nil {
			return p.Path
		}
	}
	return ""
}
