// Package httphandler is the REST driving adapter. It exposes pull-request
// browsing and actions over JSON and mounts the websocket panel route.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/azdopanel/azdopanel/internal/adapter/driving/panel"
	"github.com/azdopanel/azdopanel/internal/application"
	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// Handler serves the REST API.
type Handler struct {
	prSvc    *application.PRService
	provider *application.RemoteClientProvider
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(prSvc *application.PRService, provider *application.RemoteClientProvider, logger *slog.Logger) *Handler {
	return &Handler{
		prSvc:    prSvc,
		provider: provider,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware. panelHandler may be nil in tests
// that exercise the REST surface only.
func NewServeMux(h *Handler, panelHandler *panel.Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/prs", h.ListPRs)
	mux.HandleFunc("POST /api/v1/prs", h.CreatePR)
	mux.HandleFunc("GET /api/v1/prs/{id}", h.GetPR)
	mux.HandleFunc("POST /api/v1/prs/{id}/vote", h.VotePR)
	mux.HandleFunc("POST /api/v1/prs/{id}/complete", h.CompletePR)
	mux.HandleFunc("GET /api/v1/prs/{id}/pipelines", h.ListPipelines)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	if panelHandler != nil {
		mux.HandleFunc("GET /api/v1/panel/{id}", panelHandler.ServePanel)
	}

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListPRs returns pull requests filtered by the optional status query
// parameter. An absent or "all" status returns every pull request.
func (h *Handler) ListPRs(w http.ResponseWriter, r *http.Request) {
	status := model.PRStatusActive
	if q := r.URL.Query().Get("status"); q != "" {
		var ok bool
		status, ok = parsePRStatus(q)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
	}

	prs, err := h.prSvc.List(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, "list pull requests", err)
		return
	}

	resp := make([]PRResponse, 0, len(prs))
	for _, pr := range prs {
		resp = append(resp, toPRResponse(pr, false))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPR returns one pull request with its description rendered to HTML.
func (h *Handler) GetPR(w http.ResponseWriter, r *http.Request) {
	id, ok := prID(w, r)
	if !ok {
		return
	}

	pr, err := h.prSvc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get pull request", err)
		return
	}

	writeJSON(w, http.StatusOK, toPRResponse(*pr, true))
}

// CreatePR opens a new pull request.
func (h *Handler) CreatePR(w http.ResponseWriter, r *http.Request) {
	var req CreatePRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pr, err := h.prSvc.Create(r.Context(), model.CreatePROptions{
		SourceBranch: req.SourceBranch,
		TargetBranch: req.TargetBranch,
		Title:        req.Title,
		Description:  req.Description,
	})
	if err != nil {
		if errors.Is(err, driven.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "remote client not configured")
			return
		}
		// Validation failures from the service are client errors.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toPRResponse(*pr, false))
}

// VotePR casts the current user's vote on a pull request.
func (h *Handler) VotePR(w http.ResponseWriter, r *http.Request) {
	id, ok := prID(w, r)
	if !ok {
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vote := model.Vote(req.Vote)
	if !vote.Valid() {
		writeError(w, http.StatusBadRequest, "vote must be one of -10, -5, 0, 5, 10")
		return
	}

	reviewer, err := h.prSvc.Vote(r.Context(), id, vote)
	if err != nil {
		h.writeServiceError(w, "vote on pull request", err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewerResponse(*reviewer))
}

// CompletePR merges a pull request.
func (h *Handler) CompletePR(w http.ResponseWriter, r *http.Request) {
	id, ok := prID(w, r)
	if !ok {
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	strategy := model.MergeStrategy(req.MergeStrategy)
	if strategy == "" {
		strategy = model.MergeNoFastForward
	}
	switch strategy {
	case model.MergeNoFastForward, model.MergeSquash, model.MergeRebase, model.MergeRebaseMerge:
	default:
		writeError(w, http.StatusBadRequest, "invalid merge strategy")
		return
	}

	pr, err := h.prSvc.Complete(r.Context(), id, model.CompletionOptions{
		MergeStrategy:      strategy,
		DeleteSourceBranch: req.DeleteSourceBranch,
		MergeCommitMessage: req.MergeCommitMessage,
	})
	if err != nil {
		h.writeServiceError(w, "complete pull request", err)
		return
	}

	writeJSON(w, http.StatusOK, toPRResponse(*pr, false))
}

// ListPipelines returns recent CI runs for a pull request's source branch.
func (h *Handler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	id, ok := prID(w, r)
	if !ok {
		return
	}

	runs, err := h.prSvc.Pipelines(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "list pipelines", err)
		return
	}

	resp := make([]PipelineResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toPipelineResponse(run))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports service liveness and whether a remote client is configured.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Configured: h.provider.HasClient(),
		Time:       time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, driven.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, "remote client not configured")
		return
	}
	h.logger.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusBadGateway, "remote service error")
}

func prID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid pull request id")
		return 0, false
	}
	return id, true
}

func parsePRStatus(s string) (model.PRStatus, bool) {
	switch model.PRStatus(s) {
	case model.PRStatusActive, model.PRStatusCompleted, model.PRStatusAbandoned,
		model.PRStatusNotSet, model.PRStatusAll:
		return model.PRStatus(s), true
	}
	return "", false
}
