package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azdopanel/azdopanel/internal/application"
	"github.com/azdopanel/azdopanel/internal/domain/model"
	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

// stubRemote is a configurable driven.RemoteClient for handler tests.
type stubRemote struct {
	prs      []model.PullRequest
	pr       *model.PullRequest
	reviewer *model.Reviewer
	runs     []model.PipelineRun
	err      error
}

var _ driven.RemoteClient = (*stubRemote)(nil)

func (s *stubRemote) GetPullRequests(context.Context, model.PRStatus) ([]model.PullRequest, error) {
	return s.prs, s.err
}

func (s *stubRemote) GetPullRequest(context.Context, int) (*model.PullRequest, error) {
	return s.pr, s.err
}

func (s *stubRemote) CreatePullRequest(_ context.Context, opts model.CreatePROptions) (*model.PullRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.PullRequest{
		ID:            99,
		Title:         opts.Title,
		Description:   opts.Description,
		SourceRefName: "refs/heads/" + opts.SourceBranch,
		TargetRefName: "refs/heads/" + opts.TargetBranch,
		Status:        model.PRStatusActive,
	}, nil
}

func (s *stubRemote) VotePullRequest(context.Context, int, model.Vote) (*model.Reviewer, error) {
	return s.reviewer, s.err
}

func (s *stubRemote) CompletePullRequest(context.Context, int, model.CompletionOptions) (*model.PullRequest, error) {
	return s.pr, s.err
}

func (s *stubRemote) GetChangedFiles(context.Context, int) (*model.ChangeList, error) {
	return nil, s.err
}

func (s *stubRemote) GetFileContent(context.Context, string, string) (string, error) {
	return "", s.err
}

func (s *stubRemote) GetThreads(context.Context, int) ([]model.CommentThread, error) {
	return nil, s.err
}

func (s *stubRemote) CreateThread(context.Context, int, string, *model.ThreadAnchor) (*model.CommentThread, error) {
	return nil, s.err
}

func (s *stubRemote) ReplyToThread(context.Context, int, int, string) (*model.Comment, error) {
	return nil, s.err
}

func (s *stubRemote) SetThreadStatus(context.Context, int, int, model.ThreadStatus) (*model.CommentThread, error) {
	return nil, s.err
}

func (s *stubRemote) GetPipelineRuns(context.Context, *model.PullRequest) ([]model.PipelineRun, error) {
	return s.runs, s.err
}

func (s *stubRemote) GetCurrentUser(context.Context) (*model.Identity, error) {
	return &model.Identity{ID: "user-1"}, s.err
}

func newTestServer(t *testing.T, remote driven.RemoteClient) *httptest.Server {
	t.Helper()

	provider := application.NewRemoteClientProvider(remote)
	h := NewHandler(application.NewPRService(provider), provider, slog.Default())
	srv := httptest.NewServer(NewServeMux(h, nil, slog.Default()))
	t.Cleanup(srv.Close)
	return srv
}

func TestListPRs(t *testing.T) {
	remote := &stubRemote{
		prs: []model.PullRequest{
			{
				ID:            42,
				Title:         "Add feature X",
				SourceRefName: "refs/heads/feature-x",
				TargetRefName: "refs/heads/main",
				Status:        model.PRStatusActive,
				CreationDate:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	srv := newTestServer(t, remote)

	resp, err := http.Get(srv.URL + "/api/v1/prs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var prs []PRResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&prs))
	require.Len(t, prs, 1)
	assert.Equal(t, 42, prs[0].ID)
	assert.Equal(t, "feature-x", prs[0].SourceBranch)
	assert.Empty(t, prs[0].DescriptionHTML, "list responses skip HTML rendering")
}

func TestListPRs_EmptyIsData(t *testing.T) {
	srv := newTestServer(t, &stubRemote{})

	resp, err := http.Get(srv.URL + "/api/v1/prs?status=completed")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var prs []PRResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&prs))
	assert.Empty(t, prs)
}

func TestListPRs_InvalidStatus(t *testing.T) {
	srv := newTestServer(t, &stubRemote{})

	resp, err := http.Get(srv.URL + "/api/v1/prs?status=merged")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPR_RendersDescription(t *testing.T) {
	remote := &stubRemote{
		pr: &model.PullRequest{
			ID:          42,
			Title:       "Add feature X",
			Description: "Implements *the thing*.",
			Status:      model.PRStatusActive,
		},
	}
	srv := newTestServer(t, remote)

	resp, err := http.Get(srv.URL + "/api/v1/prs/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pr PRResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
	assert.Contains(t, pr.DescriptionHTML, "<em>the thing</em>")
}

func TestCreatePR(t *testing.T) {
	srv := newTestServer(t, &stubRemote{})

	body := `{"source_branch":"feature-x","target_branch":"main","title":"Add feature X"}`
	resp, err := http.Post(srv.URL+"/api/v1/prs", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var pr PRResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
	assert.Equal(t, 99, pr.ID)
	assert.Equal(t, "feature-x", pr.SourceBranch)
}

func TestCreatePR_MissingTitle(t *testing.T) {
	srv := newTestServer(t, &stubRemote{})

	body := `{"source_branch":"feature-x","target_branch":"main"}`
	resp, err := http.Post(srv.URL+"/api/v1/prs", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVotePR(t *testing.T) {
	remote := &stubRemote{
		reviewer: &model.Reviewer{
			Identity: model.Identity{ID: "user-1", DisplayName: "Alice"},
			Vote:     model.VoteApproved,
		},
	}
	srv := newTestServer(t, remote)

	resp, err := http.Post(srv.URL+"/api/v1/prs/42/vote", "application/json", strings.NewReader(`{"vote":10}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var r ReviewerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	assert.Equal(t, 10, r.Vote)
	assert.Equal(t, "approved", r.VoteLabel)
}

func TestVotePR_InvalidValue(t *testing.T) {
	srv := newTestServer(t, &stubRemote{})

	resp, err := http.Post(srv.URL+"/api/v1/prs/42/vote", "application/json", strings.NewReader(`{"vote":3}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompletePR(t *testing.T) {
	remote := &stubRemote{
		pr: &model.PullRequest{ID: 42, Status: model.PRStatusCompleted},
	}
	srv := newTestServer(t, remote)

	body := `{"merge_strategy":"squash","delete_source_branch":true}`
	resp, err := http.Post(srv.URL+"/api/v1/prs/42/complete", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pr PRResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
	assert.Equal(t, "completed", pr.Status)
}

func TestCompletePR_InvalidStrategy(t *testing.T) {
	srv := newTestServer(t, &stubRemote{})

	body := `{"merge_strategy":"octopus"}`
	resp, err := http.Post(srv.URL+"/api/v1/prs/42/complete", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPipelines(t *testing.T) {
	remote := &stubRemote{
		pr: &model.PullRequest{ID: 42, SourceRefName: "refs/heads/feature-x"},
		runs: []model.PipelineRun{
			{
				ID:          100,
				BuildNumber: "20260301.1",
				Status:      model.PipelineStatusCompleted,
				Result:      model.PipelineResultSucceeded,
				FinishTime:  time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
			},
		},
	}
	srv := newTestServer(t, remote)

	resp, err := http.Get(srv.URL + "/api/v1/prs/42/pipelines")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var runs []PipelineResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "succeeded", runs[0].Result)
	assert.Equal(t, "2026-03-01T11:00:00Z", runs[0].FinishTime)
}

func TestRemoteFailureIsBadGateway(t *testing.T) {
	srv := newTestServer(t, &stubRemote{err: errors.New("boom")})

	resp, err := http.Get(srv.URL + "/api/v1/prs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestNotConfiguredIsServiceUnavailable(t *testing.T) {
	provider := application.NewRemoteClientProvider(nil)
	h := NewHandler(application.NewPRService(provider), provider, slog.Default())
	srv := httptest.NewServer(NewServeMux(h, nil, slog.Default()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/v1/prs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubRemote{})

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.Configured)
}
