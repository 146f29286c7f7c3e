package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/azdopanel/azdopanel/internal/adapter/driving/panel"
	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// PRResponse is the JSON representation of a pull request. DescriptionHTML
// is populated only on the single-PR detail endpoint.
type PRResponse struct {
	ID              int                `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	DescriptionHTML string             `json:"description_html,omitempty"`
	SourceBranch    string             `json:"source_branch"`
	TargetBranch    string             `json:"target_branch"`
	Status          string             `json:"status"`
	IsDraft         bool               `json:"is_draft"`
	CreatedBy       string             `json:"created_by"`
	CreationDate    string             `json:"creation_date"`
	URL             string             `json:"url"`
	Reviewers       []ReviewerResponse `json:"reviewers"`
}

// ReviewerResponse is one voting identity on a pull request.
type ReviewerResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Vote        int    `json:"vote"`
	VoteLabel   string `json:"vote_label"`
	IsRequired  bool   `json:"is_required"`
}

// PipelineResponse is the JSON representation of a CI run.
type PipelineResponse struct {
	ID          int    `json:"id"`
	BuildNumber string `json:"build_number"`
	Definition  string `json:"definition"`
	Status      string `json:"status"`
	Result      string `json:"result,omitempty"`
	QueueTime   string `json:"queue_time"`
	FinishTime  string `json:"finish_time,omitempty"`
	URL         string `json:"url"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
	Time       string `json:"time"`
}

// CreatePRRequest is the JSON body for the create pull request endpoint.
type CreatePRRequest struct {
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

// VoteRequest is the JSON body for the vote endpoint.
type VoteRequest struct {
	Vote int `json:"vote"`
}

// CompleteRequest is the JSON body for the complete endpoint.
type CompleteRequest struct {
	MergeStrategy      string `json:"merge_strategy"`
	DeleteSourceBranch bool   `json:"delete_source_branch"`
	MergeCommitMessage string `json:"merge_commit_message"`
}

// toPRResponse converts a domain PullRequest to its JSON representation.
// detail adds the sanitized HTML rendering of the description.
func toPRResponse(pr model.PullRequest, detail bool) PRResponse {
	reviewers := make([]ReviewerResponse, 0, len(pr.Reviewers))
	for _, r := range pr.Reviewers {
		reviewers = append(reviewers, toReviewerResponse(r))
	}

	resp := PRResponse{
		ID:           pr.ID,
		Title:        pr.Title,
		Description:  pr.Description,
		SourceBranch: pr.SourceBranch(),
		TargetBranch: pr.TargetBranch(),
		Status:       string(pr.Status),
		IsDraft:      pr.IsDraft,
		CreatedBy:    pr.CreatedBy.DisplayName,
		CreationDate: pr.CreationDate.UTC().Format(time.RFC3339),
		URL:          pr.URL,
		Reviewers:    reviewers,
	}
	if detail {
		resp.DescriptionHTML = panel.RenderMarkdown(pr.Description)
	}
	return resp
}

// toReviewerResponse converts a domain Reviewer to its JSON representation.
func toReviewerResponse(r model.Reviewer) ReviewerResponse {
	return ReviewerResponse{
		ID:          r.Identity.ID,
		DisplayName: r.Identity.DisplayName,
		Vote:        int(r.Vote),
		VoteLabel:   r.Vote.String(),
		IsRequired:  r.IsRequired,
	}
}

// toPipelineResponse converts a domain PipelineRun to its JSON representation.
func toPipelineResponse(run model.PipelineRun) PipelineResponse {
	resp := PipelineResponse{
		ID:          run.ID,
		BuildNumber: run.BuildNumber,
		Definition:  run.DefinitionName,
		Status:      string(run.Status),
		QueueTime:   run.QueueTime.UTC().Format(time.RFC3339),
		URL:         run.URL,
	}
	if run.Finished() {
		resp.Result = string(run.Result)
		resp.FinishTime = run.FinishTime.UTC().Format(time.RFC3339)
	}
	return resp
}
