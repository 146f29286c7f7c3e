package model

import (
	"strings"
	"time"
)

const refPrefix = "refs/heads/"

// PullRequest represents a pull request fetched from the remote service.
// It is immutable once fetched; mutating actions (vote, complete) re-fetch
// the record rather than patching it in place.
type PullRequest struct {
	ID            int
	Title         string
	Description   string
	SourceRefName string // "refs/heads/<name>" form.
	TargetRefName string
	Status        PRStatus
	CreatedBy     Identity
	CreationDate  time.Time
	URL           string
	IsDraft       bool
	Reviewers     []Reviewer
}

// SourceBranch returns the source branch name with the refs/heads/ prefix stripped.
func (pr PullRequest) SourceBranch() string {
	return strings.TrimPrefix(pr.SourceRefName, refPrefix)
}

// TargetBranch returns the target branch name with the refs/heads/ prefix stripped.
func (pr PullRequest) TargetBranch() string {
	return strings.TrimPrefix(pr.TargetRefName, refPrefix)
}

// ReviewerFor returns the reviewer entry for the given identity id, if any.
// The service keeps at most one entry per voting identity.
func (pr PullRequest) ReviewerFor(identityID string) (Reviewer, bool) {
	for _, r := range pr.Reviewers {
		if r.Identity.ID == identityID {
			return r, true
		}
	}
	return Reviewer{}, false
}

// Reviewer is one voting identity on a pull request.
type Reviewer struct {
	Identity    Identity
	Vote        Vote
	IsRequired  bool
	HasDeclined bool
}

// CreatePROptions carries the fields needed to open a new pull request.
// Branch names are plain (no refs/heads/ prefix); the adapter expands them.
type CreatePROptions struct {
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
}

// CompletionOptions controls how a pull request is completed (merged).
type CompletionOptions struct {
	MergeStrategy      MergeStrategy
	DeleteSourceBranch bool
	MergeCommitMessage string
}
