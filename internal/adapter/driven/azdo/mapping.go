package azdo

import (
	"strings"
	"time"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/build"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/identity"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"

	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// Nil-safe pointer dereference helpers. The SDK's generated types carry
// pointers for every field.

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolVal(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func timeVal(p *azuredevops.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.Time
}

// mapPullRequest converts an SDK pull request to the domain model.
func mapPullRequest(pr *git.GitPullRequest, webURL string) model.PullRequest {
	out := model.PullRequest{
		ID:            intVal(pr.PullRequestId),
		Title:         strVal(pr.Title),
		Description:   strVal(pr.Description),
		SourceRefName: strVal(pr.SourceRefName),
		TargetRefName: strVal(pr.TargetRefName),
		Status:        mapPRStatus(pr.Status),
		CreationDate:  timeVal(pr.CreationDate),
		URL:           webURL,
		IsDraft:       boolVal(pr.IsDraft),
	}

	if pr.CreatedBy != nil {
		out.CreatedBy = mapIdentityRef(pr.CreatedBy)
	}

	if pr.Reviewers != nil {
		out.Reviewers = make([]model.Reviewer, 0, len(*pr.Reviewers))
		for _, r := range *pr.Reviewers {
			out.Reviewers = append(out.Reviewers, mapReviewer(r))
		}
	}

	return out
}

func mapPRStatus(s *git.PullRequestStatus) model.PRStatus {
	if s == nil {
		return model.PRStatusNotSet
	}
	switch *s {
	case git.PullRequestStatusValues.Active:
		return model.PRStatusActive
	case git.PullRequestStatusValues.Completed:
		return model.PRStatusCompleted
	case git.PullRequestStatusValues.Abandoned:
		return model.PRStatusAbandoned
	default:
		return model.PRStatusNotSet
	}
}

func mapIdentityRef(ref *webapi.IdentityRef) model.Identity {
	return model.Identity{
		ID:          strVal(ref.Id),
		DisplayName: strVal(ref.DisplayName),
		UniqueName:  strVal(ref.UniqueName),
		AvatarURL:   strVal(ref.ImageUrl),
	}
}

func mapReviewer(r git.IdentityRefWithVote) model.Reviewer {
	vote := model.VoteNone
	if r.Vote != nil {
		vote = model.Vote(*r.Vote)
	}
	return model.Reviewer{
		Identity: model.Identity{
			ID:          strVal(r.Id),
			DisplayName: strVal(r.DisplayName),
			UniqueName:  strVal(r.UniqueName),
			AvatarURL:   strVal(r.ImageUrl),
		},
		Vote:        vote,
		IsRequired:  boolVal(r.IsRequired),
		HasDeclined: boolVal(r.HasDeclined),
	}
}

// mapAuthorizedUser converts the connection-data identity record. Display
// name prefers the user-set custom name over the provider name.
func mapAuthorizedUser(u *identity.Identity) model.Identity {
	out := model.Identity{
		DisplayName: strVal(u.ProviderDisplayName),
		UniqueName:  strVal(u.ProviderDisplayName),
	}
	if u.Id != nil {
		out.ID = u.Id.String()
	}
	if custom := strVal(u.CustomDisplayName); custom != "" {
		out.DisplayName = custom
	}
	return out
}

// mapThread converts an SDK comment thread to the domain model.
func mapThread(t git.GitPullRequestCommentThread) model.CommentThread {
	out := model.CommentThread{
		ID:            intVal(t.Id),
		Status:        mapThreadStatus(t.Status),
		IsDeleted:     boolVal(t.IsDeleted),
		PublishedDate: timeVal(t.PublishedDate),
		Context:       mapThreadContext(t.ThreadContext),
	}

	if t.Comments != nil {
		out.Comments = make([]model.Comment, 0, len(*t.Comments))
		for _, c := range *t.Comments {
			out.Comments = append(out.Comments, mapComment(c))
		}
	}

	return out
}

func mapThreadStatus(s *git.CommentThreadStatus) model.ThreadStatus {
	if s == nil {
		return model.ThreadStatusUnknown
	}
	switch *s {
	case git.CommentThreadStatusValues.Active:
		return model.ThreadStatusActive
	case git.CommentThreadStatusValues.Fixed:
		return model.ThreadStatusFixed
	case git.CommentThreadStatusValues.WontFix:
		return model.ThreadStatusWontFix
	case git.CommentThreadStatusValues.Closed:
		return model.ThreadStatusClosed
	case git.CommentThreadStatusValues.ByDesign:
		return model.ThreadStatusByDesign
	case git.CommentThreadStatusValues.Pending:
		return model.ThreadStatusPending
	default:
		return model.ThreadStatusUnknown
	}
}

// threadStatusValue converts a domain thread status to the SDK enum for
// update calls.
func threadStatusValue(s model.ThreadStatus) git.CommentThreadStatus {
	switch s {
	case model.ThreadStatusFixed:
		return git.CommentThreadStatusValues.Fixed
	case model.ThreadStatusWontFix:
		return git.CommentThreadStatusValues.WontFix
	case model.ThreadStatusClosed:
		return git.CommentThreadStatusValues.Closed
	case model.ThreadStatusByDesign:
		return git.CommentThreadStatusValues.ByDesign
	case model.ThreadStatusPending:
		return git.CommentThreadStatusValues.Pending
	default:
		return git.CommentThreadStatusValues.Active
	}
}

// mapThreadContext converts the SDK thread anchor. Service paths carry a
// leading slash; the domain model stores repository-relative paths without it.
func mapThreadContext(tc *git.CommentThreadContext) *model.ThreadContext {
	if tc == nil {
		return nil
	}
	out := &model.ThreadContext{
		FilePath: strings.TrimPrefix(strVal(tc.FilePath), "/"),
	}
	if tc.LeftFileStart != nil {
		out.LeftStart = intVal(tc.LeftFileStart.Line)
	}
	if tc.LeftFileEnd != nil {
		out.LeftEnd = intVal(tc.LeftFileEnd.Line)
	}
	if tc.RightFileStart != nil {
		out.RightStart = intVal(tc.RightFileStart.Line)
	}
	if tc.RightFileEnd != nil {
		out.RightEnd = intVal(tc.RightFileEnd.Line)
	}
	return out
}

func mapComment(c git.Comment) model.Comment {
	out := model.Comment{
		ID:              intVal(c.Id),
		Content:         strVal(c.Content),
		PublishedDate:   timeVal(c.PublishedDate),
		LastUpdatedDate: timeVal(c.LastUpdatedDate),
		IsDeleted:       boolVal(c.IsDeleted),
		Type:            mapCommentType(c.CommentType),
	}
	if c.Author != nil {
		out.Author = mapIdentityRef(c.Author)
	}
	return out
}

func mapCommentType(t *git.CommentType) model.CommentType {
	if t == nil {
		return model.CommentTypeText
	}
	switch *t {
	case git.CommentTypeValues.System:
		return model.CommentTypeSystem
	case git.CommentTypeValues.CodeChange:
		return model.CommentTypeCodeChange
	default:
		return model.CommentTypeText
	}
}

// parseChangeType normalizes the service's change-type string. Combined
// values such as "edit, rename" resolve to rename.
func parseChangeType(s string) model.ChangeType {
	switch {
	case strings.Contains(s, "rename"):
		return model.ChangeTypeRename
	case strings.Contains(s, "add"):
		return model.ChangeTypeAdd
	case strings.Contains(s, "delete"):
		return model.ChangeTypeDelete
	case strings.Contains(s, "edit"):
		return model.ChangeTypeEdit
	default:
		return model.ChangeTypeNone
	}
}

// mapBuild converts an SDK build record to a pipeline run.
func mapBuild(b build.Build, url string) model.PipelineRun {
	out := model.PipelineRun{
		ID:           intVal(b.Id),
		BuildNumber:  strVal(b.BuildNumber),
		Status:       mapBuildStatus(b.Status),
		Result:       mapBuildResult(b.Result),
		SourceBranch: strVal(b.SourceBranch),
		QueueTime:    timeVal(b.QueueTime),
		FinishTime:   timeVal(b.FinishTime),
		URL:          url,
	}
	if b.Definition != nil {
		out.DefinitionName = strVal(b.Definition.Name)
	}
	return out
}

func mapBuildStatus(s *build.BuildStatus) model.PipelineStatus {
	if s == nil {
		return model.PipelineStatusUnknown
	}
	switch *s {
	case build.BuildStatusValues.InProgress:
		return model.PipelineStatusInProgress
	case build.BuildStatusValues.Completed:
		return model.PipelineStatusCompleted
	case build.BuildStatusValues.NotStarted:
		return model.PipelineStatusNotStarted
	case build.BuildStatusValues.Cancelling:
		return model.PipelineStatusCancelling
	case build.BuildStatusValues.Postponed:
		return model.PipelineStatusPostponed
	default:
		return model.PipelineStatusUnknown
	}
}

func mapBuildResult(r *build.BuildResult) model.PipelineResult {
	if r == nil {
		return model.PipelineResultNone
	}
	switch *r {
	case build.BuildResultValues.Succeeded:
		return model.PipelineResultSucceeded
	case build.BuildResultValues.PartiallySucceeded:
		return model.PipelineResultPartiallySucceeded
	case build.BuildResultValues.Failed:
		return model.PipelineResultFailed
	case build.BuildResultValues.Canceled:
		return model.PipelineResultCanceled
	default:
		return model.PipelineResultNone
	}
}

// mergeStrategyValue converts a domain merge strategy to the SDK enum.
func mergeStrategyValue(s model.MergeStrategy) git.GitPullRequestMergeStrategy {
	switch s {
	case model.MergeSquash:
		return git.GitPullRequestMergeStrategyValues.Squash
	case model.MergeRebase:
		return git.GitPullRequestMergeStrategyValues.Rebase
	case model.MergeRebaseMerge:
		return git.GitPullRequestMergeStrategyValues.RebaseMerge
	default:
		return git.GitPullRequestMergeStrategyValues.NoFastForward
	}
}

// prStatusValue converts a domain PR status to the SDK search enum.
func prStatusValue(s model.PRStatus) git.PullRequestStatus {
	switch s {
	case model.PRStatusCompleted:
		return git.PullRequestStatusValues.Completed
	case model.PRStatusAbandoned:
		return git.PullRequestStatusValues.Abandoned
	case model.PRStatusAll:
		return git.PullRequestStatusValues.All
	default:
		return git.PullRequestStatusValues.Active
	}
}
