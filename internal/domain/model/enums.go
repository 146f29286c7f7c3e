package model

// PRStatus represents the lifecycle state of a pull request.
type PRStatus string

const (
	PRStatusActive    PRStatus = "active"
	PRStatusCompleted PRStatus = "completed"
	PRStatusAbandoned PRStatus = "abandoned"
	PRStatusNotSet    PRStatus = "notSet"
	PRStatusAll       PRStatus = "all"
)

// ThreadStatus represents the state of a comment thread.
type ThreadStatus string

const (
	ThreadStatusActive   ThreadStatus = "active"
	ThreadStatusFixed    ThreadStatus = "fixed"
	ThreadStatusWontFix  ThreadStatus = "wontFix"
	ThreadStatusClosed   ThreadStatus = "closed"
	ThreadStatusByDesign ThreadStatus = "byDesign"
	ThreadStatusPending  ThreadStatus = "pending"
	ThreadStatusUnknown  ThreadStatus = "unknown"
)

// ChangeType classifies how a file changed between the two branch tips.
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "add"
	ChangeTypeEdit   ChangeType = "edit"
	ChangeTypeDelete ChangeType = "delete"
	ChangeTypeRename ChangeType = "rename"
	ChangeTypeNone   ChangeType = "none"
)

// CommentType distinguishes between different origins of PR comments.
type CommentType string

const (
	CommentTypeText       CommentType = "text"
	CommentTypeCodeChange CommentType = "codeChange"
	CommentTypeSystem     CommentType = "system" // Vote changes and other audit events.
)

// Vote is a reviewer's signed integer stance on a pull request.
type Vote int

const (
	VoteRejected                Vote = -10
	VoteWaitingForAuthor        Vote = -5
	VoteNone                    Vote = 0
	VoteApprovedWithSuggestions Vote = 5
	VoteApproved                Vote = 10
)

// String returns the human-readable form of a vote.
func (v Vote) String() string {
	switch v {
	case VoteRejected:
		return "rejected"
	case VoteWaitingForAuthor:
		return "waiting for author"
	case VoteNone:
		return "no vote"
	case VoteApprovedWithSuggestions:
		return "approved with suggestions"
	case VoteApproved:
		return "approved"
	default:
		return "unknown"
	}
}

// Valid reports whether v is one of the five vote values the service accepts.
func (v Vote) Valid() bool {
	switch v {
	case VoteRejected, VoteWaitingForAuthor, VoteNone, VoteApprovedWithSuggestions, VoteApproved:
		return true
	}
	return false
}

// Side identifies which version of a file a line-anchored comment targets.
type Side string

const (
	SideLeft  Side = "left"  // Base / target-branch version.
	SideRight Side = "right" // Modified / source-branch version.
)

// MergeStrategy selects how a completed pull request is merged.
type MergeStrategy string

const (
	MergeNoFastForward MergeStrategy = "noFastForward"
	MergeSquash        MergeStrategy = "squash"
	MergeRebase        MergeStrategy = "rebase"
	MergeRebaseMerge   MergeStrategy = "rebaseMerge"
)

// PipelineStatus is the execution state of a pipeline run.
type PipelineStatus string

const (
	PipelineStatusInProgress PipelineStatus = "inProgress"
	PipelineStatusCompleted  PipelineStatus = "completed"
	PipelineStatusNotStarted PipelineStatus = "notStarted"
	PipelineStatusCancelling PipelineStatus = "cancelling"
	PipelineStatusPostponed  PipelineStatus = "postponed"
	PipelineStatusUnknown    PipelineStatus = "unknown"
)

// PipelineResult is the outcome of a completed pipeline run.
type PipelineResult string

const (
	PipelineResultSucceeded          PipelineResult = "succeeded"
	PipelineResultPartiallySucceeded PipelineResult = "partiallySucceeded"
	PipelineResultFailed             PipelineResult = "failed"
	PipelineResultCanceled           PipelineResult = "canceled"
	PipelineResultNone               PipelineResult = "none"
)
