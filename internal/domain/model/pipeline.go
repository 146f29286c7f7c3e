package model

import "time"

// PipelineRun is one CI execution associated with a pull request's source branch.
type PipelineRun struct {
	ID             int
	BuildNumber    string
	DefinitionName string
	Status         PipelineStatus
	Result         PipelineResult
	SourceBranch   string
	QueueTime      time.Time
	FinishTime     time.Time
	URL            string
}

// Finished reports whether the run has completed, successfully or not.
func (p PipelineRun) Finished() bool {
	return p.Status == PipelineStatusCompleted
}
