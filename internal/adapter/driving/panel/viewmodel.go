package panel

import (
	"time"

	"github.com/azdopanel/azdopanel/internal/application"
	"github.com/azdopanel/azdopanel/internal/diff"
	"github.com/azdopanel/azdopanel/internal/domain/model"
)

// PanelStateView is the initial snapshot pushed when a client connects: the
// pull request, its pipeline runs, and the change list with per-file
// loading state. No diff content is included.
type PanelStateView struct {
	SessionID   string         `json:"sessionId"`
	PullRequest PRView         `json:"pullRequest"`
	Pipelines   []PipelineView `json:"pipelines"`
	Files       []FileView     `json:"files"`
	CurrentUser IdentityView   `json:"currentUser"`
}

// PRView is the pull request as rendered in the panel header.
type PRView struct {
	ID              int            `json:"id"`
	Title           string         `json:"title"`
	DescriptionHTML string         `json:"descriptionHtml"`
	SourceBranch    string         `json:"sourceBranch"`
	TargetBranch    string         `json:"targetBranch"`
	Status          string         `json:"status"`
	IsDraft         bool           `json:"isDraft"`
	CreatedBy       IdentityView   `json:"createdBy"`
	CreationDate    string         `json:"creationDate"`
	URL             string         `json:"url"`
	Reviewers       []ReviewerView `json:"reviewers"`
}

// IdentityView is a user as rendered in the panel.
type IdentityView struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// ReviewerView is one reviewer row in the panel header.
type ReviewerView struct {
	Identity   IdentityView `json:"identity"`
	Vote       int          `json:"vote"`
	VoteLabel  string       `json:"voteLabel"`
	IsRequired bool         `json:"isRequired"`
}

// PipelineView is one CI run row.
type PipelineView struct {
	ID          int    `json:"id"`
	BuildNumber string `json:"buildNumber"`
	Definition  string `json:"definition"`
	Status      string `json:"status"`
	Result      string `json:"result,omitempty"`
	QueueTime   string `json:"queueTime"`
	URL         string `json:"url"`
}

// FileView is one entry in the changed-file tree.
type FileView struct {
	Path       string `json:"path"`
	ChangeType string `json:"changeType"`
	State      string `json:"state"`
}

// DiffView is the rendered diff of one file plus the threads anchored to
// it. Rows are side-by-side; the client overlays threads by line and side.
type DiffView struct {
	Path    string       `json:"path"`
	Rows    []RowView    `json:"rows"`
	Threads []ThreadView `json:"threads"`
}

// RowView is one side-by-side row.
type RowView struct {
	Left  CellView `json:"left"`
	Right CellView `json:"right"`
}

// CellView is one side of a row. Empty cells render as filler.
type CellView struct {
	Text   string `json:"text,omitempty"`
	Number int    `json:"number,omitempty"`
	Type   string `json:"type,omitempty"`
	Empty  bool   `json:"empty,omitempty"`
}

// ThreadView is a comment thread as rendered in the panel.
type ThreadView struct {
	ID       int                `json:"id"`
	Status   string             `json:"status"`
	Context  *ThreadContextView `json:"context,omitempty"`
	Comments []CommentView      `json:"comments"`
}

// ThreadContextView is the file/line anchor of a thread.
type ThreadContextView struct {
	FilePath   string `json:"filePath"`
	LeftStart  int    `json:"leftStart,omitempty"`
	LeftEnd    int    `json:"leftEnd,omitempty"`
	RightStart int    `json:"rightStart,omitempty"`
	RightEnd   int    `json:"rightEnd,omitempty"`
}

// CommentView is one comment with its content pre-rendered to sanitized
// HTML.
type CommentView struct {
	ID            int          `json:"id"`
	Author        IdentityView `json:"author"`
	ContentHTML   string       `json:"contentHtml"`
	PublishedDate string       `json:"publishedDate"`
	IsSystem      bool         `json:"isSystem"`
}

// CommentsView splits the session's thread set into general discussion and
// per-file anchored threads.
type CommentsView struct {
	General []ThreadView `json:"general"`
	ByFile  []ThreadView `json:"byFile"`
}

func toPanelStateView(s *application.PanelSession) PanelStateView {
	pr := s.PullRequest()
	list := s.ChangeList()

	files := make([]FileView, 0, len(list.Files))
	for _, f := range list.Files {
		state, _ := s.FileState(f.Path)
		files = append(files, FileView{
			Path:       f.Path,
			ChangeType: string(f.ChangeType),
			State:      string(state),
		})
	}

	pipelines := make([]PipelineView, 0, len(s.Pipelines()))
	for _, run := range s.Pipelines() {
		pipelines = append(pipelines, toPipelineView(run))
	}

	return PanelStateView{
		SessionID:   s.ID,
		PullRequest: toPRView(pr),
		Pipelines:   pipelines,
		Files:       files,
		CurrentUser: toIdentityView(*s.CurrentUser()),
	}
}

func toPRView(pr *model.PullRequest) PRView {
	reviewers := make([]ReviewerView, 0, len(pr.Reviewers))
	for _, r := range pr.Reviewers {
		reviewers = append(reviewers, ReviewerView{
			Identity:   toIdentityView(r.Identity),
			Vote:       int(r.Vote),
			VoteLabel:  r.Vote.String(),
			IsRequired: r.IsRequired,
		})
	}

	return PRView{
		ID:              pr.ID,
		Title:           pr.Title,
		DescriptionHTML: RenderMarkdown(pr.Description),
		SourceBranch:    pr.SourceBranch(),
		TargetBranch:    pr.TargetBranch(),
		Status:          string(pr.Status),
		IsDraft:         pr.IsDraft,
		CreatedBy:       toIdentityView(pr.CreatedBy),
		CreationDate:    pr.CreationDate.UTC().Format(time.RFC3339),
		URL:             pr.URL,
		Reviewers:       reviewers,
	}
}

func toIdentityView(id model.Identity) IdentityView {
	return IdentityView{
		ID:          id.ID,
		DisplayName: id.DisplayName,
		UniqueName:  id.UniqueName,
		AvatarURL:   id.AvatarURL,
	}
}

func toPipelineView(run model.PipelineRun) PipelineView {
	v := PipelineView{
		ID:          run.ID,
		BuildNumber: run.BuildNumber,
		Definition:  run.DefinitionName,
		Status:      string(run.Status),
		QueueTime:   run.QueueTime.UTC().Format(time.RFC3339),
		URL:         run.URL,
	}
	if run.Finished() {
		v.Result = string(run.Result)
	}
	return v
}

// toDiffView lays the diff out side by side and attaches the threads
// anchored to the file.
func toDiffView(d *application.FileDiff, threads []model.CommentThread) DiffView {
	srcRows := diff.SideBySide(d.Lines)

	rows := make([]RowView, 0, len(srcRows))
	for _, r := range srcRows {
		rows = append(rows, RowView{
			Left:  toCellView(r.Left),
			Right: toCellView(r.Right),
		})
	}

	tv := make([]ThreadView, 0, len(threads))
	for _, t := range threads {
		tv = append(tv, toThreadView(t))
	}

	return DiffView{Path: d.Path, Rows: rows, Threads: tv}
}

func toCellView(c diff.Cell) CellView {
	if c.Empty {
		return CellView{Empty: true}
	}
	return CellView{Text: c.Text, Number: c.Number, Type: string(c.Type)}
}

func toCommentView(c model.Comment) CommentView {
	return CommentView{
		ID:            c.ID,
		Author:        toIdentityView(c.Author),
		ContentHTML:   RenderMarkdown(c.Content),
		PublishedDate: c.PublishedDate.UTC().Format(time.RFC3339),
		IsSystem:      c.Type == model.CommentTypeSystem,
	}
}

func toThreadView(t model.CommentThread) ThreadView {
	comments := make([]CommentView, 0, len(t.Comments))
	for _, c := range t.Comments {
		if c.IsDeleted {
			continue
		}
		comments = append(comments, toCommentView(c))
	}

	v := ThreadView{
		ID:       t.ID,
		Status:   string(t.Status),
		Comments: comments,
	}
	if t.Context != nil {
		v.Context = &ThreadContextView{
			FilePath:   t.Context.FilePath,
			LeftStart:  t.Context.LeftStart,
			LeftEnd:    t.Context.LeftEnd,
			RightStart: t.Context.RightStart,
			RightEnd:   t.Context.RightEnd,
		}
	}
	return v
}

func toCommentsView(general, anchored []model.CommentThread) CommentsView {
	g := make([]ThreadView, 0, len(general))
	for _, t := range general {
		g = append(g, toThreadView(t))
	}
	f := make([]ThreadView, 0, len(anchored))
	for _, t := range anchored {
		f = append(f, toThreadView(t))
	}
	return CommentsView{General: g, ByFile: f}
}
