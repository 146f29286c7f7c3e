package model

// FileChange is one changed file between the two branch tips of a pull
// request. Folders are excluded before this type is constructed.
type FileChange struct {
	Path       string // Repository-relative, no leading slash.
	ChangeType ChangeType

	// OriginalPath is the pre-rename path, set only for renames. The base
	// side of a renamed file lives at this path on the target branch.
	OriginalPath string
}

// ChangeList is the changed-file listing for a pull request together with
// the two branch names (refs/heads/ prefix already stripped) the diff was
// computed between.
type ChangeList struct {
	Files     []FileChange
	SourceRef string
	TargetRef string
}
