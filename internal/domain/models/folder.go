// internal/domain/models/folder.go
package models

// ViewKind is the layout of one view in a workspace folder hierarchy.
type ViewKind string

const (
	ViewKindSpace    ViewKind = "space"
	ViewKindDocument ViewKind = "document"
	ViewKindGrid     ViewKind = "grid"
	ViewKindBoard    ViewKind = "board"
	ViewKindCalendar ViewKind = "calendar"
)

// Folder is a decoded workspace folder document: the navigable hierarchy
// of views rooted at the workspace itself. The decoder guarantees the
// node graph is acyclic; depth is not bounded here and callers must
// bound their own traversals.
type Folder struct {
	WorkspaceID string      `json:"workspace_id"`
	Root        *FolderNode `json:"root"`
}

// FolderNode is one view in a decoded folder tree. Children keep the
// source document's order.
type FolderNode struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Kind     ViewKind      `json:"kind"`
	Children []*FolderNode `json:"children,omitempty"`
}

// FolderView is a folder tree truncated to a requested depth. Nodes past
// the depth ceiling are omitted entirely, not included as empty stubs.
type FolderView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Kind     ViewKind      `json:"kind"`
	Children []*FolderView `json:"children,omitempty"`
}

// PublishedView is the public projection of a folder tree: only views
// that are published, plus the ancestors needed to reach them. The root
// is always retained.
type PublishedView struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Kind     ViewKind         `json:"kind"`
	Children []*PublishedView `json:"children,omitempty"`
}
