// Package models defines the domain types for Naudiz.
package models

import "time"

// Note tags.
const (
	TagNone      = "none"
	TagImportant = "important" // "pinned"
)

// Note is a single text note owned by exactly one user.
//
// Lifecycle invariants enforced by the engine:
//   - Trashed == true ⇔ DateDeleted != nil.
//   - Trashed == true ⇒ FolderID == nil (trashing detaches from any folder).
type Note struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Color       string     `json:"color,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tag         string     `json:"tag"`
	FolderID    *string    `json:"folder_id"`
	Trashed     bool       `json:"is_trash"`
	DateCreated time.Time  `json:"date_created"`
	DateUpdated time.Time  `json:"date_updated"`
	DateDeleted *time.Time `json:"date_deleted"`
}

// Pinned reports whether the note carries the "important" tag.
func (n *Note) Pinned() bool { return n.Tag == TagImportant }

// Folder is a flat, single-level container. Membership is derived from
// Note.FolderID; a folder never embeds its notes.
type Folder struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	DateCreated time.Time `json:"date_created"`
	DateUpdated time.Time `json:"date_updated"`
}

// NotePatch carries the optional fields of a partial note update.
// Nil fields are left untouched.
type NotePatch struct {
	Title    *string `json:"title,omitempty"`
	Body     *string `json:"body,omitempty"`
	Color    *string `json:"color,omitempty"`
	Category *string `json:"category,omitempty"`
	Tag      *string `json:"tag,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Color == nil &&
		p.Category == nil && p.Tag == nil
}

// BatchResult reports how many notes a batch operation actually affected.
// Notes that failed their individual precondition are skipped, not errors.
type BatchResult struct {
	Affected int64 `json:"affected"`
}
