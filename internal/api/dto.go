package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/naudiz/internal/models"
)

// DefaultCategory is applied to new notes that arrive without one.
// This is upstream policy; the engine itself accepts any category.
const DefaultCategory = "Personal"

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Color    string `json:"color"`
	Category string `json:"category"`
}

// Validate requires at least one of title and body to survive trimming.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.By(func(any) error {
			if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Body) == "" {
				return validation.NewError("validation_empty_note", "title or body must be present")
			}
			return nil
		})),
	)
}

// UpdateNoteRequest is the request body for a partial note update.
// Absent fields are left untouched.
type UpdateNoteRequest struct {
	Title    *string `json:"title"`
	Body     *string `json:"body"`
	Color    *string `json:"color"`
	Category *string `json:"category"`
	Tag      *string `json:"tag"`
}

// Validate restricts tag to the closed marker set when supplied.
func (r UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tag, validation.In(models.TagNone, models.TagImportant)),
	)
}

// Patch converts the request into the engine's patch type.
func (r UpdateNoteRequest) Patch() models.NotePatch {
	return models.NotePatch{
		Title:    r.Title,
		Body:     r.Body,
		Color:    r.Color,
		Category: r.Category,
		Tag:      r.Tag,
	}
}

// CopyNoteRequest optionally targets a folder for the duplicate.
type CopyNoteRequest struct {
	FolderID *string `json:"folder_id"`
}

// MoveNoteRequest names the folder a note is filed into.
type MoveNoteRequest struct {
	FolderID string `json:"folder_id"`
}

// Validate requires a folder id.
func (r MoveNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FolderID, validation.Required),
	)
}

// BatchRequest carries the id set of a batch lifecycle operation.
type BatchRequest struct {
	IDs []string `json:"ids"`
}

// Validate rejects an empty id set.
func (r BatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.Required, validation.Length(1, 0)),
	)
}

// BatchFolderRequest carries ids plus the folder they move in or out of.
type BatchFolderRequest struct {
	IDs      []string `json:"ids"`
	FolderID string   `json:"folder_id"`
}

// Validate rejects an empty id set or a missing folder.
func (r BatchFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.FolderID, validation.Required),
	)
}

// FolderRequest is the request body for creating or renaming a folder.
type FolderRequest struct {
	Title string `json:"title"`
}

// Validate requires a non-blank title.
func (r FolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.By(func(any) error {
			if strings.TrimSpace(r.Title) == "" {
				return validation.NewError("validation_blank_title", "title must not be blank")
			}
			return nil
		})),
	)
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
}

// FolderListResponse wraps folder listings.
type FolderListResponse struct {
	Folders []models.Folder `json:"folders"`
}
