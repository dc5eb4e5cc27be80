package store

import (
	"context"
	"time"

	"github.com/starford/naudiz/internal/models"
)

// NoteRepository defines the persistence operations for notes. Consumers
// should depend on this interface rather than the concrete *NoteStore type
// to facilitate testing with mocks.
type NoteRepository interface {
	Insert(ctx context.Context, n *models.Note) error
	Get(ctx context.Context, ownerID, id string) (*models.Note, error)
	Patch(ctx context.Context, ownerID, id string, p models.NotePatch, now time.Time) (int64, error)
	Trash(ctx context.Context, ownerID string, ids []string, now time.Time) (int64, error)
	Restore(ctx context.Context, ownerID string, ids []string, now time.Time) (int64, error)
	PurgeTrashed(ctx context.Context, ownerID string, ids []string) (int64, error)
	MoveToFolder(ctx context.Context, ownerID string, ids []string, folderID string, now time.Time) (int64, error)
	RemoveFromFolder(ctx context.Context, ownerID string, ids []string, folderID string, now time.Time) (int64, error)
	SetTag(ctx context.Context, ownerID string, ids []string, fromTag, toTag string, now time.Time) (int64, error)
	Tags(ctx context.Context, ownerID string, ids []string) (map[string]string, error)
	ListActive(ctx context.Context, ownerID string) ([]models.Note, error)
	ListTrashed(ctx context.Context, ownerID string) ([]models.Note, error)
	ListByFolder(ctx context.Context, ownerID, folderID string) ([]models.Note, error)
	Search(ctx context.Context, ownerID, query string, folderID *string) ([]models.Note, error)
}

// FolderRepository defines the persistence operations for folders.
type FolderRepository interface {
	Insert(ctx context.Context, f *models.Folder) error
	Get(ctx context.Context, ownerID, id string) (*models.Folder, error)
	Rename(ctx context.Context, ownerID, id, title string, now time.Time) (int64, error)
	Delete(ctx context.Context, ownerID, id string, now time.Time) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)
}

// Compile-time interface checks.
var (
	_ NoteRepository   = (*NoteStore)(nil)
	_ FolderRepository = (*FolderStore)(nil)
)
