// Package noteservice implements the note/folder/trash lifecycle engine.
//
// Every operation is scoped to an authenticated owner. Cross-owner access
// reports apperr.ErrNotFound, never a permission error. Mutations are
// executed as single conditional writes in the store; when zero rows match,
// a follow-up ownership probe decides between ErrNotFound (entity absent)
// and ErrInvalidState (entity present but in the wrong lifecycle state).
package noteservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/naudiz/internal/apperr"
	"github.com/starford/naudiz/internal/models"
	"github.com/starford/naudiz/internal/store"
)

// Publisher receives lifecycle events after a mutation has been confirmed
// by the store. Implementations must not block.
type Publisher interface {
	PublishLifecycle(kind, id string)
	PublishBatch(op string, affected int64)
	PublishSweep(deleted int)
}

// RetentionPolicy controls the trash sweeper. Ages are whole days computed
// from millisecond timestamps; notes aged [WarnDays, Days) get a one-time
// warning, notes aged >= Days are permanently deleted.
type RetentionPolicy struct {
	Days     int
	WarnDays int
}

// DefaultRetention is the stock 7-day window with warnings from day 6.
var DefaultRetention = RetentionPolicy{Days: 7, WarnDays: 6}

// Service coordinates the note and folder repositories.
type Service struct {
	notes     store.NoteRepository
	folders   store.FolderRepository
	events    Publisher
	logger    *slog.Logger
	retention RetentionPolicy

	now   func() time.Time
	newID func() string

	warned warnSet
}

// NewService creates a lifecycle engine over db. events may be nil.
func NewService(db *store.DB, retention RetentionPolicy, events Publisher, logger *slog.Logger) *Service {
	if retention.Days <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		notes:     db.Notes(),
		folders:   db.Folders(),
		events:    events,
		logger:    logger,
		retention: retention,
		now:       time.Now,
		newID:     uuid.NewString,
		warned:    newWarnSet(),
	}
}

// CreateNoteInput carries the fields of a note creation request.
type CreateNoteInput struct {
	Title    string
	Body     string
	Color    string
	Category string
}

// CreateNote creates an active, unfiled note. At least one of title and
// body must remain after trimming.
func (s *Service) CreateNote(ctx context.Context, ownerID string, in CreateNoteInput) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Body) == "" {
		return nil, apperr.ErrInvalidInput
	}
	now := s.now()
	n := &models.Note{
		ID:          s.newID(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Body:        in.Body,
		Color:       in.Color,
		Category:    in.Category,
		Tag:         models.TagNone,
		DateCreated: now,
		DateUpdated: now,
	}
	if err := s.notes.Insert(ctx, n); err != nil {
		return nil, err
	}
	s.publish("note.created", n.ID)
	return n, nil
}

// GetNote returns a single owned note.
func (s *Service) GetNote(ctx context.Context, ownerID, id string) (*models.Note, error) {
	return s.notes.Get(ctx, ownerID, id)
}

// UpdateNote applies a partial update. An empty patch is rejected.
func (s *Service) UpdateNote(ctx context.Context, ownerID, id string, patch models.NotePatch) (*models.Note, error) {
	if patch.Empty() {
		return nil, apperr.ErrInvalidInput
	}
	affected, err := s.notes.Patch(ctx, ownerID, id, patch, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.ErrNotFound
	}
	s.publish("note.updated", id)
	return s.notes.Get(ctx, ownerID, id)
}

// TrashNote moves an active note to the trash, detaching it from any
// folder. Trashing an already-trashed note is an invalid state.
func (s *Service) TrashNote(ctx context.Context, ownerID, id string) (*models.Note, error) {
	affected, err := s.notes.Trash(ctx, ownerID, []string{id}, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.probeNote(ctx, ownerID, id)
	}
	s.publish("note.trashed", id)
	return s.notes.Get(ctx, ownerID, id)
}

// RestoreNote moves a trashed note back to the active, unfiled collection.
// It never returns to its original folder.
func (s *Service) RestoreNote(ctx context.Context, ownerID, id string) (*models.Note, error) {
	affected, err := s.notes.Restore(ctx, ownerID, []string{id}, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.probeNote(ctx, ownerID, id)
	}
	s.warned.forget(id)
	s.publish("note.restored", id)
	return s.notes.Get(ctx, ownerID, id)
}

// PermanentlyDeleteNote removes a note forever. Only legal from the trash.
func (s *Service) PermanentlyDeleteNote(ctx context.Context, ownerID, id string) error {
	affected, err := s.notes.PurgeTrashed(ctx, ownerID, []string{id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.probeNote(ctx, ownerID, id)
	}
	s.warned.forget(id)
	s.publish("note.deleted", id)
	return nil
}

// CopyNote duplicates a note's content under a new id with fresh
// timestamps. The copy lands in targetFolderID when given, else unfiled.
func (s *Service) CopyNote(ctx context.Context, ownerID, id string, targetFolderID *string) (*models.Note, error) {
	src, err := s.notes.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if targetFolderID != nil {
		if _, err := s.folders.Get(ctx, ownerID, *targetFolderID); err != nil {
			return nil, err
		}
	}
	now := s.now()
	dup := &models.Note{
		ID:          s.newID(),
		OwnerID:     ownerID,
		Title:       src.Title + " copy",
		Body:        src.Body,
		Color:       src.Color,
		Category:    src.Category,
		Tag:         src.Tag,
		FolderID:    targetFolderID,
		DateCreated: now,
		DateUpdated: now,
	}
	if err := s.notes.Insert(ctx, dup); err != nil {
		return nil, err
	}
	s.publish("note.created", dup.ID)
	return dup, nil
}

// MoveToFolder files an unfiled active note into a folder. A note that is
// already filed must be removed first; silent reassignment is not allowed.
func (s *Service) MoveToFolder(ctx context.Context, ownerID, noteID, folderID string) (*models.Note, error) {
	if _, err := s.folders.Get(ctx, ownerID, folderID); err != nil {
		return nil, err
	}
	affected, err := s.notes.MoveToFolder(ctx, ownerID, []string{noteID}, folderID, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.probeNote(ctx, ownerID, noteID)
	}
	s.publish("note.updated", noteID)
	return s.notes.Get(ctx, ownerID, noteID)
}

// RemoveFromFolder unfiles a note, provided it currently sits in folderID.
func (s *Service) RemoveFromFolder(ctx context.Context, ownerID, noteID, folderID string) (*models.Note, error) {
	affected, err := s.notes.RemoveFromFolder(ctx, ownerID, []string{noteID}, folderID, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.probeNote(ctx, ownerID, noteID)
	}
	s.publish("note.updated", noteID)
	return s.notes.Get(ctx, ownerID, noteID)
}

// TogglePin flips a single note between "none" and "important".
func (s *Service) TogglePin(ctx context.Context, ownerID, id string) (*models.Note, error) {
	n, err := s.notes.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	affected, err := s.notes.SetTag(ctx, ownerID, []string{id}, n.Tag, flipTag(n.Tag), s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost a race with a concurrent tag change.
		return nil, apperr.ErrInvalidState
	}
	s.publish("note.updated", id)
	return s.notes.Get(ctx, ownerID, id)
}

// TogglePinBatch flips the tag of a uniform selection. A selection whose
// owned notes carry mixed tags is ambiguous and is rejected wholesale.
func (s *Service) TogglePinBatch(ctx context.Context, ownerID string, ids []string) (models.BatchResult, error) {
	if len(ids) == 0 {
		return models.BatchResult{}, apperr.ErrInvalidInput
	}
	tags, err := s.notes.Tags(ctx, ownerID, ids)
	if err != nil {
		return models.BatchResult{}, err
	}
	if len(tags) == 0 {
		return models.BatchResult{}, nil
	}
	current := ""
	for _, tag := range tags {
		if current == "" {
			current = tag
		} else if tag != current {
			return models.BatchResult{}, apperr.ErrInvalidState
		}
	}
	affected, err := s.notes.SetTag(ctx, ownerID, ids, current, flipTag(current), s.now())
	if err != nil {
		return models.BatchResult{}, err
	}
	s.publishBatch("pin", affected)
	return models.BatchResult{Affected: affected}, nil
}

// BatchTrash trashes every eligible note in ids. Already-trashed notes are
// skipped; the count reflects only notes actually moved.
func (s *Service) BatchTrash(ctx context.Context, ownerID string, ids []string) (models.BatchResult, error) {
	if len(ids) == 0 {
		return models.BatchResult{}, apperr.ErrInvalidInput
	}
	affected, err := s.notes.Trash(ctx, ownerID, ids, s.now())
	if err != nil {
		return models.BatchResult{}, err
	}
	s.publishBatch("trash", affected)
	return models.BatchResult{Affected: affected}, nil
}

// BatchRestore restores every trashed note in ids.
func (s *Service) BatchRestore(ctx context.Context, ownerID string, ids []string) (models.BatchResult, error) {
	if len(ids) == 0 {
		return models.BatchResult{}, apperr.ErrInvalidInput
	}
	affected, err := s.notes.Restore(ctx, ownerID, ids, s.now())
	if err != nil {
		return models.BatchResult{}, err
	}
	for _, id := range ids {
		s.warned.forget(id)
	}
	s.publishBatch("restore", affected)
	return models.BatchResult{Affected: affected}, nil
}

// BatchPermanentDelete purges every trashed note in ids.
func (s *Service) BatchPermanentDelete(ctx context.Context, ownerID string, ids []string) (models.BatchResult, error) {
	if len(ids) == 0 {
		return models.BatchResult{}, apperr.ErrInvalidInput
	}
	affected, err := s.notes.PurgeTrashed(ctx, ownerID, ids)
	if err != nil {
		return models.BatchResult{}, err
	}
	for _, id := range ids {
		s.warned.forget(id)
	}
	s.publishBatch("delete", affected)
	return models.BatchResult{Affected: affected}, nil
}

// BatchMoveToFolder files every unfiled active note in ids into folderID.
func (s *Service) BatchMoveToFolder(ctx context.Context, ownerID string, ids []string, folderID string) (models.BatchResult, error) {
	if len(ids) == 0 {
		return models.BatchResult{}, apperr.ErrInvalidInput
	}
	if _, err := s.folders.Get(ctx, ownerID, folderID); err != nil {
		return models.BatchResult{}, err
	}
	affected, err := s.notes.MoveToFolder(ctx, ownerID, ids, folderID, s.now())
	if err != nil {
		return models.BatchResult{}, err
	}
	s.publishBatch("move", affected)
	return models.BatchResult{Affected: affected}, nil
}

// BatchRemoveFromFolder unfiles every note in ids that sits in folderID.
func (s *Service) BatchRemoveFromFolder(ctx context.Context, ownerID string, ids []string, folderID string) (models.BatchResult, error) {
	if len(ids) == 0 {
		return models.BatchResult{}, apperr.ErrInvalidInput
	}
	affected, err := s.notes.RemoveFromFolder(ctx, ownerID, ids, folderID, s.now())
	if err != nil {
		return models.BatchResult{}, err
	}
	s.publishBatch("remove", affected)
	return models.BatchResult{Affected: affected}, nil
}

// ListActiveNotes returns the owner's active notes, newest first.
func (s *Service) ListActiveNotes(ctx context.Context, ownerID string) ([]models.Note, error) {
	return s.notes.ListActive(ctx, ownerID)
}

// ListTrashedNotes sweeps expired trash and returns what remains.
// The sweep is best-effort housekeeping: if its delete step fails, the
// pre-sweep listing is returned and the failure only logged.
func (s *Service) ListTrashedNotes(ctx context.Context, ownerID string) ([]models.Note, error) {
	trashed, err := s.notes.ListTrashed(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.sweep(ctx, ownerID, trashed), nil
}

// ListFolderNotes returns the active members of an owned folder.
func (s *Service) ListFolderNotes(ctx context.Context, ownerID, folderID string) ([]models.Note, error) {
	if _, err := s.folders.Get(ctx, ownerID, folderID); err != nil {
		return nil, err
	}
	return s.notes.ListByFolder(ctx, ownerID, folderID)
}

// CreateFolder creates an empty folder.
func (s *Service) CreateFolder(ctx context.Context, ownerID, title string) (*models.Folder, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.ErrInvalidInput
	}
	now := s.now()
	f := &models.Folder{
		ID:          s.newID(),
		OwnerID:     ownerID,
		Title:       title,
		DateCreated: now,
		DateUpdated: now,
	}
	if err := s.folders.Insert(ctx, f); err != nil {
		return nil, err
	}
	s.publish("folder.created", f.ID)
	return f, nil
}

// GetFolder returns a single owned folder.
func (s *Service) GetFolder(ctx context.Context, ownerID, id string) (*models.Folder, error) {
	return s.folders.Get(ctx, ownerID, id)
}

// RenameFolder changes a folder's title.
func (s *Service) RenameFolder(ctx context.Context, ownerID, id, title string) (*models.Folder, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.ErrInvalidInput
	}
	affected, err := s.folders.Rename(ctx, ownerID, id, title, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.ErrNotFound
	}
	s.publish("folder.renamed", id)
	return s.folders.Get(ctx, ownerID, id)
}

// DeleteFolder removes a folder, detaching (never deleting) its members.
func (s *Service) DeleteFolder(ctx context.Context, ownerID, id string) error {
	if err := s.folders.Delete(ctx, ownerID, id, s.now()); err != nil {
		return err
	}
	s.publish("folder.deleted", id)
	return nil
}

// ListFolders returns the owner's folders, newest first.
func (s *Service) ListFolders(ctx context.Context, ownerID string) ([]models.Folder, error) {
	return s.folders.ListByOwner(ctx, ownerID)
}

// probeNote explains a zero-row conditional write: the note either does not
// exist for this owner (NotFound) or exists in a state the operation does
// not accept (InvalidState).
func (s *Service) probeNote(ctx context.Context, ownerID, id string) error {
	if _, err := s.notes.Get(ctx, ownerID, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	return apperr.ErrInvalidState
}

func (s *Service) publish(kind, id string) {
	if s.events != nil {
		s.events.PublishLifecycle(kind, id)
	}
}

func (s *Service) publishBatch(op string, affected int64) {
	if s.events != nil {
		s.events.PublishBatch(op, affected)
	}
}

func flipTag(tag string) string {
	if tag == models.TagImportant {
		return models.TagNone
	}
	return models.TagImportant
}
