package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/naudiz/internal/apperr"
	"github.com/starford/naudiz/internal/models"
)

// NoteStore owns persisted note rows. Every mutation is a single conditional
// statement scoped to (id, owner_id, expected state), so a concurrent
// competing write shows up as zero affected rows rather than a torn update.
type NoteStore struct {
	conn *sql.DB
}

const noteColumns = `id, owner_id, title, body, color, category, tag,
	folder_id, is_trash, date_created, date_updated, date_deleted`

// Insert persists a freshly created note.
func (s *NoteStore) Insert(ctx context.Context, n *models.Note) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.OwnerID, n.Title, n.Body, n.Color, n.Category, n.Tag,
		nullString(n.FolderID), boolInt(n.Trashed),
		n.DateCreated.UnixMilli(), n.DateUpdated.UnixMilli(), nullMilli(n.DateDeleted))
	if err != nil {
		return fmt.Errorf("store: insert note: %w", err)
	}
	return nil
}

// Get returns a note by id, scoped to its owner. A note owned by someone
// else is indistinguishable from a missing one.
func (s *NoteStore) Get(ctx context.Context, ownerID, id string) (*models.Note, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT `+noteColumns+` FROM notes WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// Patch applies the non-nil fields of p and refreshes date_updated.
// Returns the count of rows matched by (id, owner).
func (s *NoteStore) Patch(ctx context.Context, ownerID, id string, p models.NotePatch, now time.Time) (int64, error) {
	set := []string{"date_updated = ?"}
	args := []any{now.UnixMilli()}
	add := func(col string, v *string) {
		if v != nil {
			set = append(set, col+" = ?")
			args = append(args, *v)
		}
	}
	add("title", p.Title)
	add("body", p.Body)
	add("color", p.Color)
	add("category", p.Category)
	add("tag", p.Tag)
	args = append(args, id, ownerID)

	res, err := s.conn.ExecContext(ctx,
		`UPDATE notes SET `+strings.Join(set, ", ")+` WHERE id = ? AND owner_id = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("store: patch note: %w", err)
	}
	return res.RowsAffected()
}

// Trash moves active notes into the trash, detaching them from any folder.
// Already-trashed notes do not match the predicate and are left untouched.
func (s *NoteStore) Trash(ctx context.Context, ownerID string, ids []string, now time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE notes
		SET is_trash = 1, date_deleted = ?, date_updated = ?, folder_id = NULL
		WHERE id IN (`+placeholders(len(ids))+`) AND owner_id = ? AND is_trash = 0
	`, append(append([]any{now.UnixMilli(), now.UnixMilli()}, idArgs(ids)...), ownerID)...)
	if err != nil {
		return 0, fmt.Errorf("store: trash notes: %w", err)
	}
	return res.RowsAffected()
}

// Restore moves trashed notes back to the active, unfiled collection.
func (s *NoteStore) Restore(ctx context.Context, ownerID string, ids []string, now time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE notes
		SET is_trash = 0, date_deleted = NULL, date_updated = ?
		WHERE id IN (`+placeholders(len(ids))+`) AND owner_id = ? AND is_trash = 1
	`, append(append([]any{now.UnixMilli()}, idArgs(ids)...), ownerID)...)
	if err != nil {
		return 0, fmt.Errorf("store: restore notes: %w", err)
	}
	return res.RowsAffected()
}

// PurgeTrashed permanently deletes notes, but only while they sit in the
// trash. Active notes never match.
func (s *NoteStore) PurgeTrashed(ctx context.Context, ownerID string, ids []string) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		DELETE FROM notes
		WHERE id IN (`+placeholders(len(ids))+`) AND owner_id = ? AND is_trash = 1
	`, append(idArgs(ids), ownerID)...)
	if err != nil {
		return 0, fmt.Errorf("store: purge notes: %w", err)
	}
	return res.RowsAffected()
}

// MoveToFolder files unfiled active notes into folderID.
// Notes that are trashed or already filed do not match.
func (s *NoteStore) MoveToFolder(ctx context.Context, ownerID string, ids []string, folderID string, now time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE notes
		SET folder_id = ?, date_updated = ?
		WHERE id IN (`+placeholders(len(ids))+`)
		  AND owner_id = ? AND is_trash = 0 AND folder_id IS NULL
	`, append(append([]any{folderID, now.UnixMilli()}, idArgs(ids)...), ownerID)...)
	if err != nil {
		return 0, fmt.Errorf("store: move notes to folder: %w", err)
	}
	return res.RowsAffected()
}

// RemoveFromFolder unfiles notes currently in folderID.
func (s *NoteStore) RemoveFromFolder(ctx context.Context, ownerID string, ids []string, folderID string, now time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE notes
		SET folder_id = NULL, date_updated = ?
		WHERE id IN (`+placeholders(len(ids))+`) AND owner_id = ? AND folder_id = ?
	`, append(append([]any{now.UnixMilli()}, idArgs(ids)...), ownerID, folderID)...)
	if err != nil {
		return 0, fmt.Errorf("store: remove notes from folder: %w", err)
	}
	return res.RowsAffected()
}

// SetTag flips the tag on every listed note currently tagged fromTag.
func (s *NoteStore) SetTag(ctx context.Context, ownerID string, ids []string, fromTag, toTag string, now time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE notes
		SET tag = ?, date_updated = ?
		WHERE id IN (`+placeholders(len(ids))+`) AND owner_id = ? AND tag = ?
	`, append(append([]any{toTag, now.UnixMilli()}, idArgs(ids)...), ownerID, fromTag)...)
	if err != nil {
		return 0, fmt.Errorf("store: set tag: %w", err)
	}
	return res.RowsAffected()
}

// Tags returns the tag of every owned note among ids. Unknown or
// cross-owner ids are simply absent from the result.
func (s *NoteStore) Tags(ctx context.Context, ownerID string, ids []string) (map[string]string, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, tag FROM notes
		WHERE id IN (`+placeholders(len(ids))+`) AND owner_id = ?
	`, append(idArgs(ids), ownerID)...)
	if err != nil {
		return nil, fmt.Errorf("store: tags: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(ids))
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		out[id] = tag
	}
	return out, rows.Err()
}

// ListActive returns the owner's active notes, newest first.
func (s *NoteStore) ListActive(ctx context.Context, ownerID string) ([]models.Note, error) {
	return s.list(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE owner_id = ? AND is_trash = 0
		ORDER BY date_created DESC
	`, ownerID)
}

// ListTrashed returns the owner's trashed notes, newest first.
func (s *NoteStore) ListTrashed(ctx context.Context, ownerID string) ([]models.Note, error) {
	return s.list(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE owner_id = ? AND is_trash = 1
		ORDER BY date_created DESC
	`, ownerID)
}

// ListByFolder returns the active members of a folder, newest first.
// Trashed notes can never appear because trashing clears folder_id.
func (s *NoteStore) ListByFolder(ctx context.Context, ownerID, folderID string) ([]models.Note, error) {
	return s.list(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE owner_id = ? AND folder_id = ? AND is_trash = 0
		ORDER BY date_created DESC
	`, ownerID, folderID)
}

// Search finds active notes whose title or body contains query,
// case-insensitively. A non-nil folderID narrows the scope to one folder.
// Trashed notes are excluded regardless of scope.
func (s *NoteStore) Search(ctx context.Context, ownerID, query string, folderID *string) ([]models.Note, error) {
	like := "%" + strings.ToLower(query) + "%"
	q := `
		SELECT ` + noteColumns + ` FROM notes
		WHERE owner_id = ? AND is_trash = 0
		  AND (lower(title) LIKE ? OR lower(body) LIKE ?)`
	args := []any{ownerID, like, like}
	if folderID != nil {
		q += ` AND folder_id = ?`
		args = append(args, *folderID)
	}
	q += ` ORDER BY date_updated DESC`
	return s.list(ctx, q, args...)
}

func (s *NoteStore) list(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	out := make([]models.Note, 0, 16)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (*models.Note, error) {
	var (
		n       models.Note
		folder  sql.NullString
		trash   int
		created int64
		updated int64
		deleted sql.NullInt64
	)
	err := r.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Body, &n.Color, &n.Category,
		&n.Tag, &folder, &trash, &created, &updated, &deleted)
	if err != nil {
		return nil, err
	}
	if folder.Valid {
		n.FolderID = &folder.String
	}
	n.Trashed = trash != 0
	n.DateCreated = time.UnixMilli(created).UTC()
	n.DateUpdated = time.UnixMilli(updated).UTC()
	if deleted.Valid {
		t := time.UnixMilli(deleted.Int64).UTC()
		n.DateDeleted = &t
	}
	return &n, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullMilli(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
