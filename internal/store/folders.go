package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/naudiz/internal/apperr"
	"github.com/starford/naudiz/internal/models"
)

// FolderStore owns persisted folder rows. Folders never embed notes;
// membership lives on notes.folder_id.
type FolderStore struct {
	conn *sql.DB
}

// Insert persists a freshly created folder.
func (s *FolderStore) Insert(ctx context.Context, f *models.Folder) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO folders (id, owner_id, title, date_created, date_updated)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID, f.OwnerID, f.Title, f.DateCreated.UnixMilli(), f.DateUpdated.UnixMilli())
	if err != nil {
		return fmt.Errorf("store: insert folder: %w", err)
	}
	return nil
}

// Get returns a folder by id, scoped to its owner.
func (s *FolderStore) Get(ctx context.Context, ownerID, id string) (*models.Folder, error) {
	var (
		f       models.Folder
		created int64
		updated int64
	)
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, owner_id, title, date_created, date_updated
		FROM folders WHERE id = ? AND owner_id = ?
	`, id, ownerID).Scan(&f.ID, &f.OwnerID, &f.Title, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get folder: %w", err)
	}
	f.DateCreated = time.UnixMilli(created).UTC()
	f.DateUpdated = time.UnixMilli(updated).UTC()
	return &f, nil
}

// Rename updates the folder title. Returns the count of rows matched.
func (s *FolderStore) Rename(ctx context.Context, ownerID, id, title string, now time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE folders SET title = ?, date_updated = ?
		WHERE id = ? AND owner_id = ?
	`, title, now.UnixMilli(), id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("store: rename folder: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes the folder after detaching every member note, in one
// transaction. Member notes survive with folder_id set to NULL.
func (s *FolderStore) Delete(ctx context.Context, ownerID, id string, now time.Time) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.ExecContext(ctx, `
		UPDATE notes SET folder_id = NULL, date_updated = ?
		WHERE folder_id = ? AND owner_id = ?
	`, now.UnixMilli(), id, ownerID)
	if err != nil {
		return fmt.Errorf("store: detach folder notes: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM folders WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("store: delete folder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}

	return tx.Commit()
}

// ListByOwner returns all folders of an owner, newest first.
func (s *FolderStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, owner_id, title, date_created, date_updated
		FROM folders WHERE owner_id = ?
		ORDER BY date_created DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("store: list folders: %w", err)
	}
	defer rows.Close()

	out := make([]models.Folder, 0, 8)
	for rows.Next() {
		var (
			f       models.Folder
			created int64
			updated int64
		)
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Title, &created, &updated); err != nil {
			return nil, err
		}
		f.DateCreated = time.UnixMilli(created).UTC()
		f.DateUpdated = time.UnixMilli(updated).UTC()
		out = append(out, f)
	}
	return out, rows.Err()
}
