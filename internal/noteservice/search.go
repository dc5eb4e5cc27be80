package noteservice

import (
	"context"
	"sort"
	"strings"

	"github.com/starford/naudiz/internal/models"
)

// Sort keys accepted by Sort. Anything else leaves the order unchanged.
const (
	SortByTitle       = "title"
	SortByCategory    = "category"
	SortByDateCreated = "dateCreated"
)

// SearchResult is the payload of a search: the matching notes plus a hint
// for the UI that some matches live inside folders.
type SearchResult struct {
	Notes          []models.Note `json:"notes"`
	FoundInFolders bool          `json:"found_in_folders"`
}

// Search filters the owner's active notes by case-insensitive substring
// containment over title or body. A nil folderID searches the full active
// set, otherwise only the folder's members. An empty or whitespace-only
// query returns the whole scope unchanged rather than an empty result.
// Trashed notes never match, whatever the scope.
func (s *Service) Search(ctx context.Context, ownerID, query string, folderID *string) (*SearchResult, error) {
	var (
		notes []models.Note
		err   error
	)
	if strings.TrimSpace(query) == "" {
		if folderID != nil {
			notes, err = s.ListFolderNotes(ctx, ownerID, *folderID)
		} else {
			notes, err = s.notes.ListActive(ctx, ownerID)
		}
	} else {
		if folderID != nil {
			if _, ferr := s.folders.Get(ctx, ownerID, *folderID); ferr != nil {
				return nil, ferr
			}
		}
		notes, err = s.notes.Search(ctx, ownerID, query, folderID)
	}
	if err != nil {
		return nil, err
	}

	res := &SearchResult{Notes: notes}
	for _, n := range notes {
		if n.FolderID != nil {
			res.FoundInFolders = true
			break
		}
	}
	return res, nil
}

// Sort orders a copy of notes by key. title and category sort ascending,
// dateCreated sorts newest-first; reverse flips whichever order the key
// defines (the usual use being oldest-first by creation date). Unknown keys
// return the collection unchanged. The sort is stable, so equal keys keep
// their original relative order.
func Sort(notes []models.Note, key string, reverse bool) []models.Note {
	out := make([]models.Note, len(notes))
	copy(out, notes)

	var less func(a, b *models.Note) bool
	switch key {
	case SortByTitle:
		less = func(a, b *models.Note) bool { return a.Title < b.Title }
	case SortByCategory:
		less = func(a, b *models.Note) bool { return a.Category < b.Category }
	case SortByDateCreated:
		less = func(a, b *models.Note) bool { return a.DateCreated.After(b.DateCreated) }
	default:
		return out
	}
	if reverse {
		inner := less
		less = func(a, b *models.Note) bool { return inner(b, a) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}
