package noteservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starford/naudiz/internal/apperr"
	"github.com/starford/naudiz/internal/models"
)

func TestSearchMatchesTitleAndBody(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := mustCreate(t, svc, "Grocery List", "eggs")
	b := mustCreate(t, svc, "misc", "buy groceries")
	mustCreate(t, svc, "unrelated", "nothing here")

	res, err := svc.Search(ctx, owner, "GROCER", nil)
	require.NoError(t, err)
	require.Len(t, res.Notes, 2)
	require.False(t, res.FoundInFolders)

	ids := []string{res.Notes[0].ID, res.Notes[1].ID}
	require.Contains(t, ids, a.ID)
	require.Contains(t, ids, b.ID)
}

func TestSearchBlankQueryReturnsScope(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "a", "")
	mustCreate(t, svc, "b", "")
	trashed := mustCreate(t, svc, "c", "")
	_, err := svc.TrashNote(ctx, owner, trashed.ID)
	require.NoError(t, err)

	res, err := svc.Search(ctx, owner, "   ", nil)
	require.NoError(t, err)
	require.Len(t, res.Notes, 2, "blank query lists the active set, trash excluded")
}

func TestSearchFolderScope(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	f := mustFolder(t, svc, "Work")
	in := mustCreate(t, svc, "meeting notes", "")
	mustCreate(t, svc, "meeting agenda", "")
	_, err := svc.MoveToFolder(ctx, owner, in.ID, f.ID)
	require.NoError(t, err)

	res, err := svc.Search(ctx, owner, "meeting", &f.ID)
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)
	require.Equal(t, in.ID, res.Notes[0].ID)
	require.True(t, res.FoundInFolders)

	_, err = svc.Search(ctx, owner, "meeting", strptr("missing"))
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSearchFlagsFolderedMatches(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	f := mustFolder(t, svc, "Work")
	filed := mustCreate(t, svc, "report draft", "")
	mustCreate(t, svc, "report final", "")
	_, err := svc.MoveToFolder(ctx, owner, filed.ID, f.ID)
	require.NoError(t, err)

	res, err := svc.Search(ctx, owner, "report", nil)
	require.NoError(t, err)
	require.Len(t, res.Notes, 2)
	require.True(t, res.FoundInFolders, "one of the matches lives in a folder")
}

func sortFixture() []models.Note {
	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }
	return []models.Note{
		{ID: "1", Title: "banana", Category: "Work", DateCreated: day(3)},
		{ID: "2", Title: "apple", Category: "Personal", DateCreated: day(1)},
		{ID: "3", Title: "cherry", Category: "Personal", DateCreated: day(2)},
	}
}

func idsOf(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestSortByTitle(t *testing.T) {
	got := Sort(sortFixture(), SortByTitle, false)
	require.Equal(t, []string{"2", "1", "3"}, idsOf(got))

	got = Sort(sortFixture(), SortByTitle, true)
	require.Equal(t, []string{"3", "1", "2"}, idsOf(got))
}

func TestSortByCategoryIsStable(t *testing.T) {
	got := Sort(sortFixture(), SortByCategory, false)
	// Equal categories keep their original relative order.
	require.Equal(t, []string{"2", "3", "1"}, idsOf(got))
}

func TestSortByDateCreatedNewestFirst(t *testing.T) {
	got := Sort(sortFixture(), SortByDateCreated, false)
	require.Equal(t, []string{"1", "3", "2"}, idsOf(got))

	got = Sort(sortFixture(), SortByDateCreated, true)
	require.Equal(t, []string{"2", "3", "1"}, idsOf(got))
}

func TestSortUnknownKeyLeavesOrder(t *testing.T) {
	fixture := sortFixture()
	got := Sort(fixture, "bogus", false)
	require.Equal(t, idsOf(fixture), idsOf(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	fixture := sortFixture()
	_ = Sort(fixture, SortByTitle, false)
	require.Equal(t, []string{"1", "2", "3"}, idsOf(fixture))
}
