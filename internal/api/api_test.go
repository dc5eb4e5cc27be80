package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/starford/naudiz/internal/models"
	"github.com/starford/naudiz/internal/noteservice"
	"github.com/starford/naudiz/internal/testutil"
)

const testOwner = "alice"

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := noteservice.NewService(db, noteservice.DefaultRetention, nil, logger)
	return NewRouter(svc, AuthModeDisabled, "", nil)
}

// do performs a request as testOwner and returns the recorded response.
func do(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("X-Naudiz-Owner", testOwner)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func createNote(t *testing.T, r chi.Router, title string) models.Note {
	t.Helper()
	w := do(t, r, http.MethodPost, "/notes", map[string]string{"title": title, "body": "body of " + title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Note](t, w)
}

func createFolder(t *testing.T, r chi.Router, title string) models.Folder {
	t.Helper()
	w := do(t, r, http.MethodPost, "/folders", map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Folder](t, w)
}

func TestMissingOwnerHeader(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := noteservice.NewService(db, noteservice.DefaultRetention, nil, logger)
	secret := "test-secret"
	r := NewRouter(svc, AuthModeJWT, secret, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   testOwner,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateNoteAppliesDefaultCategory(t *testing.T) {
	r := newTestRouter(t)
	n := createNote(t, r, "hello")
	require.Equal(t, DefaultCategory, n.Category)
	require.Equal(t, models.TagNone, n.Tag)
	require.False(t, n.Trashed)
}

func TestCreateNoteValidation(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/notes", map[string]string{"title": "  ", "body": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader("{not json"))
	req.Header.Set("X-Naudiz-Owner", testOwner)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAndUpdateNote(t *testing.T) {
	r := newTestRouter(t)
	n := createNote(t, r, "original")

	w := do(t, r, http.MethodGet, "/notes/"+n.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPatch, "/notes/"+n.ID, map[string]string{"title": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Note](t, w)
	require.Equal(t, "renamed", got.Title)
	require.Equal(t, "body of original", got.Body)

	w = do(t, r, http.MethodPatch, "/notes/"+n.ID, map[string]string{"tag": "sparkly"})
	require.Equal(t, http.StatusBadRequest, w.Code, "tag outside the marker set")

	w = do(t, r, http.MethodGet, "/notes/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrashRestoreDelete(t *testing.T) {
	r := newTestRouter(t)
	n := createNote(t, r, "doc")

	w := do(t, r, http.MethodDelete, "/notes/"+n.ID, nil)
	require.Equal(t, http.StatusConflict, w.Code, "permanent delete requires the trash")

	w = do(t, r, http.MethodPost, "/notes/"+n.ID+"/trash", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Note](t, w)
	require.True(t, got.Trashed)
	require.NotNil(t, got.DateDeleted)

	w = do(t, r, http.MethodPost, "/notes/"+n.ID+"/trash", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/notes/"+n.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/notes/"+n.ID+"/trash", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodDelete, "/notes/"+n.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/notes/"+n.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCopyNote(t *testing.T) {
	r := newTestRouter(t)
	f := createFolder(t, r, "Work")
	n := createNote(t, r, "doc")

	w := do(t, r, http.MethodPost, "/notes/"+n.ID+"/copy", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	dup := decode[models.Note](t, w)
	require.Equal(t, "doc copy", dup.Title)
	require.Nil(t, dup.FolderID)

	w = do(t, r, http.MethodPost, "/notes/"+n.ID+"/copy", map[string]string{"folder_id": f.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	dup = decode[models.Note](t, w)
	require.NotNil(t, dup.FolderID)
	require.Equal(t, f.ID, *dup.FolderID)
}

func TestFolderMembership(t *testing.T) {
	r := newTestRouter(t)
	f := createFolder(t, r, "Work")
	n := createNote(t, r, "doc")

	w := do(t, r, http.MethodPost, "/notes/"+n.ID+"/folder", map[string]string{"folder_id": f.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/folders/"+f.ID+"/notes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listing := decode[NoteListResponse](t, w)
	require.Len(t, listing.Notes, 1)

	w = do(t, r, http.MethodDelete, "/notes/"+n.ID+"/folder/"+f.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Note](t, w)
	require.Nil(t, got.FolderID)

	w = do(t, r, http.MethodPost, "/notes/"+n.ID+"/folder", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchEndpoints(t *testing.T) {
	r := newTestRouter(t)
	a := createNote(t, r, "a")
	b := createNote(t, r, "b")

	w := do(t, r, http.MethodPost, "/notes/batch/trash", map[string]any{"ids": []string{a.ID, b.ID, "missing"}})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[models.BatchResult](t, w)
	require.EqualValues(t, 2, res.Affected)

	w = do(t, r, http.MethodPost, "/notes/batch/restore", map[string]any{"ids": []string{a.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[models.BatchResult](t, w)
	require.EqualValues(t, 1, res.Affected)

	w = do(t, r, http.MethodPost, "/notes/batch/delete", map[string]any{"ids": []string{a.ID, b.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[models.BatchResult](t, w)
	require.EqualValues(t, 1, res.Affected, "only the still-trashed note is purged")

	w = do(t, r, http.MethodPost, "/notes/batch/trash", map[string]any{"ids": []string{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchPinAndMove(t *testing.T) {
	r := newTestRouter(t)
	f := createFolder(t, r, "Work")
	a := createNote(t, r, "a")
	b := createNote(t, r, "b")

	w := do(t, r, http.MethodPost, "/notes/batch/pin", map[string]any{"ids": []string{a.ID, b.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[models.BatchResult](t, w)
	require.EqualValues(t, 2, res.Affected)

	w = do(t, r, http.MethodPost, "/notes/batch/move", map[string]any{"ids": []string{a.ID, b.ID}, "folder_id": f.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/notes/batch/remove", map[string]any{"ids": []string{a.ID}, "folder_id": f.ID})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[models.BatchResult](t, w)
	require.EqualValues(t, 1, res.Affected)

	w = do(t, r, http.MethodPost, "/notes/batch/move", map[string]any{"ids": []string{a.ID}})
	require.Equal(t, http.StatusBadRequest, w.Code, "folder_id is required")
}

func TestFolderEndpoints(t *testing.T) {
	r := newTestRouter(t)
	f := createFolder(t, r, "Work")

	w := do(t, r, http.MethodGet, "/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listing := decode[FolderListResponse](t, w)
	require.Len(t, listing.Folders, 1)

	w = do(t, r, http.MethodGet, "/folders/"+f.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPatch, "/folders/"+f.ID, map[string]string{"title": "Projects"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Folder](t, w)
	require.Equal(t, "Projects", got.Title)

	w = do(t, r, http.MethodPatch, "/folders/"+f.ID, map[string]string{"title": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodDelete, "/folders/"+f.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/folders/"+f.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)
	f := createFolder(t, r, "Work")
	filed := createNote(t, r, "quarterly report")
	createNote(t, r, "report draft")
	createNote(t, r, "unrelated")
	w := do(t, r, http.MethodPost, "/notes/"+filed.ID+"/folder", map[string]string{"folder_id": f.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/notes/search?q=REPORT", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[noteservice.SearchResult](t, w)
	require.Len(t, res.Notes, 2)
	require.True(t, res.FoundInFolders)

	w = do(t, r, http.MethodGet, "/notes/search?q=report&folder="+f.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[noteservice.SearchResult](t, w)
	require.Len(t, res.Notes, 1)
	require.Equal(t, filed.ID, res.Notes[0].ID)
}

func TestListNotesSorted(t *testing.T) {
	r := newTestRouter(t)
	createNote(t, r, "banana")
	createNote(t, r, "apple")
	createNote(t, r, "cherry")

	w := do(t, r, http.MethodGet, "/notes?sort=title", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listing := decode[NoteListResponse](t, w)
	require.Len(t, listing.Notes, 3)
	require.Equal(t, "apple", listing.Notes[0].Title)
	require.Equal(t, "cherry", listing.Notes[2].Title)

	w = do(t, r, http.MethodGet, "/notes?sort=title&order=asc", nil)
	listing = decode[NoteListResponse](t, w)
	require.Equal(t, "cherry", listing.Notes[0].Title)
}
