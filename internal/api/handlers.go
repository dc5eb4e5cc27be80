package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/naudiz/internal/models"
	"github.com/starford/naudiz/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// sortParams reads the optional sort/order query parameters.
func sortParams(r *http.Request) (key string, reverse bool) {
	q := r.URL.Query()
	return q.Get("sort"), q.Get("order") == "asc"
}

func applySort(notes []models.Note, r *http.Request) []models.Note {
	key, reverse := sortParams(r)
	if key == "" {
		return notes
	}
	return noteservice.Sort(notes, key, reverse)
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListActiveNotes(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: applySort(notes, r)})
}

// ListTrash handles GET /api/notes/trash. The retention sweep runs inside
// the service before the listing is returned.
func (h *Handler) ListTrash(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListTrashedNotes(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, "list trash", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: applySort(notes, r)})
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if req.Category == "" {
		req.Category = DefaultCategory
	}
	note, err := h.svc.CreateNote(r.Context(), OwnerID(r.Context()), noteservice.CreateNoteInput{
		Title:    req.Title,
		Body:     req.Body,
		Color:    req.Color,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PATCH /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.UpdateNote(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// TrashNote handles POST /api/notes/{id}/trash.
func (h *Handler) TrashNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.TrashNote(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "trash note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// RestoreNote handles POST /api/notes/{id}/restore.
func (h *Handler) RestoreNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.RestoreNote(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "restore note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id} (permanent, trash only).
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.PermanentlyDeleteNote(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CopyNote handles POST /api/notes/{id}/copy.
func (h *Handler) CopyNote(w http.ResponseWriter, r *http.Request) {
	var req CopyNoteRequest
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	note, err := h.svc.CopyNote(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"), req.FolderID)
	if err != nil {
		writeError(w, "copy note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// TogglePin handles POST /api/notes/{id}/pin.
func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.TogglePin(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "toggle pin", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// MoveToFolder handles POST /api/notes/{id}/folder.
func (h *Handler) MoveToFolder(w http.ResponseWriter, r *http.Request) {
	var req MoveNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.MoveToFolder(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"), req.FolderID)
	if err != nil {
		writeError(w, "move note to folder", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// RemoveFromFolder handles DELETE /api/notes/{id}/folder/{folderID}.
func (h *Handler) RemoveFromFolder(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.RemoveFromFolder(r.Context(), OwnerID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "folderID"))
	if err != nil {
		writeError(w, "remove note from folder", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Search handles GET /api/notes/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var folderID *string
	if f := q.Get("folder"); f != "" {
		folderID = &f
	}
	res, err := h.svc.Search(r.Context(), OwnerID(r.Context()), q.Get("q"), folderID)
	if err != nil {
		writeError(w, "search notes", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
