package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListFolders handles GET /api/folders.
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.ListFolders(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, "list folders", err)
		return
	}
	writeJSON(w, http.StatusOK, FolderListResponse{Folders: folders})
}

// CreateFolder handles POST /api/folders.
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	folder, err := h.svc.CreateFolder(r.Context(), OwnerID(r.Context()), req.Title)
	if err != nil {
		writeError(w, "create folder", err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// GetFolder handles GET /api/folders/{id}.
func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.svc.GetFolder(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get folder", err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// RenameFolder handles PATCH /api/folders/{id}.
func (h *Handler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	folder, err := h.svc.RenameFolder(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeError(w, "rename folder", err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// DeleteFolder handles DELETE /api/folders/{id}. Member notes are detached,
// never deleted.
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFolder(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFolderNotes handles GET /api/folders/{id}/notes.
func (h *Handler) ListFolderNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListFolderNotes(r.Context(), OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "list folder notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: applySort(notes, r)})
}
