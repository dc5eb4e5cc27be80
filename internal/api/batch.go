package api

import (
	"net/http"

	"github.com/starford/naudiz/internal/models"
)

// Batch handlers. Each applies one lifecycle transition to a set of note
// ids; notes failing their individual precondition are skipped and the
// response carries only the affected count.

func (h *Handler) batchIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return nil, false
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return nil, false
	}
	return req.IDs, true
}

func writeBatch(w http.ResponseWriter, op string, res models.BatchResult, err error) {
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// BatchTrash handles POST /api/notes/batch/trash.
func (h *Handler) BatchTrash(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.batchIDs(w, r)
	if !ok {
		return
	}
	res, err := h.svc.BatchTrash(r.Context(), OwnerID(r.Context()), ids)
	writeBatch(w, "batch trash", res, err)
}

// BatchRestore handles POST /api/notes/batch/restore.
func (h *Handler) BatchRestore(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.batchIDs(w, r)
	if !ok {
		return
	}
	res, err := h.svc.BatchRestore(r.Context(), OwnerID(r.Context()), ids)
	writeBatch(w, "batch restore", res, err)
}

// BatchDelete handles POST /api/notes/batch/delete (permanent, trash only).
func (h *Handler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.batchIDs(w, r)
	if !ok {
		return
	}
	res, err := h.svc.BatchPermanentDelete(r.Context(), OwnerID(r.Context()), ids)
	writeBatch(w, "batch delete", res, err)
}

// BatchPin handles POST /api/notes/batch/pin. The selection must carry a
// uniform tag; mixed selections are rejected as ambiguous.
func (h *Handler) BatchPin(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.batchIDs(w, r)
	if !ok {
		return
	}
	res, err := h.svc.TogglePinBatch(r.Context(), OwnerID(r.Context()), ids)
	writeBatch(w, "batch pin", res, err)
}

// BatchMove handles POST /api/notes/batch/move.
func (h *Handler) BatchMove(w http.ResponseWriter, r *http.Request) {
	var req BatchFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.BatchMoveToFolder(r.Context(), OwnerID(r.Context()), req.IDs, req.FolderID)
	writeBatch(w, "batch move", res, err)
}

// BatchRemove handles POST /api/notes/batch/remove.
func (h *Handler) BatchRemove(w http.ResponseWriter, r *http.Request) {
	var req BatchFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.BatchRemoveFromFolder(r.Context(), OwnerID(r.Context()), req.IDs, req.FolderID)
	writeBatch(w, "batch remove", res, err)
}
