package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/naudiz/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authMode and secret configure the owner identity middleware.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authMode, secret string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(OwnerMiddleware(authMode, secret))

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/search", h.Search)
		r.Get("/trash", h.ListTrash)

		r.Route("/batch", func(r chi.Router) {
			r.Post("/trash", h.BatchTrash)
			r.Post("/restore", h.BatchRestore)
			r.Post("/delete", h.BatchDelete)
			r.Post("/pin", h.BatchPin)
			r.Post("/move", h.BatchMove)
			r.Post("/remove", h.BatchRemove)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetNote)
			r.Patch("/", h.UpdateNote)
			r.Delete("/", h.DeleteNote)
			r.Post("/trash", h.TrashNote)
			r.Post("/restore", h.RestoreNote)
			r.Post("/copy", h.CopyNote)
			r.Post("/pin", h.TogglePin)
			r.Post("/folder", h.MoveToFolder)
			r.Delete("/folder/{folderID}", h.RemoveFromFolder)
		})
	})

	r.Route("/folders", func(r chi.Router) {
		r.Get("/", h.ListFolders)
		r.Post("/", h.CreateFolder)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetFolder)
			r.Patch("/", h.RenameFolder)
			r.Delete("/", h.DeleteFolder)
			r.Get("/notes", h.ListFolderNotes)
		})
	})

	// SSE endpoint (protected by the same owner middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
