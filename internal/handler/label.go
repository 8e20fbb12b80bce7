package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/service"
)

// LabelHandler serves the record label endpoints.
type LabelHandler struct {
	labels *service.LabelService
	logger *slog.Logger
}

func NewLabelHandler(labels *service.LabelService, logger *slog.Logger) *LabelHandler {
	return &LabelHandler{labels: labels, logger: logger}
}

// HandleList handles GET /api/labels?page=&limit=.
func (h *LabelHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", service.DefaultListLimit)
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	labels, err := h.labels.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

// HandleSearch handles GET /api/labels/search?q=.
func (h *LabelHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	labels, err := h.labels.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

// HandleGet handles GET /api/labels/{id}.
func (h *LabelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	label, err := h.labels.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

// HandleArtists handles GET /api/labels/{id}/artists.
func (h *LabelHandler) HandleArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.labels.Artists(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

// HandleAlbums handles GET /api/labels/{id}/albums.
func (h *LabelHandler) HandleAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.labels.Albums(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// HandleCreate handles POST /api/labels. Admin only.
func (h *LabelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.Label
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	label, err := h.labels.Create(r.Context(), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, label)
}

// HandleUpdate handles PUT /api/labels/{id}. Admin only.
func (h *LabelHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.Label
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	label, err := h.labels.Update(r.Context(), r.PathValue("id"), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

// HandleDelete handles DELETE /api/labels/{id}. Admin only.
func (h *LabelHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.labels.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
