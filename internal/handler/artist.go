package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/service"
)

// ArtistHandler serves the artist catalog endpoints.
type ArtistHandler struct {
	artists *service.ArtistService
	albums  *service.AlbumService
	logger  *slog.Logger
}

func NewArtistHandler(artists *service.ArtistService, albums *service.AlbumService, logger *slog.Logger) *ArtistHandler {
	return &ArtistHandler{artists: artists, albums: albums, logger: logger}
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage. Pagination inputs are never worth a 400.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// HandleList handles GET /api/artists?page=&limit=.
func (h *ArtistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", service.DefaultArtistLimit)
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	artists, err := h.artists.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

// HandleGrouped handles GET /api/artists/grouped.
func (h *ArtistHandler) HandleGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.artists.Grouped(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// HandleSearch handles GET /api/artists/search?q=.
func (h *ArtistHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artists.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

// HandleGet handles GET /api/artists/{id}. The response includes the
// artist's albums.
func (h *ArtistHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	artist, err := h.artists.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// HandleAlbums handles GET /api/artists/{id}/albums.
func (h *ArtistHandler) HandleAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albums.ByArtist(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// HandleCreate handles POST /api/artists. Admin only.
func (h *ArtistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.Artist
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	artist, err := h.artists.Create(r.Context(), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

// HandleUpdate handles PUT /api/artists/{id}. Admin only.
func (h *ArtistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.Artist
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	artist, err := h.artists.Update(r.Context(), r.PathValue("id"), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// HandleDelete handles DELETE /api/artists/{id}. Admin only.
func (h *ArtistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.artists.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
