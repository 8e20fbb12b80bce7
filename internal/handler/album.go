package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/service"
)

// AlbumHandler serves the album catalog endpoints.
type AlbumHandler struct {
	albums *service.AlbumService
	tracks *service.TrackService
	logger *slog.Logger
}

func NewAlbumHandler(albums *service.AlbumService, tracks *service.TrackService, logger *slog.Logger) *AlbumHandler {
	return &AlbumHandler{albums: albums, tracks: tracks, logger: logger}
}

// HandleGet handles GET /api/albums/{id}. The response includes the
// tracklist in position order.
func (h *AlbumHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	album, err := h.albums.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// HandleByArtist handles GET /api/albums/artist/{artistID}.
func (h *AlbumHandler) HandleByArtist(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albums.ByArtist(r.Context(), r.PathValue("artistID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// HandleSearch handles GET /api/albums/search?q=. Matches album titles and
// artist names.
func (h *AlbumHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albums.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// HandleTracks handles GET /api/albums/{id}/tracks.
func (h *AlbumHandler) HandleTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.tracks.ByAlbum(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// HandleCreate handles POST /api/albums. Admin only.
func (h *AlbumHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.Album
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	album, err := h.albums.Create(r.Context(), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

// HandleUpdate handles PUT /api/albums/{id}. Admin only.
func (h *AlbumHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.Album
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	album, err := h.albums.Update(r.Context(), r.PathValue("id"), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// HandleDelete handles DELETE /api/albums/{id}. Admin only.
func (h *AlbumHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.albums.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
