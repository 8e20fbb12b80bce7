package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/service"
)

// TrackHandler serves the track endpoints.
type TrackHandler struct {
	tracks *service.TrackService
	logger *slog.Logger
}

func NewTrackHandler(tracks *service.TrackService, logger *slog.Logger) *TrackHandler {
	return &TrackHandler{tracks: tracks, logger: logger}
}

// HandleGet handles GET /api/tracks/{id}.
func (h *TrackHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	track, err := h.tracks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// HandleByAlbum handles GET /api/tracks/albums/{albumID}. Tracks come back
// in position order.
func (h *TrackHandler) HandleByAlbum(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.tracks.ByAlbum(r.Context(), r.PathValue("albumID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// HandleByArtist handles GET /api/tracks/artists/{artistID}.
func (h *TrackHandler) HandleByArtist(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.tracks.ByArtist(r.Context(), r.PathValue("artistID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// HandleCreate handles POST /api/tracks. Admin only.
func (h *TrackHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.Track
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	track, err := h.tracks.Create(r.Context(), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, track)
}

// HandleUpdate handles PUT /api/tracks/{id}. Admin only.
func (h *TrackHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.Track
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	track, err := h.tracks.Update(r.Context(), r.PathValue("id"), &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// HandleDelete handles DELETE /api/tracks/{id}. Admin only.
func (h *TrackHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.tracks.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
