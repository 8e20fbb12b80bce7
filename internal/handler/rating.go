package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/record-crate/internal/auth"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/service"
)

// RatingHandler serves the album rating endpoints.
type RatingHandler struct {
	ratings *service.RatingService
	logger  *slog.Logger
}

func NewRatingHandler(ratings *service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, logger: logger}
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// rateResponse carries the caller's rating together with the album's
// refreshed aggregate, so clients can update both in one round trip.
type rateResponse struct {
	Rating        *model.Rating `json:"rating"`
	AverageRating float64       `json:"average_rating"`
	RatingCount   int           `json:"rating_count"`
}

// HandleRate handles POST /api/ratings/albums/{albumID}/rate.
func (h *RatingHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	var in rateRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	rating, summary, err := h.ratings.Rate(r.Context(), userID, r.PathValue("albumID"), in.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rateResponse{
		Rating:        rating,
		AverageRating: summary.AverageRating,
		RatingCount:   summary.RatingCount,
	})
}

// HandleMyRating handles GET /api/ratings/albums/{albumID}/my-rating.
func (h *RatingHandler) HandleMyRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	rating, err := h.ratings.UserRating(r.Context(), userID, r.PathValue("albumID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

// HandleAverage handles GET /api/ratings/albums/{albumID}/average. Public.
func (h *RatingHandler) HandleAverage(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ratings.AlbumAverage(r.Context(), r.PathValue("albumID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleMyRatings handles GET /api/ratings/my-ratings.
func (h *RatingHandler) HandleMyRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	ratings, err := h.ratings.UserRatings(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

// HandleRemove handles DELETE /api/ratings/albums/{albumID}/rate. The
// response echoes the album's aggregate after the removal.
func (h *RatingHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	summary, err := h.ratings.Remove(r.Context(), userID, r.PathValue("albumID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleTopRated handles GET /api/ratings/top-rated. Public.
func (h *RatingHandler) HandleTopRated(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", service.DefaultTopRatedLimit)

	albums, err := h.ratings.TopRated(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// HandleAlbumRatings handles GET /api/ratings/albums/{albumID}/ratings.
// Admin only: exposes who rated what.
func (h *RatingHandler) HandleAlbumRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.ratings.AlbumRatings(r.Context(), r.PathValue("albumID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}
