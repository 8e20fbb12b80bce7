package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

const (
	MinRating = 1
	MaxRating = 5

	DefaultTopRatedLimit = 20
	MaxTopRatedLimit     = 100
)

// RatingService handles business logic for album ratings.
type RatingService struct {
	ratings repository.RatingRepository
	albums  repository.AlbumRepository
	logger  *slog.Logger
}

func NewRatingService(ratings repository.RatingRepository, albums repository.AlbumRepository, logger *slog.Logger) *RatingService {
	return &RatingService{ratings: ratings, albums: albums, logger: logger}
}

// Rate records (or overwrites) the user's rating and returns it together
// with the album's new average.
func (s *RatingService) Rate(ctx context.Context, userID, albumID string, value int) (*model.Rating, *model.RatingSummary, error) {
	if value < MinRating || value > MaxRating {
		return nil, nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	if _, err := s.albums.FindByID(ctx, albumID); err != nil {
		return nil, nil, err
	}

	rating := &model.Rating{UserID: userID, AlbumID: albumID, Rating: value}
	if err := s.ratings.Set(ctx, rating); err != nil {
		s.logger.Error("failed to set rating",
			slog.String("userID", userID),
			slog.String("albumID", albumID),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("setting rating: %w", err)
	}

	summary, err := s.ratings.GetAlbumAverage(ctx, albumID)
	if err != nil {
		return nil, nil, fmt.Errorf("getting album average: %w", err)
	}

	s.logger.Info("album rated",
		slog.String("userID", userID),
		slog.String("albumID", albumID),
		slog.Int("rating", value),
	)
	return rating, summary, nil
}

// UserRating returns the caller's own rating for an album.
func (s *RatingService) UserRating(ctx context.Context, userID, albumID string) (*model.Rating, error) {
	return s.ratings.GetUserRating(ctx, userID, albumID)
}

// AlbumAverage returns the album's average and count. The album is checked
// first so a bad id yields a 404 instead of a zero summary.
func (s *RatingService) AlbumAverage(ctx context.Context, albumID string) (*model.RatingSummary, error) {
	if _, err := s.albums.FindByID(ctx, albumID); err != nil {
		return nil, err
	}
	return s.ratings.GetAlbumAverage(ctx, albumID)
}

// AlbumRatings lists every rating for an album. Admin-only read.
func (s *RatingService) AlbumRatings(ctx context.Context, albumID string) ([]model.Rating, error) {
	if _, err := s.albums.FindByID(ctx, albumID); err != nil {
		return nil, err
	}
	return s.ratings.GetAlbumRatings(ctx, albumID)
}

// UserRatings returns the caller's rating history.
func (s *RatingService) UserRatings(ctx context.Context, userID string) ([]model.Rating, error) {
	return s.ratings.GetUserRatings(ctx, userID)
}

// Remove deletes the user's rating and returns the album's new average.
func (s *RatingService) Remove(ctx context.Context, userID, albumID string) (*model.RatingSummary, error) {
	if err := s.ratings.Delete(ctx, userID, albumID); err != nil {
		return nil, err
	}
	summary, err := s.ratings.GetAlbumAverage(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("getting album average: %w", err)
	}
	s.logger.Info("rating removed",
		slog.String("userID", userID),
		slog.String("albumID", albumID),
	)
	return summary, nil
}

// TopRated lists the best-rated albums that clear the minimum-votes floor.
func (s *RatingService) TopRated(ctx context.Context, limit int) ([]model.Album, error) {
	if limit <= 0 {
		limit = DefaultTopRatedLimit
	}
	if limit > MaxTopRatedLimit {
		limit = MaxTopRatedLimit
	}
	return s.ratings.TopRated(ctx, limit)
}
