package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

// RatingStore implements repository.RatingRepository.
type RatingStore struct {
	conn *sql.DB
}

var _ repository.RatingRepository = (*RatingStore)(nil)

// Set upserts the rating. The (user_id, album_id) primary key backs the
// ON CONFLICT clause, so repeat ratings overwrite in a single statement;
// there is no read-then-write window.
func (s *RatingStore) Set(ctx context.Context, rating *model.Rating) error {
	now := time.Now()
	rating.CreatedAt = now
	rating.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO ratings (user_id, album_id, rating, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, album_id)
		 DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at`,
		rating.UserID,
		rating.AlbumID,
		rating.Rating,
		rating.CreatedAt,
		rating.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting rating: %w", err)
	}
	return nil
}

func (s *RatingStore) GetUserRating(ctx context.Context, userID, albumID string) (*model.Rating, error) {
	var rating model.Rating
	err := s.conn.QueryRowContext(ctx,
		`SELECT user_id, album_id, rating, created_at, updated_at
		 FROM ratings
		 WHERE user_id = ? AND album_id = ?`,
		userID, albumID,
	).Scan(
		&rating.UserID, &rating.AlbumID, &rating.Rating,
		&rating.CreatedAt, &rating.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("rating", albumID)
		}
		return nil, fmt.Errorf("sqlite: getting rating: %w", err)
	}
	return &rating, nil
}

// GetAlbumAverage computes mean and count in one pass. With zero ratings
// AVG is NULL; the NullFloat64 coalesces that to 0 so callers always get a
// usable summary, never an error.
func (s *RatingStore) GetAlbumAverage(ctx context.Context, albumID string) (*model.RatingSummary, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(rating) FROM ratings WHERE album_id = ?`,
		albumID,
	).Scan(&avg, &count)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting album average: %w", err)
	}
	return &model.RatingSummary{AverageRating: avg.Float64, RatingCount: count}, nil
}

// GetAlbumRatings lists every rating for an album with the rater's
// username, newest first. Admin moderation read.
func (s *RatingStore) GetAlbumRatings(ctx context.Context, albumID string) ([]model.Rating, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT r.user_id, r.album_id, r.rating, u.username, r.created_at, r.updated_at
		 FROM ratings r
		 JOIN users u ON r.user_id = u.id
		 WHERE r.album_id = ?
		 ORDER BY r.updated_at DESC`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing ratings for album %s: %w", albumID, err)
	}
	defer rows.Close()

	ratings := []model.Rating{}
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(
			&r.UserID, &r.AlbumID, &r.Rating, &r.Username,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning rating row: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ratings: %w", err)
	}
	return ratings, nil
}

// GetUserRatings is the user's rating history enriched with album title
// and artist name, newest first.
func (s *RatingStore) GetUserRatings(ctx context.Context, userID string) ([]model.Rating, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT r.user_id, r.album_id, r.rating, a.title, ar.name, r.created_at, r.updated_at
		 FROM ratings r
		 JOIN albums a ON r.album_id = a.id
		 JOIN artists ar ON a.artist_id = ar.id
		 WHERE r.user_id = ?
		 ORDER BY r.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing ratings for user %s: %w", userID, err)
	}
	defer rows.Close()

	ratings := []model.Rating{}
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(
			&r.UserID, &r.AlbumID, &r.Rating, &r.AlbumTitle, &r.ArtistName,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning rating row: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ratings: %w", err)
	}
	return ratings, nil
}

func (s *RatingStore) Delete(ctx context.Context, userID, albumID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM ratings WHERE user_id = ? AND album_id = ?`,
		userID, albumID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("rating", albumID)
	}
	return nil
}

// TopRated lists albums with at least three ratings, best average first,
// ties broken by rating count. The floor keeps a single 5-star vote from
// topping the chart.
func (s *RatingStore) TopRated(ctx context.Context, limit int) ([]model.Album, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+albumColumns+`, ar.name
		 FROM albums a
		 JOIN artists ar ON a.artist_id = ar.id
		 JOIN ratings r ON a.id = r.album_id
		 GROUP BY a.id
		 HAVING COUNT(r.rating) >= 3
		 ORDER BY AVG(r.rating) DESC, COUNT(r.rating) DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing top rated albums: %w", err)
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows, true, false)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning album row: %w", err)
		}
		albums = append(albums, *album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating albums: %w", err)
	}
	return albums, nil
}
