package model

import "time"

// Rating is one user's 1–5 score for one album. The (UserID, AlbumID) pair
// is unique; repeat rating overwrites the row (upsert semantics).
// Username and the album fields are enrichment-only.
type Rating struct {
	UserID     string    `json:"user_id"`
	AlbumID    string    `json:"album_id"`
	Rating     int       `json:"rating"`
	Username   string    `json:"username,omitempty"`
	AlbumTitle string    `json:"album_title,omitempty"`
	ArtistName string    `json:"artist_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RatingSummary is the derived average for an album. An album with no
// ratings yields {0, 0}, not an error.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}
