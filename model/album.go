package model

import "time"

// Album is a release by exactly one Artist.
//
// Label (free text) and LabelID (reference) coexist on purpose: older rows
// carry only the text field, and the two are updated independently.
// ArtistName/LabelName and the rating aggregates are enrichment fields,
// derived on read, never stored. Tracks is populated only by
// FindByIDWithTracks.
type Album struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ArtistID    string    `json:"artist_id"`
	ReleaseYear int       `json:"release_year,omitempty"`
	Label       string    `json:"label,omitempty"`
	LabelID     string    `json:"label_id,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Format      string    `json:"format,omitempty"`
	Style       string    `json:"style,omitempty"`
	ReleaseType string    `json:"release_type,omitempty"`
	ArtistName  string    `json:"artist_name,omitempty"`
	LabelName   string    `json:"label_name,omitempty"`
	AvgRating   float64   `json:"avg_rating"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Tracks []Track `json:"tracks,omitempty"`
}
