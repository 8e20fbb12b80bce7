package model

import "time"

// Label is a record label. Name is unique across the catalog.
// ArtistCount and AlbumCount are aggregates computed by list/detail reads.
type Label struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	FoundedYear int       `json:"founded_year,omitempty"`
	Country     string    `json:"country,omitempty"`
	Website     string    `json:"website,omitempty"`
	ArtistCount int       `json:"artist_count"`
	AlbumCount  int       `json:"album_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
