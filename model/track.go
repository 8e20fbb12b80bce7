package model

import "time"

// Track is one entry on an album.
//
// Position is free text ("A1", "B2", "7"); ordering follows a partial
// natural order implemented in package catalog, not plain lexical sort.
// Duration is free text "mm:ss"; the catalog never does arithmetic on it.
type Track struct {
	ID         string    `json:"id"`
	AlbumID    string    `json:"album_id"`
	Position   string    `json:"position,omitempty"`
	Title      string    `json:"title"`
	Duration   string    `json:"duration,omitempty"`
	AlbumTitle string    `json:"album_title,omitempty"`
	ArtistName string    `json:"artist_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
