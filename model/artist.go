package model

import "time"

// Artist is a performer or group in the catalog. LabelID is an optional
// reference to a Label; LabelName is filled by enrichment reads that join
// the label, and Albums only by FindByIDWithAlbums.
type Artist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio,omitempty"`
	Location   string    `json:"location,omitempty"`
	FormedYear int       `json:"formed_year,omitempty"`
	LabelID    string    `json:"label_id,omitempty"`
	LabelName  string    `json:"label_name,omitempty"`
	AvgRating  float64   `json:"avg_rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Albums []Album `json:"albums,omitempty"`
}

// ArtistGroup is one alphabetical bucket of the grouped artists listing.
// Letter is "A".."Z" or "0-10" for names starting with anything else.
type ArtistGroup struct {
	Letter  string   `json:"letter"`
	Artists []Artist `json:"artists"`
}
