package model

import (
	"fmt"
	"time"
)

// List is a user-curated collection of artists and albums.
//
// ShareID is an opaque secondary identifier generated at creation. It lets
// a public list be shared without exposing the primary id or the owner, and
// it never resolves while the list is private.
type List struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	ShareID     string    `json:"share_id"`
	Username    string    `json:"username,omitempty"`
	ItemsCount  int       `json:"items_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemType discriminates what a list item points at.
type ItemType string

const (
	ItemTypeArtist ItemType = "artist"
	ItemTypeAlbum  ItemType = "album"
)

// ItemRef is the tagged-union view of a list item target: a type tag plus
// the one id that matters for it. Storage keeps nullable artist_id/album_id
// columns; everything above the repository speaks ItemRef.
type ItemRef struct {
	Type ItemType `json:"item_type"`
	ID   string   `json:"id"`
}

// Validate checks the tag is a known type and the target id is present.
func (r ItemRef) Validate() error {
	switch r.Type {
	case ItemTypeArtist, ItemTypeAlbum:
	default:
		return fmt.Errorf("item_type must be %q or %q", ItemTypeArtist, ItemTypeAlbum)
	}
	if r.ID == "" {
		return fmt.Errorf("%s id is required", r.Type)
	}
	return nil
}

// Columns splits the ref into the (artist_id, album_id) column pair used by
// the storage layer. Exactly one of the two is non-empty.
func (r ItemRef) Columns() (artistID, albumID string) {
	if r.Type == ItemTypeArtist {
		return r.ID, ""
	}
	return "", r.ID
}

// ListItem is one membership row in a list.
type ListItem struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Type      ItemType  `json:"item_type"`
	ArtistID  string    `json:"artist_id,omitempty"`
	AlbumID   string    `json:"album_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Ref returns the tagged-union view of the item.
func (li ListItem) Ref() ItemRef {
	if li.Type == ItemTypeArtist {
		return ItemRef{Type: ItemTypeArtist, ID: li.ArtistID}
	}
	return ItemRef{Type: ItemTypeAlbum, ID: li.AlbumID}
}

// ListEntry is the expanded form returned by the list-items read: the
// membership row plus the referenced artist or album (exactly one is set,
// matching Type).
type ListEntry struct {
	ID      string    `json:"list_item_id"`
	Type    ItemType  `json:"item_type"`
	AddedAt time.Time `json:"added_date"`
	Artist  *Artist   `json:"artist,omitempty"`
	Album   *Album    `json:"album,omitempty"`
}
