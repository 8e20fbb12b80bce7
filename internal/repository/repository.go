// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation;
// services never import it directly.
package repository

import (
	"context"

	"github.com/sakif/record-crate/model"
)

// ListOptions is limit/offset pagination. Handlers speak 1-based page
// numbers; services convert to an offset before calling the repository.
type ListOptions struct {
	Limit  int
	Offset int
}

type ArtistRepository interface {
	Create(ctx context.Context, artist *model.Artist) error
	FindAll(ctx context.Context, opts ListOptions) ([]model.Artist, error)
	FindByID(ctx context.Context, id string) (*model.Artist, error)
	// FindByIDWithAlbums is the enrichment read: the artist row plus its
	// albums attached, fetched in two steps.
	FindByIDWithAlbums(ctx context.Context, id string) (*model.Artist, error)
	Search(ctx context.Context, query string) ([]model.Artist, error)
	Update(ctx context.Context, artist *model.Artist) error
	Delete(ctx context.Context, id string) error
}

type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) error
	FindByID(ctx context.Context, id string) (*model.Album, error)
	FindByIDWithTracks(ctx context.Context, id string) (*model.Album, error)
	FindByArtistID(ctx context.Context, artistID string) ([]model.Album, error)
	Search(ctx context.Context, query string) ([]model.Album, error)
	Update(ctx context.Context, album *model.Album) error
	Delete(ctx context.Context, id string) error
}

type LabelRepository interface {
	Create(ctx context.Context, label *model.Label) error
	FindAll(ctx context.Context, opts ListOptions) ([]model.Label, error)
	FindByID(ctx context.Context, id string) (*model.Label, error)
	FindByName(ctx context.Context, name string) (*model.Label, error)
	Search(ctx context.Context, query string) ([]model.Label, error)
	GetArtists(ctx context.Context, labelID string) ([]model.Artist, error)
	GetAlbums(ctx context.Context, labelID string) ([]model.Album, error)
	Update(ctx context.Context, label *model.Label) error
	Delete(ctx context.Context, id string) error
}

type TrackRepository interface {
	Create(ctx context.Context, track *model.Track) error
	FindByID(ctx context.Context, id string) (*model.Track, error)
	// FindByAlbumID returns the album's tracks in position order (side
	// letters first, fallback values after; see catalog.PositionKey).
	FindByAlbumID(ctx context.Context, albumID string) ([]model.Track, error)
	FindByArtistID(ctx context.Context, artistID string) ([]model.Track, error)
	Update(ctx context.Context, track *model.Track) error
	Delete(ctx context.Context, id string) error
}

type RatingRepository interface {
	// Set upserts on (user_id, album_id): insert, or overwrite the rating
	// and bump updated_at.
	Set(ctx context.Context, rating *model.Rating) error
	GetUserRating(ctx context.Context, userID, albumID string) (*model.Rating, error)
	GetAlbumAverage(ctx context.Context, albumID string) (*model.RatingSummary, error)
	GetAlbumRatings(ctx context.Context, albumID string) ([]model.Rating, error)
	GetUserRatings(ctx context.Context, userID string) ([]model.Rating, error)
	Delete(ctx context.Context, userID, albumID string) error
	// TopRated lists albums with at least three ratings, best average
	// first, ties broken by rating count.
	TopRated(ctx context.Context, limit int) ([]model.Album, error)
}

type ListRepository interface {
	Create(ctx context.Context, list *model.List) error
	GetByID(ctx context.Context, id string) (*model.List, error)
	// GetByShareID only resolves public lists; a private list's share id
	// behaves as if it does not exist.
	GetByShareID(ctx context.Context, shareID string) (*model.List, error)
	GetUserLists(ctx context.Context, userID string) ([]model.List, error)
	GetPublicLists(ctx context.Context, opts ListOptions) ([]model.List, error)
	SearchPublic(ctx context.Context, query string, opts ListOptions) ([]model.List, error)
	// Update and Delete carry the owner in the mutating query itself, on
	// top of the service-level ownership check.
	Update(ctx context.Context, list *model.List) error
	Delete(ctx context.Context, id, ownerID string) error
	// AddItem relies on the unique index over (list_id, item_type,
	// artist_id, album_id): a concurrent duplicate insert fails with a
	// conflict instead of slipping past the pre-check.
	AddItem(ctx context.Context, item *model.ListItem) error
	RemoveItem(ctx context.Context, listID, itemID string) error
	GetItems(ctx context.Context, listID string) ([]model.ListEntry, error)
	IsItemInList(ctx context.Context, listID string, ref model.ItemRef) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	SetAdmin(ctx context.Context, userID string, admin bool) (*model.User, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
	ListAdmins(ctx context.Context) ([]model.User, error)
}
