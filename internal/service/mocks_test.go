package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

// Hand-written in-memory mocks for the repository interfaces. Each stores
// copies, never the caller's pointers, so tests cannot leak state through
// shared structs.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// =========================================================================
// ARTIST MOCK
// =========================================================================

type mockArtistRepo struct {
	artists map[string]*model.Artist
	nextID  int
}

var _ repository.ArtistRepository = (*mockArtistRepo)(nil)

func newMockArtistRepo() *mockArtistRepo {
	return &mockArtistRepo{artists: make(map[string]*model.Artist)}
}

func (m *mockArtistRepo) Create(_ context.Context, artist *model.Artist) error {
	m.nextID++
	artist.ID = fmt.Sprintf("artist-%d", m.nextID)
	artist.CreatedAt = time.Now()
	artist.UpdatedAt = artist.CreatedAt
	stored := *artist
	m.artists[artist.ID] = &stored
	return nil
}

func (m *mockArtistRepo) FindAll(_ context.Context, opts repository.ListOptions) ([]model.Artist, error) {
	result := make([]model.Artist, 0, len(m.artists))
	for _, a := range m.artists {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if opts.Offset >= len(result) {
		return []model.Artist{}, nil
	}
	result = result[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (m *mockArtistRepo) FindByID(_ context.Context, id string) (*model.Artist, error) {
	artist, ok := m.artists[id]
	if !ok {
		return nil, apperror.NotFound("artist", id)
	}
	result := *artist
	return &result, nil
}

func (m *mockArtistRepo) FindByIDWithAlbums(ctx context.Context, id string) (*model.Artist, error) {
	return m.FindByID(ctx, id)
}

func (m *mockArtistRepo) Search(_ context.Context, query string) ([]model.Artist, error) {
	result := []model.Artist{}
	for _, a := range m.artists {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(query)) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockArtistRepo) Update(_ context.Context, artist *model.Artist) error {
	if _, ok := m.artists[artist.ID]; !ok {
		return apperror.NotFound("artist", artist.ID)
	}
	stored := *artist
	m.artists[artist.ID] = &stored
	return nil
}

func (m *mockArtistRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.artists[id]; !ok {
		return apperror.NotFound("artist", id)
	}
	delete(m.artists, id)
	return nil
}

// =========================================================================
// ALBUM MOCK
// =========================================================================

type mockAlbumRepo struct {
	albums map[string]*model.Album
	nextID int
}

var _ repository.AlbumRepository = (*mockAlbumRepo)(nil)

func newMockAlbumRepo() *mockAlbumRepo {
	return &mockAlbumRepo{albums: make(map[string]*model.Album)}
}

func (m *mockAlbumRepo) Create(_ context.Context, album *model.Album) error {
	m.nextID++
	album.ID = fmt.Sprintf("album-%d", m.nextID)
	album.CreatedAt = time.Now()
	album.UpdatedAt = album.CreatedAt
	stored := *album
	m.albums[album.ID] = &stored
	return nil
}

func (m *mockAlbumRepo) FindByID(_ context.Context, id string) (*model.Album, error) {
	album, ok := m.albums[id]
	if !ok {
		return nil, apperror.NotFound("album", id)
	}
	result := *album
	return &result, nil
}

func (m *mockAlbumRepo) FindByIDWithTracks(ctx context.Context, id string) (*model.Album, error) {
	return m.FindByID(ctx, id)
}

func (m *mockAlbumRepo) FindByArtistID(_ context.Context, artistID string) ([]model.Album, error) {
	result := []model.Album{}
	for _, a := range m.albums {
		if a.ArtistID == artistID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAlbumRepo) Search(_ context.Context, query string) ([]model.Album, error) {
	result := []model.Album{}
	for _, a := range m.albums {
		if strings.Contains(strings.ToLower(a.Title), strings.ToLower(query)) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAlbumRepo) Update(_ context.Context, album *model.Album) error {
	if _, ok := m.albums[album.ID]; !ok {
		return apperror.NotFound("album", album.ID)
	}
	stored := *album
	m.albums[album.ID] = &stored
	return nil
}

func (m *mockAlbumRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.albums[id]; !ok {
		return apperror.NotFound("album", id)
	}
	delete(m.albums, id)
	return nil
}

// =========================================================================
// RATING MOCK
// =========================================================================

type mockRatingRepo struct {
	ratings map[string]*model.Rating // key: userID + "|" + albumID
}

var _ repository.RatingRepository = (*mockRatingRepo)(nil)

func newMockRatingRepo() *mockRatingRepo {
	return &mockRatingRepo{ratings: make(map[string]*model.Rating)}
}

func ratingKey(userID, albumID string) string { return userID + "|" + albumID }

func (m *mockRatingRepo) Set(_ context.Context, rating *model.Rating) error {
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = rating.CreatedAt
	stored := *rating
	m.ratings[ratingKey(rating.UserID, rating.AlbumID)] = &stored
	return nil
}

func (m *mockRatingRepo) GetUserRating(_ context.Context, userID, albumID string) (*model.Rating, error) {
	rating, ok := m.ratings[ratingKey(userID, albumID)]
	if !ok {
		return nil, apperror.NotFound("rating", albumID)
	}
	result := *rating
	return &result, nil
}

func (m *mockRatingRepo) GetAlbumAverage(_ context.Context, albumID string) (*model.RatingSummary, error) {
	var sum, count int
	for _, r := range m.ratings {
		if r.AlbumID == albumID {
			sum += r.Rating
			count++
		}
	}
	summary := &model.RatingSummary{RatingCount: count}
	if count > 0 {
		summary.AverageRating = float64(sum) / float64(count)
	}
	return summary, nil
}

func (m *mockRatingRepo) GetAlbumRatings(_ context.Context, albumID string) ([]model.Rating, error) {
	result := []model.Rating{}
	for _, r := range m.ratings {
		if r.AlbumID == albumID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRatingRepo) GetUserRatings(_ context.Context, userID string) ([]model.Rating, error) {
	result := []model.Rating{}
	for _, r := range m.ratings {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRatingRepo) Delete(_ context.Context, userID, albumID string) error {
	key := ratingKey(userID, albumID)
	if _, ok := m.ratings[key]; !ok {
		return apperror.NotFound("rating", albumID)
	}
	delete(m.ratings, key)
	return nil
}

func (m *mockRatingRepo) TopRated(_ context.Context, limit int) ([]model.Album, error) {
	return []model.Album{}, nil
}

// =========================================================================
// LIST MOCK
// =========================================================================

type mockListRepo struct {
	lists  map[string]*model.List
	items  map[string][]model.ListItem // by list ID
	nextID int
}

var _ repository.ListRepository = (*mockListRepo)(nil)

func newMockListRepo() *mockListRepo {
	return &mockListRepo{
		lists: make(map[string]*model.List),
		items: make(map[string][]model.ListItem),
	}
}

func (m *mockListRepo) Create(_ context.Context, list *model.List) error {
	m.nextID++
	list.ID = fmt.Sprintf("list-%d", m.nextID)
	list.ShareID = fmt.Sprintf("share-%d", m.nextID)
	list.CreatedAt = time.Now()
	list.UpdatedAt = list.CreatedAt
	stored := *list
	m.lists[list.ID] = &stored
	return nil
}

func (m *mockListRepo) GetByID(_ context.Context, id string) (*model.List, error) {
	list, ok := m.lists[id]
	if !ok {
		return nil, apperror.NotFound("list", id)
	}
	result := *list
	result.ItemsCount = len(m.items[id])
	return &result, nil
}

func (m *mockListRepo) GetByShareID(_ context.Context, shareID string) (*model.List, error) {
	for _, list := range m.lists {
		if list.ShareID == shareID && list.IsPublic {
			result := *list
			return &result, nil
		}
	}
	return nil, apperror.NotFound("list", shareID)
}

func (m *mockListRepo) GetUserLists(_ context.Context, userID string) ([]model.List, error) {
	result := []model.List{}
	for _, list := range m.lists {
		if list.UserID == userID {
			result = append(result, *list)
		}
	}
	return result, nil
}

func (m *mockListRepo) GetPublicLists(_ context.Context, _ repository.ListOptions) ([]model.List, error) {
	result := []model.List{}
	for _, list := range m.lists {
		if list.IsPublic {
			result = append(result, *list)
		}
	}
	return result, nil
}

func (m *mockListRepo) SearchPublic(_ context.Context, query string, _ repository.ListOptions) ([]model.List, error) {
	result := []model.List{}
	for _, list := range m.lists {
		if list.IsPublic && strings.Contains(strings.ToLower(list.Name), strings.ToLower(query)) {
			result = append(result, *list)
		}
	}
	return result, nil
}

func (m *mockListRepo) Update(_ context.Context, list *model.List) error {
	existing, ok := m.lists[list.ID]
	if !ok || existing.UserID != list.UserID {
		return apperror.NotFound("list", list.ID)
	}
	stored := *list
	m.lists[list.ID] = &stored
	return nil
}

func (m *mockListRepo) Delete(_ context.Context, id, ownerID string) error {
	existing, ok := m.lists[id]
	if !ok || existing.UserID != ownerID {
		return apperror.NotFound("list", id)
	}
	delete(m.lists, id)
	delete(m.items, id)
	return nil
}

func (m *mockListRepo) AddItem(_ context.Context, item *model.ListItem) error {
	for _, existing := range m.items[item.ListID] {
		if existing.Ref() == item.Ref() {
			return apperror.Conflict("item already in list")
		}
	}
	m.nextID++
	item.ID = fmt.Sprintf("item-%d", m.nextID)
	item.CreatedAt = time.Now()
	m.items[item.ListID] = append(m.items[item.ListID], *item)
	return nil
}

func (m *mockListRepo) RemoveItem(_ context.Context, listID, itemID string) error {
	items := m.items[listID]
	for i, item := range items {
		if item.ID == itemID {
			m.items[listID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("list item", itemID)
}

func (m *mockListRepo) GetItems(_ context.Context, listID string) ([]model.ListEntry, error) {
	entries := []model.ListEntry{}
	for _, item := range m.items[listID] {
		entries = append(entries, model.ListEntry{
			ID:      item.ID,
			Type:    item.Type,
			AddedAt: item.CreatedAt,
		})
	}
	return entries, nil
}

func (m *mockListRepo) IsItemInList(_ context.Context, listID string, ref model.ItemRef) (bool, error) {
	for _, item := range m.items[listID] {
		if item.Ref() == ref {
			return true, nil
		}
	}
	return false, nil
}

// =========================================================================
// USER MOCK
// =========================================================================

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.Conflict(fmt.Sprintf("username %q is already taken", user.Username))
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) SetAdmin(_ context.Context, userID string, admin bool) (*model.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("user", userID)
	}
	user.IsAdmin = admin
	result := *user
	return &result, nil
}

func (m *mockUserRepo) IsAdmin(_ context.Context, userID string) (bool, error) {
	user, ok := m.users[userID]
	if !ok {
		return false, apperror.NotFound("user", userID)
	}
	return user.IsAdmin, nil
}

func (m *mockUserRepo) ListAdmins(_ context.Context) ([]model.User, error) {
	result := []model.User{}
	for _, u := range m.users {
		if u.IsAdmin {
			result = append(result, *u)
		}
	}
	return result, nil
}
