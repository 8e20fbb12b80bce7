// Package client is a typed Go client for the record-crate REST API.
//
// The bearer token is explicit state on the Client value: Login and
// Register store the issued token, SetToken installs one obtained
// elsewhere. Nothing is read from ambient storage, so two Clients can act
// as two different users in the same process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/record-crate/model"
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int    // HTTP status code
	Type    string // machine-readable error kind, e.g. "validation_error"
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Type, e.Message)
}

// Client talks to one record-crate server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken installs a bearer token obtained outside Login, e.g. one kept
// from a previous session.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token, empty if unauthenticated.
func (c *Client) Token() string {
	return c.token
}

// do sends one request and decodes the response into out (ignored if nil).
// Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Type = body.Error
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// pageQuery renders ?page=&limit= with the given fallback limit.
func pageQuery(page, limit, defaultLimit int) string {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return "?" + q.Encode()
}

// ============================================================
// Auth
// ============================================================

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates an account and stores the issued token on the Client.
func (c *Client) Register(ctx context.Context, username, password string) (*model.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{username, password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// Login authenticates and stores the issued token on the Client.
func (c *Client) Login(ctx context.Context, username, password string) (*model.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{username, password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/api/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetAdmin grants or revokes the admin flag on a user. Admin only.
func (c *Client) SetAdmin(ctx context.Context, userID string, admin bool) (*model.User, error) {
	var user model.User
	body := struct {
		Admin bool `json:"admin"`
	}{admin}
	if err := c.do(ctx, http.MethodPost, "/api/auth/users/"+url.PathEscape(userID)+"/admin", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Admins lists users with the admin flag. Admin only.
func (c *Client) Admins(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "/api/auth/admins", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ============================================================
// Artists
// ============================================================

// Artists fetches a page of artists. A zero limit means 100, the page
// size the catalog views use.
func (c *Client) Artists(ctx context.Context, page, limit int) ([]model.Artist, error) {
	var artists []model.Artist
	if err := c.get(ctx, "/api/artists"+pageQuery(page, limit, 100), &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

// ArtistsGrouped fetches artists bucketed alphabetically, "0-10" first.
func (c *Client) ArtistsGrouped(ctx context.Context) ([]model.ArtistGroup, error) {
	var groups []model.ArtistGroup
	if err := c.get(ctx, "/api/artists/grouped", &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) SearchArtists(ctx context.Context, query string) ([]model.Artist, error) {
	var artists []model.Artist
	if err := c.get(ctx, "/api/artists/search?q="+url.QueryEscape(query), &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

// Artist fetches one artist with its albums.
func (c *Client) Artist(ctx context.Context, id string) (*model.Artist, error) {
	var artist model.Artist
	if err := c.get(ctx, "/api/artists/"+url.PathEscape(id), &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

func (c *Client) ArtistAlbums(ctx context.Context, id string) ([]model.Album, error) {
	var albums []model.Album
	if err := c.get(ctx, "/api/artists/"+url.PathEscape(id)+"/albums", &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (c *Client) CreateArtist(ctx context.Context, artist *model.Artist) (*model.Artist, error) {
	var created model.Artist
	if err := c.do(ctx, http.MethodPost, "/api/artists", artist, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateArtist(ctx context.Context, id string, artist *model.Artist) (*model.Artist, error) {
	var updated model.Artist
	if err := c.do(ctx, http.MethodPut, "/api/artists/"+url.PathEscape(id), artist, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteArtist(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/artists/"+url.PathEscape(id), nil, nil)
}

// ============================================================
// Albums
// ============================================================

// Album fetches one album with its tracks in position order.
func (c *Client) Album(ctx context.Context, id string) (*model.Album, error) {
	var album model.Album
	if err := c.get(ctx, "/api/albums/"+url.PathEscape(id), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

func (c *Client) AlbumsByArtist(ctx context.Context, artistID string) ([]model.Album, error) {
	var albums []model.Album
	if err := c.get(ctx, "/api/albums/artist/"+url.PathEscape(artistID), &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (c *Client) SearchAlbums(ctx context.Context, query string) ([]model.Album, error) {
	var albums []model.Album
	if err := c.get(ctx, "/api/albums/search?q="+url.QueryEscape(query), &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (c *Client) AlbumTracks(ctx context.Context, id string) ([]model.Track, error) {
	var tracks []model.Track
	if err := c.get(ctx, "/api/albums/"+url.PathEscape(id)+"/tracks", &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (c *Client) CreateAlbum(ctx context.Context, album *model.Album) (*model.Album, error) {
	var created model.Album
	if err := c.do(ctx, http.MethodPost, "/api/albums", album, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAlbum(ctx context.Context, id string, album *model.Album) (*model.Album, error) {
	var updated model.Album
	if err := c.do(ctx, http.MethodPut, "/api/albums/"+url.PathEscape(id), album, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteAlbum(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/albums/"+url.PathEscape(id), nil, nil)
}

// ============================================================
// Labels
// ============================================================

func (c *Client) Labels(ctx context.Context, page, limit int) ([]model.Label, error) {
	var labels []model.Label
	if err := c.get(ctx, "/api/labels"+pageQuery(page, limit, 20), &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (c *Client) SearchLabels(ctx context.Context, query string) ([]model.Label, error) {
	var labels []model.Label
	if err := c.get(ctx, "/api/labels/search?q="+url.QueryEscape(query), &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (c *Client) Label(ctx context.Context, id string) (*model.Label, error) {
	var label model.Label
	if err := c.get(ctx, "/api/labels/"+url.PathEscape(id), &label); err != nil {
		return nil, err
	}
	return &label, nil
}

func (c *Client) LabelArtists(ctx context.Context, id string) ([]model.Artist, error) {
	var artists []model.Artist
	if err := c.get(ctx, "/api/labels/"+url.PathEscape(id)+"/artists", &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

func (c *Client) LabelAlbums(ctx context.Context, id string) ([]model.Album, error) {
	var albums []model.Album
	if err := c.get(ctx, "/api/labels/"+url.PathEscape(id)+"/albums", &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (c *Client) CreateLabel(ctx context.Context, label *model.Label) (*model.Label, error) {
	var created model.Label
	if err := c.do(ctx, http.MethodPost, "/api/labels", label, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateLabel(ctx context.Context, id string, label *model.Label) (*model.Label, error) {
	var updated model.Label
	if err := c.do(ctx, http.MethodPut, "/api/labels/"+url.PathEscape(id), label, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/labels/"+url.PathEscape(id), nil, nil)
}

// ============================================================
// Tracks
// ============================================================

func (c *Client) Track(ctx context.Context, id string) (*model.Track, error) {
	var track model.Track
	if err := c.get(ctx, "/api/tracks/"+url.PathEscape(id), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

func (c *Client) TracksByAlbum(ctx context.Context, albumID string) ([]model.Track, error) {
	var tracks []model.Track
	if err := c.get(ctx, "/api/tracks/albums/"+url.PathEscape(albumID), &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (c *Client) TracksByArtist(ctx context.Context, artistID string) ([]model.Track, error) {
	var tracks []model.Track
	if err := c.get(ctx, "/api/tracks/artists/"+url.PathEscape(artistID), &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (c *Client) CreateTrack(ctx context.Context, track *model.Track) (*model.Track, error) {
	var created model.Track
	if err := c.do(ctx, http.MethodPost, "/api/tracks", track, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTrack(ctx context.Context, id string, track *model.Track) (*model.Track, error) {
	var updated model.Track
	if err := c.do(ctx, http.MethodPut, "/api/tracks/"+url.PathEscape(id), track, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteTrack(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tracks/"+url.PathEscape(id), nil, nil)
}

// ============================================================
// Ratings
// ============================================================

// RateResult is the caller's rating plus the album's refreshed aggregate.
type RateResult struct {
	Rating        *model.Rating `json:"rating"`
	AverageRating float64       `json:"average_rating"`
	RatingCount   int           `json:"rating_count"`
}

// RateAlbum sets the caller's 1 to 5 rating for an album.
func (c *Client) RateAlbum(ctx context.Context, albumID string, rating int) (*RateResult, error) {
	var result RateResult
	body := struct {
		Rating int `json:"rating"`
	}{rating}
	if err := c.do(ctx, http.MethodPost, "/api/ratings/albums/"+url.PathEscape(albumID)+"/rate", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MyRating returns the caller's rating for an album, a not-found APIError
// when none exists.
func (c *Client) MyRating(ctx context.Context, albumID string) (*model.Rating, error) {
	var rating model.Rating
	if err := c.get(ctx, "/api/ratings/albums/"+url.PathEscape(albumID)+"/my-rating", &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (c *Client) AlbumAverage(ctx context.Context, albumID string) (*model.RatingSummary, error) {
	var summary model.RatingSummary
	if err := c.get(ctx, "/api/ratings/albums/"+url.PathEscape(albumID)+"/average", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) MyRatings(ctx context.Context) ([]model.Rating, error) {
	var ratings []model.Rating
	if err := c.get(ctx, "/api/ratings/my-ratings", &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// RemoveRating deletes the caller's rating and returns the album's
// aggregate after the removal.
func (c *Client) RemoveRating(ctx context.Context, albumID string) (*model.RatingSummary, error) {
	var summary model.RatingSummary
	if err := c.do(ctx, http.MethodDelete, "/api/ratings/albums/"+url.PathEscape(albumID)+"/rate", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// TopRated returns the best-rated albums. A zero limit uses the server
// default.
func (c *Client) TopRated(ctx context.Context, limit int) ([]model.Album, error) {
	path := "/api/ratings/top-rated"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var albums []model.Album
	if err := c.get(ctx, path, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// AlbumRatings lists every rating for an album with usernames. Admin only.
func (c *Client) AlbumRatings(ctx context.Context, albumID string) ([]model.Rating, error) {
	var ratings []model.Rating
	if err := c.get(ctx, "/api/ratings/albums/"+url.PathEscape(albumID)+"/ratings", &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// ============================================================
// Lists
// ============================================================

// ListWithItems is a list together with its resolved items.
type ListWithItems struct {
	model.List
	Items []model.ListEntry `json:"items"`
}

type listBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (c *Client) MyLists(ctx context.Context) ([]model.List, error) {
	var lists []model.List
	if err := c.get(ctx, "/api/lists/my-lists", &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) PublicLists(ctx context.Context, page, limit int) ([]model.List, error) {
	var lists []model.List
	if err := c.get(ctx, "/api/lists/public"+pageQuery(page, limit, 20), &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) SearchPublicLists(ctx context.Context, query string) ([]model.List, error) {
	var lists []model.List
	if err := c.get(ctx, "/api/lists/public/search?q="+url.QueryEscape(query), &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) CreateList(ctx context.Context, name, description string, isPublic bool) (*model.List, error) {
	var list model.List
	if err := c.do(ctx, http.MethodPost, "/api/lists", listBody{name, description, isPublic}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// List fetches a list with its items. Private lists resolve only for the
// owner.
func (c *Client) List(ctx context.Context, id string) (*ListWithItems, error) {
	var list ListWithItems
	if err := c.get(ctx, "/api/lists/"+url.PathEscape(id), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByShareID fetches a public list by its share id.
func (c *Client) ListByShareID(ctx context.Context, shareID string) (*ListWithItems, error) {
	var list ListWithItems
	if err := c.get(ctx, "/api/lists/share/"+url.PathEscape(shareID), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) UpdateList(ctx context.Context, id, name, description string, isPublic bool) (*model.List, error) {
	var list model.List
	if err := c.do(ctx, http.MethodPut, "/api/lists/"+url.PathEscape(id), listBody{name, description, isPublic}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) DeleteList(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/lists/"+url.PathEscape(id), nil, nil)
}

// AddListItem puts an artist or album into an owned list.
func (c *Client) AddListItem(ctx context.Context, listID string, ref model.ItemRef) (*model.ListItem, error) {
	var item model.ListItem
	if err := c.do(ctx, http.MethodPost, "/api/lists/"+url.PathEscape(listID)+"/items", ref, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) RemoveListItem(ctx context.Context, listID, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/api/lists/"+url.PathEscape(listID)+"/items/"+url.PathEscape(itemID), nil, nil)
}

// CheckListItem reports whether the target is already in the list.
func (c *Client) CheckListItem(ctx context.Context, listID string, ref model.ItemRef) (bool, error) {
	var resp struct {
		InList bool `json:"in_list"`
	}
	q := url.Values{}
	q.Set("item_type", string(ref.Type))
	q.Set("id", ref.ID)
	if err := c.get(ctx, "/api/lists/"+url.PathEscape(listID)+"/items/check?"+q.Encode(), &resp); err != nil {
		return false, err
	}
	return resp.InList, nil
}
