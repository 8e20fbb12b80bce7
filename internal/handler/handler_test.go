package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/record-crate/internal/auth"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository/sqlite"
	"github.com/sakif/record-crate/internal/service"
)

// testEnv wires real services over an in-memory database so handler tests
// exercise the full request path below the router.
type testEnv struct {
	db *sqlite.DB

	auth    *AuthHandler
	artists *ArtistHandler
	albums  *AlbumHandler
	labels  *LabelHandler
	tracks  *TrackHandler
	ratings *RatingHandler
	lists   *ListHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService("test-secret-test-secret-test-secret")
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	authService := service.NewAuthService(db.Users, tokens, passwords, logger)
	artistService := service.NewArtistService(db.Artists, logger)
	albumService := service.NewAlbumService(db.Albums, db.Artists, logger)
	labelService := service.NewLabelService(db.Labels, logger)
	trackService := service.NewTrackService(db.Tracks, db.Albums, logger)
	ratingService := service.NewRatingService(db.Ratings, db.Albums, logger)
	listService := service.NewListService(db.Lists, db.Artists, db.Albums, logger)

	return &testEnv{
		db:      db,
		auth:    NewAuthHandler(authService, logger),
		artists: NewArtistHandler(artistService, albumService, logger),
		albums:  NewAlbumHandler(albumService, trackService, logger),
		labels:  NewLabelHandler(labelService, logger),
		tracks:  NewTrackHandler(trackService, logger),
		ratings: NewRatingHandler(ratingService, logger),
		lists:   NewListHandler(listService, logger),
	}
}

// jsonRequest builds a request with an optional JSON body and optional
// authenticated user in the context.
func jsonRequest(t *testing.T, method, target string, body any, userID string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		require.NoError(t, json.NewEncoder(buf).Encode(body))
		reader = buf
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// seedArtist inserts an artist directly through the store.
func seedArtist(t *testing.T, env *testEnv, name string) *model.Artist {
	t.Helper()
	artist := &model.Artist{Name: name}
	require.NoError(t, env.db.Artists.Create(context.Background(), artist))
	return artist
}

func seedAlbum(t *testing.T, env *testEnv, artistID, title string) *model.Album {
	t.Helper()
	album := &model.Album{ArtistID: artistID, Title: title}
	require.NoError(t, env.db.Albums.Create(context.Background(), album))
	return album
}

func seedUser(t *testing.T, env *testEnv, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	require.NoError(t, env.db.Users.Create(context.Background(), user))
	return user
}

func seedList(t *testing.T, env *testEnv, userID, name string, isPublic bool) *model.List {
	t.Helper()
	list := &model.List{UserID: userID, Name: name, IsPublic: isPublic}
	require.NoError(t, env.db.Lists.Create(context.Background(), list))
	return list
}
