package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/record-crate/model"
)

// newTestDB opens an in-memory database that lives only for the test.
// t.Cleanup closes it even when subtests fail.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestArtist(t *testing.T, db *DB, name string) *model.Artist {
	t.Helper()
	artist := &model.Artist{Name: name}
	if err := db.Artists.Create(context.Background(), artist); err != nil {
		t.Fatalf("failed to create test artist: %v", err)
	}
	return artist
}

func createTestAlbum(t *testing.T, db *DB, artistID, title string) *model.Album {
	t.Helper()
	album := &model.Album{Title: title, ArtistID: artistID}
	if err := db.Albums.Create(context.Background(), album); err != nil {
		t.Fatalf("failed to create test album: %v", err)
	}
	return album
}

func createTestLabel(t *testing.T, db *DB, name string) *model.Label {
	t.Helper()
	label := &model.Label{Name: name}
	if err := db.Labels.Create(context.Background(), label); err != nil {
		t.Fatalf("failed to create test label: %v", err)
	}
	return label
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestTrack(t *testing.T, db *DB, albumID, position, title string) *model.Track {
	t.Helper()
	track := &model.Track{AlbumID: albumID, Position: position, Title: title}
	if err := db.Tracks.Create(context.Background(), track); err != nil {
		t.Fatalf("failed to create test track: %v", err)
	}
	return track
}

func createTestList(t *testing.T, db *DB, userID, name string, public bool) *model.List {
	t.Helper()
	list := &model.List{UserID: userID, Name: name, IsPublic: public}
	if err := db.Lists.Create(context.Background(), list); err != nil {
		t.Fatalf("failed to create test list: %v", err)
	}
	return list
}
