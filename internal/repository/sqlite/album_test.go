package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
)

func TestAlbumCreate(t *testing.T) {
	db := newTestDB(t)
	artist := createTestArtist(t, db, "Bauhaus")

	album := &model.Album{
		Title:       "In the Flat Field",
		ArtistID:    artist.ID,
		ReleaseYear: 1980,
		Format:      "LP",
		ReleaseType: "album",
	}
	if err := db.Albums.Create(context.Background(), album); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if album.ID == "" {
		t.Error("Create() did not set album.ID")
	}

	found, err := db.Albums.FindByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "In the Flat Field" {
		t.Errorf("Title = %q, want %q", found.Title, "In the Flat Field")
	}
	if found.ArtistName != "Bauhaus" {
		t.Errorf("ArtistName = %q, want %q", found.ArtistName, "Bauhaus")
	}
	if found.AvgRating != 0 || found.RatingCount != 0 {
		t.Errorf("rating aggregates = %v/%d, want 0/0 for unrated album", found.AvgRating, found.RatingCount)
	}
}

func TestAlbumFindByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Albums.FindByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("FindByID() error = %v, want ErrNotFound", err)
	}
}

func TestAlbumFindByID_RatingAggregates(t *testing.T) {
	db := newTestDB(t)
	artist := createTestArtist(t, db, "Band")
	album := createTestAlbum(t, db, artist.ID, "Record")
	u1 := createTestUser(t, db, "a")
	u2 := createTestUser(t, db, "b")

	setTestRating(t, db, u1.ID, album.ID, 2)
	setTestRating(t, db, u2.ID, album.ID, 4)

	found, err := db.Albums.FindByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.AvgRating != 3 {
		t.Errorf("AvgRating = %v, want 3", found.AvgRating)
	}
	if found.RatingCount != 2 {
		t.Errorf("RatingCount = %d, want 2", found.RatingCount)
	}
}

func TestAlbumFindByIDWithTracks_Ordered(t *testing.T) {
	db := newTestDB(t)
	artist := createTestArtist(t, db, "Band")
	album := createTestAlbum(t, db, artist.ID, "Record")
	createTestTrack(t, db, album.ID, "B1", "Side Two Opener")
	createTestTrack(t, db, album.ID, "A2", "Second")
	createTestTrack(t, db, album.ID, "A1", "First")

	found, err := db.Albums.FindByIDWithTracks(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("FindByIDWithTracks() error = %v", err)
	}

	want := []string{"A1", "A2", "B1"}
	if len(found.Tracks) != len(want) {
		t.Fatalf("len(Tracks) = %d, want %d", len(found.Tracks), len(want))
	}
	for i, pos := range want {
		if found.Tracks[i].Position != pos {
			t.Errorf("Tracks[%d].Position = %q, want %q", i, found.Tracks[i].Position, pos)
		}
	}
}

func TestAlbumSearch_MatchesArtistName(t *testing.T) {
	db := newTestDB(t)
	artist := createTestArtist(t, db, "Cocteau Twins")
	createTestAlbum(t, db, artist.ID, "Treasure")
	other := createTestArtist(t, db, "Slowdive")
	createTestAlbum(t, db, other.ID, "Souvlaki")

	results, err := db.Albums.Search(context.Background(), "cocteau")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Title != "Treasure" {
		t.Errorf("Title = %q, want %q", results[0].Title, "Treasure")
	}
}

func TestAlbumUpdate(t *testing.T) {
	db := newTestDB(t)
	artist := createTestArtist(t, db, "Band")
	album := createTestAlbum(t, db, artist.ID, "Working Title")

	album.Title = "Final Title"
	album.ReleaseYear = 1991
	album.Style = "shoegaze"
	if err := db.Albums.Update(context.Background(), album); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Albums.FindByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Final Title" {
		t.Errorf("Title = %q, want %q", found.Title, "Final Title")
	}
	if found.ReleaseYear != 1991 {
		t.Errorf("ReleaseYear = %d, want 1991", found.ReleaseYear)
	}
	if found.Style != "shoegaze" {
		t.Errorf("Style = %q, want %q", found.Style, "shoegaze")
	}
}

func TestAlbumUpdate_ReassignsArtist(t *testing.T) {
	db := newTestDB(t)
	original := createTestArtist(t, db, "First Band")
	successor := createTestArtist(t, db, "Second Band")
	album := createTestAlbum(t, db, original.ID, "Shared Sessions")

	album.ArtistID = successor.ID
	if err := db.Albums.Update(context.Background(), album); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Albums.FindByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.ArtistID != successor.ID {
		t.Errorf("ArtistID = %q, want %q", found.ArtistID, successor.ID)
	}
	if found.ArtistName != "Second Band" {
		t.Errorf("ArtistName = %q, want %q", found.ArtistName, "Second Band")
	}
}

func TestAlbumDelete_CascadesToRatings(t *testing.T) {
	db := newTestDB(t)
	artist := createTestArtist(t, db, "Band")
	album := createTestAlbum(t, db, artist.ID, "Record")
	user := createTestUser(t, db, "rater")
	setTestRating(t, db, user.ID, album.ID, 5)

	if err := db.Albums.Delete(context.Background(), album.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Ratings.GetUserRating(context.Background(), user.ID, album.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("rating survived album delete, error = %v, want ErrNotFound", err)
	}
}
