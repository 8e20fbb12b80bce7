package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

// AlbumService handles business logic for albums. It also holds the artist
// repository to verify the referenced artist exists before a create.
type AlbumService struct {
	albums  repository.AlbumRepository
	artists repository.ArtistRepository
	logger  *slog.Logger
}

func NewAlbumService(albums repository.AlbumRepository, artists repository.ArtistRepository, logger *slog.Logger) *AlbumService {
	return &AlbumService{albums: albums, artists: artists, logger: logger}
}

func (s *AlbumService) Create(ctx context.Context, album *model.Album) (*model.Album, error) {
	album.Title = strings.TrimSpace(album.Title)
	if album.Title == "" {
		return nil, apperror.ValidationFailed("title", "album title is required")
	}
	if album.ArtistID == "" {
		return nil, apperror.ValidationFailed("artist_id", "artist ID is required")
	}

	// Verify the artist before inserting so the caller gets a proper
	// not-found instead of a raw foreign-key failure.
	if _, err := s.artists.FindByID(ctx, album.ArtistID); err != nil {
		return nil, err
	}

	if err := s.albums.Create(ctx, album); err != nil {
		s.logger.Error("failed to create album",
			slog.String("title", album.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating album: %w", err)
	}

	s.logger.Info("album created",
		slog.String("id", album.ID),
		slog.String("title", album.Title),
	)
	return s.albums.FindByID(ctx, album.ID)
}

// Get returns the album with its tracks in catalog order.
func (s *AlbumService) Get(ctx context.Context, id string) (*model.Album, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "album ID is required")
	}
	return s.albums.FindByIDWithTracks(ctx, id)
}

func (s *AlbumService) ByArtist(ctx context.Context, artistID string) ([]model.Album, error) {
	if artistID = strings.TrimSpace(artistID); artistID == "" {
		return nil, apperror.ValidationFailed("artist_id", "artist ID is required")
	}
	if _, err := s.artists.FindByID(ctx, artistID); err != nil {
		return nil, err
	}
	return s.albums.FindByArtistID(ctx, artistID)
}

func (s *AlbumService) Search(ctx context.Context, query string) ([]model.Album, error) {
	if query = strings.TrimSpace(query); query == "" {
		return nil, apperror.ValidationFailed("q", "search query is required")
	}
	return s.albums.Search(ctx, query)
}

func (s *AlbumService) Update(ctx context.Context, id string, in *model.Album) (*model.Album, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "album ID is required")
	}

	album, err := s.albums.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		album.Title = title
	}
	if in.ArtistID != "" && in.ArtistID != album.ArtistID {
		if _, err := s.artists.FindByID(ctx, in.ArtistID); err != nil {
			return nil, err
		}
		album.ArtistID = in.ArtistID
	}
	album.ReleaseYear = in.ReleaseYear
	album.Label = strings.TrimSpace(in.Label)
	album.LabelID = in.LabelID
	album.CoverImage = strings.TrimSpace(in.CoverImage)
	album.Format = strings.TrimSpace(in.Format)
	album.Style = strings.TrimSpace(in.Style)
	album.ReleaseType = strings.TrimSpace(in.ReleaseType)

	if err := s.albums.Update(ctx, album); err != nil {
		s.logger.Error("failed to update album",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating album: %w", err)
	}
	return s.albums.FindByID(ctx, id)
}

func (s *AlbumService) Delete(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return apperror.ValidationFailed("id", "album ID is required")
	}
	if err := s.albums.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("album deleted", slog.String("id", id))
	return nil
}
