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

// TrackService handles business logic for tracks.
type TrackService struct {
	tracks repository.TrackRepository
	albums repository.AlbumRepository
	logger *slog.Logger
}

func NewTrackService(tracks repository.TrackRepository, albums repository.AlbumRepository, logger *slog.Logger) *TrackService {
	return &TrackService{tracks: tracks, albums: albums, logger: logger}
}

func (s *TrackService) Create(ctx context.Context, track *model.Track) (*model.Track, error) {
	track.Title = strings.TrimSpace(track.Title)
	if track.Title == "" {
		return nil, apperror.ValidationFailed("title", "track title is required")
	}
	if track.AlbumID == "" {
		return nil, apperror.ValidationFailed("album_id", "album ID is required")
	}
	track.Position = strings.TrimSpace(track.Position)
	track.Duration = strings.TrimSpace(track.Duration)

	if _, err := s.albums.FindByID(ctx, track.AlbumID); err != nil {
		return nil, err
	}

	if err := s.tracks.Create(ctx, track); err != nil {
		s.logger.Error("failed to create track",
			slog.String("title", track.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating track: %w", err)
	}
	return s.tracks.FindByID(ctx, track.ID)
}

func (s *TrackService) Get(ctx context.Context, id string) (*model.Track, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "track ID is required")
	}
	return s.tracks.FindByID(ctx, id)
}

// ByAlbum returns the album's tracks in position order.
func (s *TrackService) ByAlbum(ctx context.Context, albumID string) ([]model.Track, error) {
	if albumID = strings.TrimSpace(albumID); albumID == "" {
		return nil, apperror.ValidationFailed("album_id", "album ID is required")
	}
	if _, err := s.albums.FindByID(ctx, albumID); err != nil {
		return nil, err
	}
	return s.tracks.FindByAlbumID(ctx, albumID)
}

func (s *TrackService) ByArtist(ctx context.Context, artistID string) ([]model.Track, error) {
	if artistID = strings.TrimSpace(artistID); artistID == "" {
		return nil, apperror.ValidationFailed("artist_id", "artist ID is required")
	}
	return s.tracks.FindByArtistID(ctx, artistID)
}

func (s *TrackService) Update(ctx context.Context, id string, in *model.Track) (*model.Track, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "track ID is required")
	}

	track, err := s.tracks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		track.Title = title
	}
	track.Position = strings.TrimSpace(in.Position)
	track.Duration = strings.TrimSpace(in.Duration)

	if err := s.tracks.Update(ctx, track); err != nil {
		s.logger.Error("failed to update track",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating track: %w", err)
	}
	return s.tracks.FindByID(ctx, id)
}

func (s *TrackService) Delete(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return apperror.ValidationFailed("id", "track ID is required")
	}
	if err := s.tracks.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("track deleted", slog.String("id", id))
	return nil
}
