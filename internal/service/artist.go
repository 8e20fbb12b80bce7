package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/internal/catalog"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

const (
	MaxNameLength = 200

	// DefaultArtistLimit matches what the browse page requests.
	DefaultArtistLimit = 100
	DefaultListLimit   = 20
	MaxListLimit       = 500

	// groupedFetchLimit bounds the grouped listing. The grouped view wants
	// the whole catalog; the limit is a guard, not pagination.
	groupedFetchLimit = 10000
)

// ArtistService handles business logic for artists.
type ArtistService struct {
	repo   repository.ArtistRepository
	logger *slog.Logger
}

func NewArtistService(repo repository.ArtistRepository, logger *slog.Logger) *ArtistService {
	return &ArtistService{repo: repo, logger: logger}
}

func (s *ArtistService) Create(ctx context.Context, artist *model.Artist) (*model.Artist, error) {
	artist.Name = strings.TrimSpace(artist.Name)
	if artist.Name == "" {
		return nil, apperror.ValidationFailed("name", "artist name is required")
	}
	if len(artist.Name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("artist name must be %d characters or less", MaxNameLength))
	}

	if err := s.repo.Create(ctx, artist); err != nil {
		s.logger.Error("failed to create artist",
			slog.String("name", artist.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating artist: %w", err)
	}

	s.logger.Info("artist created",
		slog.String("id", artist.ID),
		slog.String("name", artist.Name),
	)
	return s.repo.FindByID(ctx, artist.ID)
}

func (s *ArtistService) List(ctx context.Context, limit, offset int) ([]model.Artist, error) {
	if limit <= 0 {
		limit = DefaultArtistLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.FindAll(ctx, repository.ListOptions{Limit: limit, Offset: offset})
}

// Grouped returns the catalog bucketed by the grouping letter of each
// artist's sort key (leading articles stripped, non-letters under "0-10").
func (s *ArtistService) Grouped(ctx context.Context) ([]model.ArtistGroup, error) {
	artists, err := s.repo.FindAll(ctx, repository.ListOptions{Limit: groupedFetchLimit})
	if err != nil {
		return nil, fmt.Errorf("listing artists for grouping: %w", err)
	}
	return catalog.GroupArtists(artists), nil
}

// Get returns the artist with its albums attached.
func (s *ArtistService) Get(ctx context.Context, id string) (*model.Artist, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "artist ID is required")
	}
	return s.repo.FindByIDWithAlbums(ctx, id)
}

func (s *ArtistService) Search(ctx context.Context, query string) ([]model.Artist, error) {
	if query = strings.TrimSpace(query); query == "" {
		return nil, apperror.ValidationFailed("q", "search query is required")
	}
	return s.repo.Search(ctx, query)
}

func (s *ArtistService) Update(ctx context.Context, id string, in *model.Artist) (*model.Artist, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "artist ID is required")
	}

	artist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("artist name must be %d characters or less", MaxNameLength))
		}
		artist.Name = name
	}
	artist.Bio = strings.TrimSpace(in.Bio)
	artist.Location = strings.TrimSpace(in.Location)
	artist.FormedYear = in.FormedYear
	artist.LabelID = in.LabelID

	if err := s.repo.Update(ctx, artist); err != nil {
		s.logger.Error("failed to update artist",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating artist: %w", err)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ArtistService) Delete(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return apperror.ValidationFailed("id", "artist ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("artist deleted", slog.String("id", id))
	return nil
}
