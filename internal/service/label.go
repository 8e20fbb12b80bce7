package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

// LabelService handles business logic for record labels.
type LabelService struct {
	repo   repository.LabelRepository
	logger *slog.Logger
}

func NewLabelService(repo repository.LabelRepository, logger *slog.Logger) *LabelService {
	return &LabelService{repo: repo, logger: logger}
}

func (s *LabelService) Create(ctx context.Context, label *model.Label) (*model.Label, error) {
	label.Name = strings.TrimSpace(label.Name)
	if label.Name == "" {
		return nil, apperror.ValidationFailed("name", "label name is required")
	}
	if len(label.Name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("label name must be %d characters or less", MaxNameLength))
	}

	// Friendly duplicate message before the insert; the unique column
	// still catches the race.
	_, err := s.repo.FindByName(ctx, label.Name)
	if err == nil {
		return nil, apperror.Conflict(fmt.Sprintf("label %q already exists", label.Name))
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking label name: %w", err)
	}

	if err := s.repo.Create(ctx, label); err != nil {
		s.logger.Error("failed to create label",
			slog.String("name", label.Name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("label created",
		slog.String("id", label.ID),
		slog.String("name", label.Name),
	)
	return label, nil
}

func (s *LabelService) List(ctx context.Context, limit, offset int) ([]model.Label, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.FindAll(ctx, repository.ListOptions{Limit: limit, Offset: offset})
}

func (s *LabelService) Get(ctx context.Context, id string) (*model.Label, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "label ID is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *LabelService) Search(ctx context.Context, query string) ([]model.Label, error) {
	if query = strings.TrimSpace(query); query == "" {
		return nil, apperror.ValidationFailed("q", "search query is required")
	}
	return s.repo.Search(ctx, query)
}

// Artists lists the label's roster. The label is fetched first so a bad id
// yields a 404 rather than an empty roster.
func (s *LabelService) Artists(ctx context.Context, labelID string) ([]model.Artist, error) {
	if _, err := s.repo.FindByID(ctx, labelID); err != nil {
		return nil, err
	}
	return s.repo.GetArtists(ctx, labelID)
}

func (s *LabelService) Albums(ctx context.Context, labelID string) ([]model.Album, error) {
	if _, err := s.repo.FindByID(ctx, labelID); err != nil {
		return nil, err
	}
	return s.repo.GetAlbums(ctx, labelID)
}

func (s *LabelService) Update(ctx context.Context, id string, in *model.Label) (*model.Label, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "label ID is required")
	}

	label, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("label name must be %d characters or less", MaxNameLength))
		}
		label.Name = name
	}
	label.Description = strings.TrimSpace(in.Description)
	label.FoundedYear = in.FoundedYear
	label.Country = strings.TrimSpace(in.Country)
	label.Website = strings.TrimSpace(in.Website)

	if err := s.repo.Update(ctx, label); err != nil {
		s.logger.Error("failed to update label",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *LabelService) Delete(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return apperror.ValidationFailed("id", "label ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("label deleted", slog.String("id", id))
	return nil
}
