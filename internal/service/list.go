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

const MaxListNameLength = 100

// ListService handles business logic for user-curated lists. Visibility and
// ownership rules live here: a list must exist before ownership is judged,
// so a wrong id is a not-found and a wrong owner is a forbidden.
type ListService struct {
	lists   repository.ListRepository
	artists repository.ArtistRepository
	albums  repository.AlbumRepository
	logger  *slog.Logger
}

func NewListService(
	lists repository.ListRepository,
	artists repository.ArtistRepository,
	albums repository.AlbumRepository,
	logger *slog.Logger,
) *ListService {
	return &ListService{lists: lists, artists: artists, albums: albums, logger: logger}
}

func (s *ListService) Create(ctx context.Context, userID, name, description string, isPublic bool) (*model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "list name is required")
	}
	if len(name) > MaxListNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("list name must be %d characters or less", MaxListNameLength))
	}

	list := &model.List{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsPublic:    isPublic,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		s.logger.Error("failed to create list",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating list: %w", err)
	}

	s.logger.Info("list created",
		slog.String("id", list.ID),
		slog.String("userID", userID),
	)
	return s.lists.GetByID(ctx, list.ID)
}

// Get returns a list and its items. Private lists are only visible to their
// owner; requesterID may be empty for anonymous callers.
func (s *ListService) Get(ctx context.Context, id, requesterID string) (*model.List, []model.ListEntry, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !list.IsPublic && list.UserID != requesterID {
		return nil, nil, apperror.Forbidden("this list is private")
	}

	items, err := s.lists.GetItems(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting list items: %w", err)
	}
	return list, items, nil
}

// GetByShareID resolves a share link. The repository only matches public
// lists, so a private list's share id is a plain not-found.
func (s *ListService) GetByShareID(ctx context.Context, shareID string) (*model.List, []model.ListEntry, error) {
	list, err := s.lists.GetByShareID(ctx, shareID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.lists.GetItems(ctx, list.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("getting list items: %w", err)
	}
	return list, items, nil
}

func (s *ListService) UserLists(ctx context.Context, userID string) ([]model.List, error) {
	return s.lists.GetUserLists(ctx, userID)
}

func (s *ListService) PublicLists(ctx context.Context, limit, offset int) ([]model.List, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.lists.GetPublicLists(ctx, repository.ListOptions{Limit: limit, Offset: offset})
}

func (s *ListService) SearchPublic(ctx context.Context, query string, limit, offset int) ([]model.List, error) {
	if query = strings.TrimSpace(query); query == "" {
		return nil, apperror.ValidationFailed("q", "search query is required")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.lists.SearchPublic(ctx, query, repository.ListOptions{Limit: limit, Offset: offset})
}

// requireOwned fetches the list and checks ownership, in that order.
func (s *ListService) requireOwned(ctx context.Context, id, ownerID string) (*model.List, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.UserID != ownerID {
		return nil, apperror.Forbidden("you do not own this list")
	}
	return list, nil
}

func (s *ListService) Update(ctx context.Context, id, ownerID, name, description string, isPublic bool) (*model.List, error) {
	list, err := s.requireOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		if len(name) > MaxListNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("list name must be %d characters or less", MaxListNameLength))
		}
		list.Name = name
	}
	list.Description = strings.TrimSpace(description)
	list.IsPublic = isPublic

	if err := s.lists.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("updating list: %w", err)
	}
	return s.lists.GetByID(ctx, id)
}

func (s *ListService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.requireOwned(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.lists.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.logger.Info("list deleted",
		slog.String("id", id),
		slog.String("userID", ownerID),
	)
	return nil
}

// AddItem puts an artist or album into an owned list. The target record
// must exist; duplicates surface as a conflict.
func (s *ListService) AddItem(ctx context.Context, listID, ownerID string, ref model.ItemRef) (*model.ListItem, error) {
	if _, err := s.requireOwned(ctx, listID, ownerID); err != nil {
		return nil, err
	}
	if err := ref.Validate(); err != nil {
		return nil, apperror.ValidationFailed("item", err.Error())
	}

	switch ref.Type {
	case model.ItemTypeArtist:
		if _, err := s.artists.FindByID(ctx, ref.ID); err != nil {
			return nil, err
		}
	case model.ItemTypeAlbum:
		if _, err := s.albums.FindByID(ctx, ref.ID); err != nil {
			return nil, err
		}
	}

	artistID, albumID := ref.Columns()
	item := &model.ListItem{
		ListID:   listID,
		Type:     ref.Type,
		ArtistID: artistID,
		AlbumID:  albumID,
	}
	if err := s.lists.AddItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("list item added",
		slog.String("listID", listID),
		slog.String("itemType", string(ref.Type)),
		slog.String("targetID", ref.ID),
	)
	return item, nil
}

func (s *ListService) RemoveItem(ctx context.Context, listID, ownerID, itemID string) error {
	if _, err := s.requireOwned(ctx, listID, ownerID); err != nil {
		return err
	}
	return s.lists.RemoveItem(ctx, listID, itemID)
}

// CheckItem reports whether the target is already in the list. Follows the
// same visibility rule as Get.
func (s *ListService) CheckItem(ctx context.Context, listID, requesterID string, ref model.ItemRef) (bool, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return false, err
	}
	if !list.IsPublic && list.UserID != requesterID {
		return false, apperror.Forbidden("this list is private")
	}
	if err := ref.Validate(); err != nil {
		return false, apperror.ValidationFailed("item", err.Error())
	}
	return s.lists.IsItemInList(ctx, listID, ref)
}
