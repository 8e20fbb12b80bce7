package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

// ListStore implements repository.ListRepository.
type ListStore struct {
	conn *sql.DB
}

var _ repository.ListRepository = (*ListStore)(nil)

const listColumns = `
	l.id, l.user_id, l.name, l.description, l.is_public, l.share_id,
	l.created_at, l.updated_at, u.username, COUNT(li.id)`

const listJoins = `
	FROM lists l
	JOIN users u ON l.user_id = u.id
	LEFT JOIN list_items li ON l.id = li.list_id`

func scanList(row interface{ Scan(...any) error }) (*model.List, error) {
	var list model.List
	err := row.Scan(
		&list.ID, &list.UserID, &list.Name, &list.Description,
		&list.IsPublic, &list.ShareID, &list.CreatedAt, &list.UpdatedAt,
		&list.Username, &list.ItemsCount,
	)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Create mints both the list id and a share id. The share id exists from
// birth so making a list public later never changes its share URL.
func (s *ListStore) Create(ctx context.Context, list *model.List) error {
	list.ID = xid.New().String()
	list.ShareID = uuid.NewString()
	now := time.Now()
	list.CreatedAt = now
	list.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO lists (id, user_id, name, description, is_public, share_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID,
		list.UserID,
		list.Name,
		list.Description,
		list.IsPublic,
		list.ShareID,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating list: %w", err)
	}
	return nil
}

func (s *ListStore) GetByID(ctx context.Context, id string) (*model.List, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+listColumns+listJoins+`
		 WHERE l.id = ?
		 GROUP BY l.id`,
		id,
	)
	list, err := scanList(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("list", id)
		}
		return nil, fmt.Errorf("sqlite: finding list %s: %w", id, err)
	}
	return list, nil
}

// GetByShareID resolves a share link. Private lists are invisible through
// their share id, so flipping a list private revokes the link immediately.
func (s *ListStore) GetByShareID(ctx context.Context, shareID string) (*model.List, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+listColumns+listJoins+`
		 WHERE l.share_id = ? AND l.is_public = 1
		 GROUP BY l.id`,
		shareID,
	)
	list, err := scanList(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("list", shareID)
		}
		return nil, fmt.Errorf("sqlite: finding shared list %s: %w", shareID, err)
	}
	return list, nil
}

func (s *ListStore) GetUserLists(ctx context.Context, userID string) ([]model.List, error) {
	return s.queryLists(ctx,
		`SELECT `+listColumns+listJoins+`
		 WHERE l.user_id = ?
		 GROUP BY l.id
		 ORDER BY l.updated_at DESC`,
		userID,
	)
}

func (s *ListStore) GetPublicLists(ctx context.Context, opts repository.ListOptions) ([]model.List, error) {
	limit, offset := normalizePage(opts)
	return s.queryLists(ctx,
		`SELECT `+listColumns+listJoins+`
		 WHERE l.is_public = 1
		 GROUP BY l.id
		 ORDER BY l.updated_at DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

func (s *ListStore) SearchPublic(ctx context.Context, query string, opts repository.ListOptions) ([]model.List, error) {
	limit, offset := normalizePage(opts)
	pattern := "%" + query + "%"
	return s.queryLists(ctx,
		`SELECT `+listColumns+listJoins+`
		 WHERE l.is_public = 1
		   AND (LOWER(l.name) LIKE LOWER(?) OR LOWER(l.description) LIKE LOWER(?))
		 GROUP BY l.id
		 ORDER BY l.updated_at DESC
		 LIMIT ? OFFSET ?`,
		pattern, pattern, limit, offset,
	)
}

func (s *ListStore) queryLists(ctx context.Context, query string, args ...any) ([]model.List, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lists: %w", err)
	}
	defer rows.Close()

	lists := []model.List{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning list row: %w", err)
		}
		lists = append(lists, *list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating lists: %w", err)
	}
	return lists, nil
}

// Update writes only with the owner in the predicate, so a non-owner id
// cannot touch the row no matter what the caller checked beforehand.
func (s *ListStore) Update(ctx context.Context, list *model.List) error {
	list.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE lists
		 SET name = ?, description = ?, is_public = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		list.Name,
		list.Description,
		list.IsPublic,
		list.UpdatedAt,
		list.ID,
		list.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating list %s: %w", list.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("list", list.ID)
	}
	return nil
}

func (s *ListStore) Delete(ctx context.Context, id, ownerID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM lists WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting list %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("list", id)
	}
	return nil
}

// AddItem inserts the membership row. The unique index on
// (list_id, item_type, target) turns a duplicate add into a conflict
// atomically, so concurrent adds of the same record cannot both land.
func (s *ListStore) AddItem(ctx context.Context, item *model.ListItem) error {
	if err := item.Ref().Validate(); err != nil {
		return err
	}

	item.ID = xid.New().String()
	item.CreatedAt = time.Now()
	artistID, albumID := item.Ref().Columns()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO list_items (id, list_id, item_type, artist_id, album_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.ListID,
		item.Type,
		nullable(artistID),
		nullable(albumID),
		item.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("item already in list")
		}
		return fmt.Errorf("sqlite: adding list item: %w", err)
	}
	return nil
}

func (s *ListStore) RemoveItem(ctx context.Context, listID, itemID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM list_items WHERE id = ? AND list_id = ?`,
		itemID, listID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing list item %s: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("list item", itemID)
	}
	return nil
}

// GetItems returns the list contents newest first, each entry carrying
// the full artist or album it points at.
func (s *ListStore) GetItems(ctx context.Context, listID string) ([]model.ListEntry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT li.id, li.item_type, li.created_at,
		        ar.id, ar.name, ar.bio, ar.location, ar.formed_year, ar.label_id,
		        al.id, al.title, al.artist_id, al.release_year, al.label, al.label_id,
		        al.cover_image, al.format, al.style, al.release_type, aa.name
		 FROM list_items li
		 LEFT JOIN artists ar ON li.artist_id = ar.id
		 LEFT JOIN albums al ON li.album_id = al.id
		 LEFT JOIN artists aa ON al.artist_id = aa.id
		 WHERE li.list_id = ?
		 ORDER BY li.created_at DESC, li.id DESC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items for list %s: %w", listID, err)
	}
	defer rows.Close()

	entries := []model.ListEntry{}
	for rows.Next() {
		var (
			entry model.ListEntry

			artistID, artistName, artistBio, artistLocation sql.NullString
			artistFormedYear                                sql.NullInt64
			artistLabelID                                   sql.NullString

			albumID, albumTitle, albumArtistID sql.NullString
			albumReleaseYear                   sql.NullInt64
			albumLabel, albumLabelID           sql.NullString
			albumCover, albumFormat            sql.NullString
			albumStyle, albumReleaseType       sql.NullString
			albumArtistName                    sql.NullString
		)
		err := rows.Scan(
			&entry.ID, &entry.Type, &entry.AddedAt,
			&artistID, &artistName, &artistBio, &artistLocation, &artistFormedYear, &artistLabelID,
			&albumID, &albumTitle, &albumArtistID, &albumReleaseYear, &albumLabel, &albumLabelID,
			&albumCover, &albumFormat, &albumStyle, &albumReleaseType, &albumArtistName,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning list item row: %w", err)
		}

		switch {
		case entry.Type == model.ItemTypeArtist && artistID.Valid:
			entry.Artist = &model.Artist{
				ID:         artistID.String,
				Name:       artistName.String,
				Bio:        artistBio.String,
				Location:   artistLocation.String,
				FormedYear: int(artistFormedYear.Int64),
				LabelID:    artistLabelID.String,
			}
		case entry.Type == model.ItemTypeAlbum && albumID.Valid:
			entry.Album = &model.Album{
				ID:          albumID.String,
				Title:       albumTitle.String,
				ArtistID:    albumArtistID.String,
				ReleaseYear: int(albumReleaseYear.Int64),
				Label:       albumLabel.String,
				LabelID:     albumLabelID.String,
				CoverImage:  albumCover.String,
				Format:      albumFormat.String,
				Style:       albumStyle.String,
				ReleaseType: albumReleaseType.String,
				ArtistName:  albumArtistName.String,
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating list items: %w", err)
	}
	return entries, nil
}

func (s *ListStore) IsItemInList(ctx context.Context, listID string, ref model.ItemRef) (bool, error) {
	if err := ref.Validate(); err != nil {
		return false, err
	}
	artistID, albumID := ref.Columns()

	var exists int
	err := s.conn.QueryRowContext(ctx,
		`SELECT 1 FROM list_items
		 WHERE list_id = ? AND item_type = ?
		   AND COALESCE(artist_id, '') = ? AND COALESCE(album_id, '') = ?`,
		listID, ref.Type, artistID, albumID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking list membership: %w", err)
	}
	return true, nil
}
