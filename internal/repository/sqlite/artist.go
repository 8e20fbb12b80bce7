package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

// ArtistStore implements repository.ArtistRepository.
type ArtistStore struct {
	conn *sql.DB
}

// Compile-time interface check.
var _ repository.ArtistRepository = (*ArtistStore)(nil)

func (s *ArtistStore) Create(ctx context.Context, artist *model.Artist) error {
	artist.ID = xid.New().String()
	now := time.Now()
	artist.CreatedAt = now
	artist.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO artists (id, name, bio, location, formed_year, label_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		artist.ID,
		artist.Name,
		artist.Bio,
		artist.Location,
		artist.FormedYear,
		nullable(artist.LabelID),
		artist.CreatedAt,
		artist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating artist: %w", err)
	}
	return nil
}

// artistColumns is the artist row plus the joined label name. Every read
// goes through the same LEFT JOIN so LabelName is filled consistently.
const artistColumns = `
	a.id, a.name, a.bio, a.location, a.formed_year, a.label_id,
	l.name, a.created_at, a.updated_at`

func scanArtist(row interface{ Scan(...any) error }) (*model.Artist, error) {
	var (
		artist    model.Artist
		labelID   sql.NullString
		labelName sql.NullString
	)
	err := row.Scan(
		&artist.ID, &artist.Name, &artist.Bio, &artist.Location,
		&artist.FormedYear, &labelID, &labelName,
		&artist.CreatedAt, &artist.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	artist.LabelID = labelID.String
	artist.LabelName = labelName.String
	return &artist, nil
}

func (s *ArtistStore) FindAll(ctx context.Context, opts repository.ListOptions) ([]model.Artist, error) {
	limit, offset := normalizePage(opts)

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+artistColumns+`
		 FROM artists a
		 LEFT JOIN labels l ON a.label_id = l.id
		 ORDER BY a.name
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing artists: %w", err)
	}
	defer rows.Close()

	return collectArtists(rows, limit)
}

func (s *ArtistStore) FindByID(ctx context.Context, id string) (*model.Artist, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+artistColumns+`
		 FROM artists a
		 LEFT JOIN labels l ON a.label_id = l.id
		 WHERE a.id = ?`,
		id,
	)
	artist, err := scanArtist(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("artist", id)
		}
		return nil, fmt.Errorf("sqlite: getting artist %s: %w", id, err)
	}
	return artist, nil
}

// FindByIDWithAlbums is a two-step enrichment read: the artist first, then
// its albums attached. Two queries instead of one join avoids duplicating
// the artist row per album.
func (s *ArtistStore) FindByIDWithAlbums(ctx context.Context, id string) (*model.Artist, error) {
	artist, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, artist_id, release_year, label, label_id,
		        cover_image, format, style, release_type, created_at, updated_at
		 FROM albums
		 WHERE artist_id = ?
		 ORDER BY release_year, title`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting albums for artist %s: %w", id, err)
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		var (
			album   model.Album
			labelID sql.NullString
		)
		if err := rows.Scan(
			&album.ID, &album.Title, &album.ArtistID, &album.ReleaseYear,
			&album.Label, &labelID, &album.CoverImage, &album.Format,
			&album.Style, &album.ReleaseType, &album.CreatedAt, &album.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning album row: %w", err)
		}
		album.LabelID = labelID.String
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating albums: %w", err)
	}

	artist.Albums = albums
	return artist, nil
}

func (s *ArtistStore) Search(ctx context.Context, query string) ([]model.Artist, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+artistColumns+`
		 FROM artists a
		 LEFT JOIN labels l ON a.label_id = l.id
		 WHERE LOWER(a.name) LIKE LOWER(?)
		 ORDER BY a.name`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching artists: %w", err)
	}
	defer rows.Close()

	return collectArtists(rows, 0)
}

func (s *ArtistStore) Update(ctx context.Context, artist *model.Artist) error {
	artist.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE artists
		 SET name = ?, bio = ?, location = ?, formed_year = ?, label_id = ?, updated_at = ?
		 WHERE id = ?`,
		artist.Name,
		artist.Bio,
		artist.Location,
		artist.FormedYear,
		nullable(artist.LabelID),
		artist.UpdatedAt,
		artist.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating artist %s: %w", artist.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("artist", artist.ID)
	}
	return nil
}

func (s *ArtistStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting artist %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("artist", id)
	}
	return nil
}

func collectArtists(rows *sql.Rows, capacity int) ([]model.Artist, error) {
	artists := make([]model.Artist, 0, capacity)
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning artist row: %w", err)
		}
		artists = append(artists, *artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating artists: %w", err)
	}
	return artists, nil
}
