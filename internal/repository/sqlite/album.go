package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/internal/catalog"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

// AlbumStore implements repository.AlbumRepository.
type AlbumStore struct {
	conn *sql.DB
}

var _ repository.AlbumRepository = (*AlbumStore)(nil)

func (s *AlbumStore) Create(ctx context.Context, album *model.Album) error {
	album.ID = xid.New().String()
	now := time.Now()
	album.CreatedAt = now
	album.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO albums (id, title, artist_id, release_year, label, label_id,
		                     cover_image, format, style, release_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		album.ID,
		album.Title,
		album.ArtistID,
		album.ReleaseYear,
		album.Label,
		nullable(album.LabelID),
		album.CoverImage,
		album.Format,
		album.Style,
		album.ReleaseType,
		album.CreatedAt,
		album.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating album: %w", err)
	}
	return nil
}

// albumColumns carries the album row plus its rating aggregates. The
// average is always derived from ratings, never stored.
const albumColumns = `
	a.id, a.title, a.artist_id, a.release_year, a.label, a.label_id,
	a.cover_image, a.format, a.style, a.release_type,
	AVG(r.rating), COUNT(r.rating), a.created_at, a.updated_at`

// scanAlbum reads an albumColumns row. withArtist/withLabel must match the
// extra joined name columns appended to the SELECT.
func scanAlbum(row interface{ Scan(...any) error }, withArtist, withLabel bool) (*model.Album, error) {
	var (
		album                 model.Album
		labelID               sql.NullString
		avg                   sql.NullFloat64
		artistName, labelName sql.NullString
	)
	dest := []any{
		&album.ID, &album.Title, &album.ArtistID, &album.ReleaseYear,
		&album.Label, &labelID, &album.CoverImage, &album.Format,
		&album.Style, &album.ReleaseType, &avg, &album.RatingCount,
		&album.CreatedAt, &album.UpdatedAt,
	}
	if withArtist {
		dest = append(dest, &artistName)
	}
	if withLabel {
		dest = append(dest, &labelName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	album.LabelID = labelID.String
	album.AvgRating = avg.Float64
	album.ArtistName = artistName.String
	album.LabelName = labelName.String
	return &album, nil
}

func (s *AlbumStore) FindByID(ctx context.Context, id string) (*model.Album, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+albumColumns+`, ar.name, l.name
		 FROM albums a
		 JOIN artists ar ON a.artist_id = ar.id
		 LEFT JOIN labels l ON a.label_id = l.id
		 LEFT JOIN ratings r ON a.id = r.album_id
		 WHERE a.id = ?
		 GROUP BY a.id`,
		id,
	)
	album, err := scanAlbum(row, true, true)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("album", id)
		}
		return nil, fmt.Errorf("sqlite: getting album %s: %w", id, err)
	}
	return album, nil
}

// FindByIDWithTracks attaches the album's tracks in position order.
func (s *AlbumStore) FindByIDWithTracks(ctx context.Context, id string) (*model.Album, error) {
	album, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, album_id, position, title, duration, created_at
		 FROM tracks
		 WHERE album_id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting tracks for album %s: %w", id, err)
	}
	defer rows.Close()

	tracks := []model.Track{}
	for rows.Next() {
		var track model.Track
		if err := rows.Scan(
			&track.ID, &track.AlbumID, &track.Position,
			&track.Title, &track.Duration, &track.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tracks: %w", err)
	}

	// Position order is the catalog rule, not lexical SQL order.
	catalog.SortTracks(tracks)
	album.Tracks = tracks
	return album, nil
}

func (s *AlbumStore) FindByArtistID(ctx context.Context, artistID string) ([]model.Album, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+albumColumns+`
		 FROM albums a
		 LEFT JOIN ratings r ON a.id = r.album_id
		 WHERE a.artist_id = ?
		 GROUP BY a.id
		 ORDER BY a.release_year, a.title`,
		artistID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing albums for artist %s: %w", artistID, err)
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows, false, false)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning album row: %w", err)
		}
		albums = append(albums, *album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating albums: %w", err)
	}
	return albums, nil
}

func (s *AlbumStore) Search(ctx context.Context, query string) ([]model.Album, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+albumColumns+`, ar.name
		 FROM albums a
		 JOIN artists ar ON a.artist_id = ar.id
		 LEFT JOIN ratings r ON a.id = r.album_id
		 WHERE LOWER(a.title) LIKE LOWER(?) OR LOWER(ar.name) LIKE LOWER(?)
		 GROUP BY a.id
		 ORDER BY ar.name, a.title`,
		"%"+query+"%", "%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching albums: %w", err)
	}
	defer rows.Close()

	albums := []model.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows, true, false)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning album row: %w", err)
		}
		albums = append(albums, *album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating albums: %w", err)
	}
	return albums, nil
}

func (s *AlbumStore) Update(ctx context.Context, album *model.Album) error {
	album.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE albums
		 SET title = ?, artist_id = ?, release_year = ?, label = ?, label_id = ?,
		     cover_image = ?, format = ?, style = ?, release_type = ?, updated_at = ?
		 WHERE id = ?`,
		album.Title,
		album.ArtistID,
		album.ReleaseYear,
		album.Label,
		nullable(album.LabelID),
		album.CoverImage,
		album.Format,
		album.Style,
		album.ReleaseType,
		album.UpdatedAt,
		album.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating album %s: %w", album.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("album", album.ID)
	}
	return nil
}

func (s *AlbumStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting album %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("album", id)
	}
	return nil
}
