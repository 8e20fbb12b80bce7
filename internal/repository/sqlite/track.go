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

// TrackStore implements repository.TrackRepository.
type TrackStore struct {
	conn *sql.DB
}

var _ repository.TrackRepository = (*TrackStore)(nil)

func (s *TrackStore) Create(ctx context.Context, track *model.Track) error {
	track.ID = xid.New().String()
	track.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO tracks (id, album_id, position, title, duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		track.ID,
		track.AlbumID,
		track.Position,
		track.Title,
		track.Duration,
		track.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating track: %w", err)
	}
	return nil
}

func (s *TrackStore) FindByID(ctx context.Context, id string) (*model.Track, error) {
	var track model.Track
	err := s.conn.QueryRowContext(ctx,
		`SELECT t.id, t.album_id, t.position, t.title, t.duration, t.created_at,
		        a.title, ar.name
		 FROM tracks t
		 JOIN albums a ON t.album_id = a.id
		 JOIN artists ar ON a.artist_id = ar.id
		 WHERE t.id = ?`,
		id,
	).Scan(
		&track.ID, &track.AlbumID, &track.Position, &track.Title,
		&track.Duration, &track.CreatedAt, &track.AlbumTitle, &track.ArtistName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("track", id)
		}
		return nil, fmt.Errorf("sqlite: getting track %s: %w", id, err)
	}
	return &track, nil
}

// FindByAlbumID returns the album's tracks in position order. The ordering
// rule lives in package catalog (SQLite has no regexp operator to express
// it in SQL the way Postgres would).
func (s *TrackStore) FindByAlbumID(ctx context.Context, albumID string) ([]model.Track, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, album_id, position, title, duration, created_at
		 FROM tracks
		 WHERE album_id = ?`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tracks for album %s: %w", albumID, err)
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

	catalog.SortTracks(tracks)
	return tracks, nil
}

// FindByArtistID lists every track across an artist's albums, oldest album
// first, position order within an album.
func (s *TrackStore) FindByArtistID(ctx context.Context, artistID string) ([]model.Track, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT t.id, t.album_id, t.position, t.title, t.duration, t.created_at, a.title
		 FROM tracks t
		 JOIN albums a ON t.album_id = a.id
		 WHERE a.artist_id = ?
		 ORDER BY a.release_year, a.title`,
		artistID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tracks for artist %s: %w", artistID, err)
	}
	defer rows.Close()

	tracks := []model.Track{}
	for rows.Next() {
		var track model.Track
		if err := rows.Scan(
			&track.ID, &track.AlbumID, &track.Position, &track.Title,
			&track.Duration, &track.CreatedAt, &track.AlbumTitle,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tracks: %w", err)
	}

	// Keep the album grouping from the query; order positions within
	// each album.
	sortTracksWithinAlbums(tracks)
	return tracks, nil
}

// sortTracksWithinAlbums applies the position order to each contiguous run
// of tracks sharing an album.
func sortTracksWithinAlbums(tracks []model.Track) {
	start := 0
	for i := 1; i <= len(tracks); i++ {
		if i == len(tracks) || tracks[i].AlbumID != tracks[start].AlbumID {
			catalog.SortTracks(tracks[start:i])
			start = i
		}
	}
}

func (s *TrackStore) Update(ctx context.Context, track *model.Track) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE tracks
		 SET position = ?, title = ?, duration = ?
		 WHERE id = ?`,
		track.Position,
		track.Title,
		track.Duration,
		track.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating track %s: %w", track.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("track", track.ID)
	}
	return nil
}

func (s *TrackStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting track %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("track", id)
	}
	return nil
}
