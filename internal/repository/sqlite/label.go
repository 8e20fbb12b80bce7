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

// LabelStore implements repository.LabelRepository.
type LabelStore struct {
	conn *sql.DB
}

var _ repository.LabelRepository = (*LabelStore)(nil)

func (s *LabelStore) Create(ctx context.Context, label *model.Label) error {
	label.ID = xid.New().String()
	now := time.Now()
	label.CreatedAt = now
	label.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO labels (id, name, description, founded_year, country, website, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		label.ID,
		label.Name,
		label.Description,
		label.FoundedYear,
		label.Country,
		label.Website,
		label.CreatedAt,
		label.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("label %q already exists", label.Name))
		}
		return fmt.Errorf("sqlite: creating label: %w", err)
	}
	return nil
}

// labelColumns includes the artist/album counts, computed with DISTINCT
// because the double LEFT JOIN multiplies rows.
const labelColumns = `
	l.id, l.name, l.description, l.founded_year, l.country, l.website,
	COUNT(DISTINCT a.id), COUNT(DISTINCT al.id), l.created_at, l.updated_at`

const labelJoins = `
	FROM labels l
	LEFT JOIN artists a ON l.id = a.label_id
	LEFT JOIN albums al ON l.id = al.label_id`

func scanLabel(row interface{ Scan(...any) error }) (*model.Label, error) {
	var label model.Label
	err := row.Scan(
		&label.ID, &label.Name, &label.Description, &label.FoundedYear,
		&label.Country, &label.Website, &label.ArtistCount, &label.AlbumCount,
		&label.CreatedAt, &label.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &label, nil
}

func (s *LabelStore) FindAll(ctx context.Context, opts repository.ListOptions) ([]model.Label, error) {
	limit, offset := normalizePage(opts)

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+labelColumns+labelJoins+`
		 GROUP BY l.id
		 ORDER BY l.name
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing labels: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows, limit)
}

func (s *LabelStore) FindByID(ctx context.Context, id string) (*model.Label, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+labelColumns+labelJoins+`
		 WHERE l.id = ?
		 GROUP BY l.id`,
		id,
	)
	label, err := scanLabel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("label", id)
		}
		return nil, fmt.Errorf("sqlite: getting label %s: %w", id, err)
	}
	return label, nil
}

func (s *LabelStore) FindByName(ctx context.Context, name string) (*model.Label, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, name, description, founded_year, country, website,
		        0, 0, created_at, updated_at
		 FROM labels
		 WHERE name = ?`,
		name,
	)
	label, err := scanLabel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("label", name)
		}
		return nil, fmt.Errorf("sqlite: getting label by name %q: %w", name, err)
	}
	return label, nil
}

func (s *LabelStore) Search(ctx context.Context, query string) ([]model.Label, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+labelColumns+labelJoins+`
		 WHERE LOWER(l.name) LIKE LOWER(?)
		 GROUP BY l.id
		 ORDER BY l.name`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching labels: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows, 0)
}

// GetArtists lists a label's artists with the average rating across each
// artist's albums.
func (s *LabelStore) GetArtists(ctx context.Context, labelID string) ([]model.Artist, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT a.id, a.name, a.bio, a.location, a.formed_year, a.label_id,
		        AVG(r.rating), a.created_at, a.updated_at
		 FROM artists a
		 LEFT JOIN albums al ON a.id = al.artist_id
		 LEFT JOIN ratings r ON al.id = r.album_id
		 WHERE a.label_id = ?
		 GROUP BY a.id
		 ORDER BY a.name`,
		labelID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing artists for label %s: %w", labelID, err)
	}
	defer rows.Close()

	artists := []model.Artist{}
	for rows.Next() {
		var (
			artist  model.Artist
			lblID   sql.NullString
			avg     sql.NullFloat64
		)
		if err := rows.Scan(
			&artist.ID, &artist.Name, &artist.Bio, &artist.Location,
			&artist.FormedYear, &lblID, &avg,
			&artist.CreatedAt, &artist.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning artist row: %w", err)
		}
		artist.LabelID = lblID.String
		artist.AvgRating = avg.Float64
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating artists: %w", err)
	}
	return artists, nil
}

// GetAlbums lists a label's albums with artist name and rating aggregates.
func (s *LabelStore) GetAlbums(ctx context.Context, labelID string) ([]model.Album, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+albumColumns+`, ar.name
		 FROM albums a
		 JOIN artists ar ON a.artist_id = ar.id
		 LEFT JOIN ratings r ON a.id = r.album_id
		 WHERE a.label_id = ?
		 GROUP BY a.id
		 ORDER BY a.release_year, a.title`,
		labelID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing albums for label %s: %w", labelID, err)
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

func (s *LabelStore) Update(ctx context.Context, label *model.Label) error {
	label.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE labels
		 SET name = ?, description = ?, founded_year = ?, country = ?, website = ?, updated_at = ?
		 WHERE id = ?`,
		label.Name,
		label.Description,
		label.FoundedYear,
		label.Country,
		label.Website,
		label.UpdatedAt,
		label.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("label %q already exists", label.Name))
		}
		return fmt.Errorf("sqlite: updating label %s: %w", label.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("label", label.ID)
	}
	return nil
}

func (s *LabelStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting label %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("label", id)
	}
	return nil
}

func collectLabels(rows *sql.Rows, capacity int) ([]model.Label, error) {
	labels := make([]model.Label, 0, capacity)
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning label row: %w", err)
		}
		labels = append(labels, *label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating labels: %w", err)
	}
	return labels, nil
}
