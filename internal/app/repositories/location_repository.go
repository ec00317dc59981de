package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
	"github.com/mkaraca/sideout/internal/pkg/dberrors"
)

// LocationRepository handles beach location database operations
type LocationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLocationRepository creates a new LocationRepository
func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const locationColumns = `id, name, address, city, latitude, longitude, court_count, description, created_at, updated_at`

func scanLocation(row pgx.Row) (*models.Location, error) {
	loc := &models.Location{}
	err := row.Scan(
		&loc.ID, &loc.Name, &loc.Address, &loc.City, &loc.Latitude, &loc.Longitude,
		&loc.CourtCount, &loc.Description, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, fmt.Errorf("error scanning location: %w", err)
	}
	return loc, nil
}

// CreateLocation creates a new location and returns its ID
func (r *LocationRepository) CreateLocation(ctx context.Context, loc *models.Location) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO locations (name, address, city, latitude, longitude, court_count, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		loc.Name, loc.Address, loc.City, loc.Latitude, loc.Longitude,
		loc.CourtCount, loc.Description).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error creating location: %w", err)
	}

	return id, nil
}

// GetLocationByID retrieves a location by ID
func (r *LocationRepository) GetLocationByID(ctx context.Context, id int64) (*models.Location, error) {
	row := r.db.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	return scanLocation(row)
}

// ListLocations retrieves locations, optionally filtered by city
func (r *LocationRepository) ListLocations(ctx context.Context, city string, offset, limit int) ([]*models.Location, int64, error) {
	where := squirrel.And{}
	if city != "" {
		where = append(where, squirrel.Expr("city ILIKE ?", city))
	}

	countQuery := r.sb.Select("COUNT(*)").From("locations")
	listQuery := r.sb.Select(locationColumns).From("locations")
	if len(where) > 0 {
		countQuery = countQuery.Where(where)
		listQuery = listQuery.Where(where)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build location count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting locations: %w", err)
	}

	listSQL, listArgs, err := listQuery.
		OrderBy("name").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build location list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, 0, err
		}
		locations = append(locations, loc)
	}

	return locations, total, rows.Err()
}

// UpdateLocation updates a location's fields
func (r *LocationRepository) UpdateLocation(ctx context.Context, loc *models.Location) error {
	result, err := r.db.Exec(ctx, `
		UPDATE locations
		SET name = $1, address = $2, city = $3, latitude = $4, longitude = $5,
			court_count = $6, description = $7, updated_at = NOW()
		WHERE id = $8`,
		loc.Name, loc.Address, loc.City, loc.Latitude, loc.Longitude,
		loc.CourtCount, loc.Description, loc.ID)

	if err != nil {
		return fmt.Errorf("error updating location: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrLocationNotFound
	}

	return nil
}

// DeleteLocation removes a location. Fails if lessons reference it.
func (r *LocationRepository) DeleteLocation(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrLocationHasRelations
		}
		return fmt.Errorf("error deleting location: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrLocationNotFound
	}

	return nil
}

// AddPhoto links a stored file to a location
func (r *LocationRepository) AddPhoto(ctx context.Context, locationID, fileID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO location_photos (location_id, file_id)
		VALUES ($1, $2)`,
		locationID, fileID)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrLocationNotFound
		}
		return fmt.Errorf("error adding location photo: %w", err)
	}

	return nil
}

// GetPhotos retrieves the photo files linked to a location
func (r *LocationRepository) GetPhotos(ctx context.Context, locationID int64) ([]*models.File, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.id, f.file_name, f.file_path, f.file_url, f.file_size, f.file_type,
			f.resource_type, f.resource_id, f.uploaded_by, f.created_at, f.updated_at
		FROM location_photos lp
		JOIN files f ON f.id = lp.file_id
		WHERE lp.location_id = $1
		ORDER BY lp.created_at`,
		locationID)
	if err != nil {
		return nil, fmt.Errorf("error querying location photos: %w", err)
	}
	defer rows.Close()

	var files []*models.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// RemovePhoto unlinks a photo from a location
func (r *LocationRepository) RemovePhoto(ctx context.Context, locationID, fileID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM location_photos
		WHERE location_id = $1 AND file_id = $2`,
		locationID, fileID)

	if err != nil {
		return fmt.Errorf("error removing location photo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
