package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkaraca/sideout/internal/app/models"
	"github.com/mkaraca/sideout/internal/pkg/apperrors"
)

// FileRepository handles file metadata database operations
type FileRepository struct {
	db *pgxpool.Pool
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `id, file_name, file_path, file_url, file_size, file_type,
	resource_type, resource_id, uploaded_by, created_at, updated_at`

func scanFile(row pgx.Row) (*models.File, error) {
	file := &models.File{}
	err := row.Scan(
		&file.ID, &file.FileName, &file.FilePath, &file.FileURL, &file.FileSize,
		&file.FileType, &file.ResourceType, &file.ResourceID, &file.UploadedBy,
		&file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error scanning file: %w", err)
	}
	return file, nil
}

// CreateFile stores file metadata and returns the stored record
func (r *FileRepository) CreateFile(ctx context.Context, file *models.File) (*models.File, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO files (file_name, file_path, file_url, file_size, file_type, resource_type, resource_id, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		file.FileName, file.FilePath, file.FileURL, file.FileSize, file.FileType,
		file.ResourceType, file.ResourceID, file.UploadedBy).Scan(&id)

	if err != nil {
		return nil, fmt.Errorf("error creating file record: %w", err)
	}

	return r.GetFileByID(ctx, id)
}

// GetFileByID retrieves a file record by ID
func (r *FileRepository) GetFileByID(ctx context.Context, id int64) (*models.File, error) {
	row := r.db.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id)
	return scanFile(row)
}

// GetFilesByResource retrieves all files attached to a resource
func (r *FileRepository) GetFilesByResource(ctx context.Context, resourceType models.FileType, resourceID int64) ([]*models.File, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fileColumns+`
		FROM files
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at`,
		resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("error querying files: %w", err)
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

// DeleteFile removes a file record
func (r *FileRepository) DeleteFile(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// UpdateResourceID re-points a file at a resource after the resource is created
func (r *FileRepository) UpdateResourceID(ctx context.Context, fileID, resourceID int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE files
		SET resource_id = $1, updated_at = NOW()
		WHERE id = $2`,
		resourceID, fileID)
	if err != nil {
		return fmt.Errorf("error updating file resource: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
