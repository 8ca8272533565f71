package repository

import (
	"context"
	"errors"

	"casedraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExportRepository handles database operations for export records
type ExportRepository struct {
	db *pgxpool.Pool
}

// NewExportRepository creates a new export repository
func NewExportRepository(db *pgxpool.Pool) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create records a generated export file
func (r *ExportRepository) Create(ctx context.Context, rec *models.ExportRecord) error {
	query := `
		INSERT INTO exports (
			case_id, filename, content_type, size, storage_path, created_by
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		rec.CaseID,
		rec.Filename,
		rec.ContentType,
		rec.Size,
		rec.StoragePath,
		rec.CreatedBy,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// GetByID retrieves an export record, nil if none exists
func (r *ExportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExportRecord, error) {
	query := `
		SELECT id, case_id, filename, content_type, size, storage_path,
			created_by, created_at
		FROM exports
		WHERE id = $1`

	var rec models.ExportRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.CaseID,
		&rec.Filename,
		&rec.ContentType,
		&rec.Size,
		&rec.StoragePath,
		&rec.CreatedBy,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Delete removes an export record
func (r *ExportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM exports WHERE id = $1`, id)
	return err
}

// ListByCase retrieves export records for a case, newest first
func (r *ExportRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.ExportRecord, error) {
	query := `
		SELECT id, case_id, filename, content_type, size, storage_path,
			created_by, created_at
		FROM exports
		WHERE case_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ExportRecord
	for rows.Next() {
		var rec models.ExportRecord
		err := rows.Scan(
			&rec.ID,
			&rec.CaseID,
			&rec.Filename,
			&rec.ContentType,
			&rec.Size,
			&rec.StoragePath,
			&rec.CreatedBy,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
