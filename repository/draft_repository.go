package repository

import (
	"context"
	"errors"

	"casedraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DraftRepository handles database operations for drafts
type DraftRepository struct {
	db *pgxpool.Pool
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{db: db}
}

// Create creates a new draft at version 1 with status "draft"
func (r *DraftRepository) Create(ctx context.Context, draft *models.Draft) error {
	query := `
		INSERT INTO drafts (
			case_id, title, doc_type, content, version, status, created_by
		) VALUES ($1, $2, $3, $4, 1, $5, $6)
		RETURNING id, version, created_at, updated_at`

	if draft.Status == "" {
		draft.Status = models.DraftStatusDraft
	}

	err := r.db.QueryRow(
		ctx, query,
		draft.CaseID,
		draft.Title,
		draft.DocType,
		draft.Content,
		draft.Status,
		draft.CreatedBy,
	).Scan(&draft.ID, &draft.Version, &draft.CreatedAt, &draft.UpdatedAt)

	return err
}

// GetByID retrieves a draft by ID. Returns (nil, nil) when no draft exists.
func (r *DraftRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft := &models.Draft{}
	query := `
		SELECT id, case_id, title, doc_type, content, version, status,
			created_by, created_at, updated_at
		FROM drafts
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&draft.ID,
		&draft.CaseID,
		&draft.Title,
		&draft.DocType,
		&draft.Content,
		&draft.Version,
		&draft.Status,
		&draft.CreatedBy,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return draft, nil
}

// ListByCase retrieves all drafts for a case, newest first
func (r *DraftRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*models.Draft, error) {
	query := `
		SELECT id, case_id, title, doc_type, content, version, status,
			created_by, created_at, updated_at
		FROM drafts
		WHERE case_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*models.Draft
	for rows.Next() {
		draft := &models.Draft{}
		err := rows.Scan(
			&draft.ID,
			&draft.CaseID,
			&draft.Title,
			&draft.DocType,
			&draft.Content,
			&draft.Version,
			&draft.Status,
			&draft.CreatedBy,
			&draft.CreatedAt,
			&draft.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	return drafts, rows.Err()
}

// UpdateContent replaces the draft content and increments the version.
// This is the only update path that bumps the version counter.
func (r *DraftRepository) UpdateContent(ctx context.Context, id uuid.UUID, content models.DraftContent) (*models.Draft, error) {
	query := `
		UPDATE drafts SET
			content = $2,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, case_id, title, doc_type, content, version, status,
			created_by, created_at, updated_at`

	draft := &models.Draft{}
	err := r.db.QueryRow(ctx, query, id, content).Scan(
		&draft.ID,
		&draft.CaseID,
		&draft.Title,
		&draft.DocType,
		&draft.Content,
		&draft.Version,
		&draft.Status,
		&draft.CreatedBy,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return draft, nil
}

// UpdateMetadata updates title and status without touching content or version
func (r *DraftRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, title string, status models.DraftStatus) (*models.Draft, error) {
	query := `
		UPDATE drafts SET
			title = $2,
			status = $3,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, case_id, title, doc_type, content, version, status,
			created_by, created_at, updated_at`

	draft := &models.Draft{}
	err := r.db.QueryRow(ctx, query, id, title, status).Scan(
		&draft.ID,
		&draft.CaseID,
		&draft.Title,
		&draft.DocType,
		&draft.Content,
		&draft.Version,
		&draft.Status,
		&draft.CreatedBy,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return draft, nil
}
