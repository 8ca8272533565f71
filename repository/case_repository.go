package repository

import (
	"context"
	"errors"

	"casedraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseRepository handles database operations for cases and case membership
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create inserts a new case
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	query := `
		INSERT INTO cases (title, description, status, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	status := c.Status
	if status == "" {
		status = models.CaseStatusActive
	}
	c.Status = status

	return r.db.QueryRow(
		ctx, query,
		c.Title,
		c.Description,
		status,
		c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// AddMember grants a user a role on a case. An existing membership is
// updated to the new role.
func (r *CaseRepository) AddMember(ctx context.Context, m *models.CaseMember) error {
	query := `
		INSERT INTO case_members (case_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (case_id, user_id) DO UPDATE SET role = EXCLUDED.role`

	_, err := r.db.Exec(ctx, query, m.CaseID, m.UserID, m.Role)
	return err
}

// GetByID retrieves a case by ID. Returns (nil, nil) when no case exists.
func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	c := &models.Case{}
	query := `
		SELECT id, title, description, status, created_by, created_at, updated_at
		FROM cases
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Status,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

// HasReadAccess reports whether the user owns the case or is a member of
// it in any role. It deliberately does not distinguish a missing case from
// a missing membership so callers can check access before existence.
func (r *CaseRepository) HasReadAccess(ctx context.Context, caseID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM cases WHERE id = $1 AND created_by = $2
			UNION ALL
			SELECT 1 FROM case_members WHERE case_id = $1 AND user_id = $2
		)`

	var ok bool
	err := r.db.QueryRow(ctx, query, caseID, userID).Scan(&ok)
	return ok, err
}

// HasWriteAccess reports whether the user owns the case or holds a
// non-viewer membership role
func (r *CaseRepository) HasWriteAccess(ctx context.Context, caseID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM cases WHERE id = $1 AND created_by = $2
			UNION ALL
			SELECT 1 FROM case_members
			WHERE case_id = $1 AND user_id = $2 AND role IN ('owner', 'member')
		)`

	var ok bool
	err := r.db.QueryRow(ctx, query, caseID, userID).Scan(&ok)
	return ok, err
}
