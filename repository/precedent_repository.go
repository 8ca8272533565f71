package repository

import (
	"context"
	"fmt"

	"casedraft-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PrecedentRepository handles database operations for the precedent
// collection (prior court decisions)
type PrecedentRepository struct {
	db *pgxpool.Pool
}

// NewPrecedentRepository creates a new precedent repository
func NewPrecedentRepository(db *pgxpool.Pool) *PrecedentRepository {
	return &PrecedentRepository{db: db}
}

// Search performs a vector search over precedents, dropping results whose
// similarity (1 - cosine distance) falls below minScore
func (r *PrecedentRepository) Search(
	ctx context.Context,
	embedding []float64,
	limit int,
	minScore float64,
) ([]models.Precedent, error) {
	if err := validateEmbedding(embedding); err != nil {
		return nil, err
	}

	vectorStr := formatVector(embedding)

	query := `
		SELECT
			case_ref,
			court,
			COALESCE(decision_date, ''),
			summary,
			key_factors,
			1 - (embedding <=> $1::vector) AS similarity
		FROM precedents
		WHERE 1 - (embedding <=> $1::vector) >= $2
		ORDER BY embedding <=> $1::vector
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, vectorStr, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query precedents: %w", err)
	}
	defer rows.Close()

	var precedents []models.Precedent
	for rows.Next() {
		var p models.Precedent
		err := rows.Scan(
			&p.CaseRef,
			&p.Court,
			&p.DecisionDate,
			&p.Summary,
			&p.KeyFactors,
			&p.SimilarityScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan precedent: %w", err)
		}
		precedents = append(precedents, p)
	}

	return precedents, rows.Err()
}
