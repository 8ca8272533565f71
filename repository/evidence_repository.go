package repository

import (
	"context"
	"fmt"

	"casedraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EvidenceRepository reads evidence records and their embedded chunks.
// Records and embeddings are written by the ingestion pipeline; this
// service only queries them.
type EvidenceRepository struct {
	db *pgxpool.Pool
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db *pgxpool.Pool) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// GetByCase retrieves all evidence records for a case
func (r *EvidenceRepository) GetByCase(ctx context.Context, caseID uuid.UUID) ([]models.EvidenceRecord, error) {
	query := `
		SELECT id, case_id, content, labels, speaker, recorded_at, status
		FROM evidence
		WHERE case_id = $1
		ORDER BY recorded_at NULLS LAST, id`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer rows.Close()

	var records []models.EvidenceRecord
	for rows.Next() {
		var rec models.EvidenceRecord
		err := rows.Scan(
			&rec.ID,
			&rec.CaseID,
			&rec.Content,
			&rec.Labels,
			&rec.Speaker,
			&rec.Timestamp,
			&rec.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evidence record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Search performs a vector similarity search over the evidence chunks of a
// single case. Results come back ordered by ascending cosine distance,
// which the reported score inverts (score = 1 - distance).
func (r *EvidenceRepository) Search(
	ctx context.Context,
	caseID uuid.UUID,
	embedding []float64,
	topK int,
) ([]models.RetrievedDocument, error) {
	if err := validateEmbedding(embedding); err != nil {
		return nil, err
	}

	vectorStr := formatVector(embedding)

	query := `
		SELECT
			ec.evidence_id,
			ec.chunk_text,
			e.labels,
			COALESCE(e.speaker, ''),
			COALESCE(to_char(e.recorded_at, 'YYYY-MM-DD HH24:MI'), ''),
			ec.embedding <=> $2::vector AS distance
		FROM evidence_chunks ec
		JOIN evidence e ON e.id = ec.evidence_id
		WHERE ec.case_id = $1
			AND e.status = 'done'
		ORDER BY ec.embedding <=> $2::vector
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, caseID, vectorStr, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence chunks: %w", err)
	}
	defer rows.Close()

	var docs []models.RetrievedDocument
	for rows.Next() {
		var doc models.RetrievedDocument
		var distance float64
		err := rows.Scan(
			&doc.ID,
			&doc.Content,
			&doc.Labels,
			&doc.Speaker,
			&doc.Timestamp,
			&distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evidence chunk: %w", err)
		}
		doc.Collection = models.CollectionEvidence
		doc.Score = 1 - distance
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
