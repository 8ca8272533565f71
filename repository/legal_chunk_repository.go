package repository

import (
	"context"
	"fmt"

	"casedraft-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LegalChunkRepository handles database operations for the legal
// knowledge base (statute excerpts and commentary)
type LegalChunkRepository struct {
	db *pgxpool.Pool
}

// NewLegalChunkRepository creates a new legal chunk repository
func NewLegalChunkRepository(db *pgxpool.Pool) *LegalChunkRepository {
	return &LegalChunkRepository{db: db}
}

// Search performs a vector search over legal chunks.
// docType filters by "statute" or "commentary"; empty matches all types.
func (r *LegalChunkRepository) Search(
	ctx context.Context,
	embedding []float64,
	docType string,
	limit int,
) ([]models.RetrievedDocument, error) {
	if err := validateEmbedding(embedding); err != nil {
		return nil, err
	}

	vectorStr := formatVector(embedding)

	var typeFilter string
	var args []interface{}
	if docType == "" {
		typeFilter = "TRUE"
		args = []interface{}{vectorStr, limit}
	} else {
		typeFilter = "doc_type = $2"
		args = []interface{}{vectorStr, docType, limit}
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			chunk_text,
			COALESCE(article, source_document),
			embedding <=> $1::vector AS distance
		FROM legal_chunks
		WHERE %s
		ORDER BY embedding <=> $1::vector
		LIMIT $%d`, typeFilter, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query legal chunks: %w", err)
	}
	defer rows.Close()

	var docs []models.RetrievedDocument
	for rows.Next() {
		var doc models.RetrievedDocument
		var source string
		var distance float64
		if err := rows.Scan(&doc.ID, &doc.Content, &source, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan legal chunk: %w", err)
		}
		doc.Collection = models.CollectionLegal
		doc.Labels = []string{source}
		doc.Score = 1 - distance
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legal chunks: %w", err)
	}

	return docs, nil
}
