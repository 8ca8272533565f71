package repository

import (
	"fmt"
	"strings"
)

// embeddingDim is the dimensionality of all stored embeddings
// (gemini-embedding-001 with output_dimensionality=768)
const embeddingDim = 768

// formatVector formats an embedding vector as a pgvector literal for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func validateEmbedding(embedding []float64) error {
	if len(embedding) != embeddingDim {
		return fmt.Errorf("embedding must be %d dimensions, got %d", embeddingDim, len(embedding))
	}
	return nil
}
