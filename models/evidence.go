package models

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceStatus represents the processing status of an evidence item.
// Only "done" evidence has been fully analyzed and indexed.
type EvidenceStatus string

const (
	EvidenceStatusPending    EvidenceStatus = "pending"
	EvidenceStatusProcessing EvidenceStatus = "processing"
	EvidenceStatusDone       EvidenceStatus = "done"
	EvidenceStatusFailed     EvidenceStatus = "failed"
)

// EvidenceRecord represents an evidence item belonging to a case.
// Records are produced by the ingestion pipeline; this service only reads them.
type EvidenceRecord struct {
	ID        string         `json:"id"`
	CaseID    uuid.UUID      `json:"case_id"`
	Content   string         `json:"content"`
	Labels    []string       `json:"labels"`
	Speaker   *string        `json:"speaker,omitempty"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Status    EvidenceStatus `json:"status"`
}

// SourceCollection identifies which logical collection a retrieved
// document came from
type SourceCollection string

const (
	CollectionEvidence  SourceCollection = "evidence"
	CollectionLegal     SourceCollection = "legal"
	CollectionPrecedent SourceCollection = "precedent"
)

// RetrievedDocument represents a single ranked result of a semantic search.
// Results are ordered by descending score; ties keep retrieval order.
type RetrievedDocument struct {
	Collection SourceCollection `json:"collection"`
	ID         string           `json:"id"`
	Content    string           `json:"content"`
	Score      float64          `json:"score"`
	Labels     []string         `json:"labels,omitempty"`
	Speaker    string           `json:"speaker,omitempty"`
	Timestamp  string           `json:"timestamp,omitempty"`
}

// Precedent represents a prior court decision returned by precedent search
type Precedent struct {
	CaseRef         string   `json:"case_ref"`
	Court           string   `json:"court"`
	DecisionDate    string   `json:"decision_date"`
	Summary         string   `json:"summary"`
	KeyFactors      []string `json:"key_factors"`
	SimilarityScore float64  `json:"similarity_score"`
}
