package service

import (
	"context"

	"casedraft-backend/models"

	"github.com/google/uuid"
)

// CaseStore provides case lookup and access checks. Access checks are
// always evaluated before existence checks so that permission errors
// never leak whether a case exists.
type CaseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error)
	HasReadAccess(ctx context.Context, caseID, userID uuid.UUID) (bool, error)
	HasWriteAccess(ctx context.Context, caseID, userID uuid.UUID) (bool, error)
}

// EvidenceStore reads evidence records and searches evidence chunks
type EvidenceStore interface {
	GetByCase(ctx context.Context, caseID uuid.UUID) ([]models.EvidenceRecord, error)
	Search(ctx context.Context, caseID uuid.UUID, embedding []float64, topK int) ([]models.RetrievedDocument, error)
}

// LegalStore searches the legal knowledge base
type LegalStore interface {
	Search(ctx context.Context, embedding []float64, docType string, limit int) ([]models.RetrievedDocument, error)
}

// PrecedentStore searches the precedent collection
type PrecedentStore interface {
	Search(ctx context.Context, embedding []float64, limit int, minScore float64) ([]models.Precedent, error)
}

// DraftStore persists drafts
type DraftStore interface {
	Create(ctx context.Context, draft *models.Draft) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]*models.Draft, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content models.DraftContent) (*models.Draft, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, title string, status models.DraftStatus) (*models.Draft, error)
}

// TemplateStore resolves document schemas and line templates per
// document type. A missing schema selects freeform generation mode.
type TemplateStore interface {
	GetSchema(docType models.DocumentType) (*DocumentSchema, bool)
	GetTemplateLines(docType models.DocumentType) ([]models.Line, bool)
}
