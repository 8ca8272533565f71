package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentType represents the type of legal document being drafted
type DocumentType string

const (
	DocTypeComplaint DocumentType = "complaint"
	DocTypeMotion    DocumentType = "motion"
	DocTypeBrief     DocumentType = "brief"
	DocTypeResponse  DocumentType = "response"
)

// DraftStatus represents the review status of a draft.
// Transitions are monotonic: draft -> reviewed -> exported.
type DraftStatus string

const (
	DraftStatusDraft    DraftStatus = "draft"
	DraftStatusReviewed DraftStatus = "reviewed"
	DraftStatusExported DraftStatus = "exported"
)

// statusRank orders draft statuses for monotonicity checks
var statusRank = map[DraftStatus]int{
	DraftStatusDraft:    0,
	DraftStatusReviewed: 1,
	DraftStatusExported: 2,
}

// CanTransitionTo reports whether a status change is allowed.
// Staying on the same status is allowed; moving backwards is not.
func (s DraftStatus) CanTransitionTo(next DraftStatus) bool {
	cur, ok := statusRank[s]
	if !ok {
		return false
	}
	nxt, ok := statusRank[next]
	if !ok {
		return false
	}
	return nxt >= cur
}

// Citation represents an auditable reference to a piece of case evidence.
// Citations are derived from retrieval results, never from model output.
type Citation struct {
	EvidenceID string   `json:"evidence_id"`
	Snippet    string   `json:"snippet"`
	Labels     []string `json:"labels"`
}

// PrecedentCitation represents a reference to a prior court decision
type PrecedentCitation struct {
	CaseRef         string   `json:"case_ref"`
	Court           string   `json:"court"`
	DecisionDate    string   `json:"decision_date"`
	Summary         string   `json:"summary"`
	KeyFactors      []string `json:"key_factors"`
	SimilarityScore float64  `json:"similarity_score"`
	SourceURL       *string  `json:"source_url,omitempty"`
}

// DraftSectionContent is one titled section of a draft document
type DraftSectionContent struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}

// DraftContent is the structured content of a persisted draft
type DraftContent struct {
	Header    string                `json:"header,omitempty"`
	Sections  []DraftSectionContent `json:"sections"`
	Citations []Citation            `json:"citations"`
	Footer    string                `json:"footer,omitempty"`
}

// Value implements driver.Valuer for JSONB
func (c DraftContent) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *DraftContent) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Draft represents a persisted draft document. A draft is owned by its
// case and removed with it; version increments exactly once per content
// update and never on metadata-only updates.
type Draft struct {
	ID        uuid.UUID    `json:"id"`
	CaseID    uuid.UUID    `json:"case_id"`
	Title     string       `json:"title"`
	DocType   DocumentType `json:"doc_type"`
	Content   DraftContent `json:"content"`
	Version   int          `json:"version"`
	Status    DraftStatus  `json:"status"`
	CreatedBy uuid.UUID    `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
