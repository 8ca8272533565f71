package models

import (
	"time"

	"github.com/google/uuid"
)

// Supported export formats
const (
	ExportFormatDocx = "docx"
	ExportFormatPDF  = "pdf"
)

// ExportRecord represents a generated export file for a case draft
type ExportRecord struct {
	ID          uuid.UUID `json:"id"`
	CaseID      uuid.UUID `json:"case_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
