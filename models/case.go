package models

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus represents the status of a divorce case
type CaseStatus string

const (
	CaseStatusActive CaseStatus = "active"
	CaseStatusClosed CaseStatus = "closed"
)

// CaseMemberRole represents a user's role within a case
type CaseMemberRole string

const (
	CaseRoleOwner  CaseMemberRole = "owner"
	CaseRoleMember CaseMemberRole = "member"
	CaseRoleViewer CaseMemberRole = "viewer"
)

// Case represents a divorce case entity
type Case struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      CaseStatus `json:"status"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CaseMember represents a user's membership in a case
type CaseMember struct {
	CaseID uuid.UUID      `json:"case_id"`
	UserID uuid.UUID      `json:"user_id"`
	Role   CaseMemberRole `json:"role"`
}
