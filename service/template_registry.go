package service

import (
	"fmt"

	"casedraft-backend/models"
)

// SchemaSection describes one section of a structured document schema
type SchemaSection struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DocumentSchema is the JSON output contract for schema-mode generation.
// Section order is the rendering order.
type DocumentSchema struct {
	Name     string          `json:"name"`
	Sections []SchemaSection `json:"sections"`
}

// TemplateRegistry holds the line templates and schemas per document
// type. The maps are built once at construction and never mutated, so
// concurrent reads need no locking.
type TemplateRegistry struct {
	templates map[models.DocumentType]*models.Template
	schemas   map[models.DocumentType]*DocumentSchema
}

// NewTemplateRegistry creates a registry with the built-in divorce
// document templates
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: map[models.DocumentType]*models.Template{
			models.DocTypeComplaint: complaintTemplate(),
		},
		schemas: map[models.DocumentType]*DocumentSchema{
			models.DocTypeComplaint: complaintSchema(),
		},
	}
}

// Load returns the template for a document type, or ErrTemplateNotFound
func (r *TemplateRegistry) Load(docType models.DocumentType) (*models.Template, error) {
	tmpl, ok := r.templates[docType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, docType)
	}
	return tmpl, nil
}

// GetSchema returns the registered output schema for a document type
func (r *TemplateRegistry) GetSchema(docType models.DocumentType) (*DocumentSchema, bool) {
	schema, ok := r.schemas[docType]
	return schema, ok
}

// GetTemplateLines returns a copy of the template lines for a document type
func (r *TemplateRegistry) GetTemplateLines(docType models.DocumentType) ([]models.Line, bool) {
	tmpl, ok := r.templates[docType]
	if !ok {
		return nil, false
	}
	lines := make([]models.Line, len(tmpl.Lines))
	copy(lines, tmpl.Lines)
	return lines, true
}

// FilterConditional returns the subsequence of lines whose condition is
// absent or evaluates true in the condition map. Order is preserved and
// no line is duplicated.
func FilterConditional(lines []models.Line, conditions map[string]bool) []models.Line {
	filtered := make([]models.Line, 0, len(lines))
	for _, line := range lines {
		if line.Condition == "" || conditions[line.Condition] {
			filtered = append(filtered, line)
		}
	}
	return filtered
}

func complaintSchema() *DocumentSchema {
	return &DocumentSchema{
		Name: "이혼 소장",
		Sections: []SchemaSection{
			{Key: "청구취지", Title: "청구취지", Description: "법원에 구하는 판결 내용을 항목별로 기재"},
			{Key: "청구원인", Title: "청구원인", Description: "이혼 사유와 증거에 기반한 사실관계 서술"},
			{Key: "입증방법", Title: "입증방법", Description: "인용한 증거 목록"},
		},
	}
}

func complaintTemplate() *models.Template {
	center := models.LineFormat{Align: models.AlignCenter, FontSize: 16, Bold: true, SpacingAfter: 2}
	heading := models.LineFormat{Align: models.AlignLeft, FontSize: 13, Bold: true, SpacingAfter: 1}
	body := models.LineFormat{Align: models.AlignLeft, FontSize: 11}
	indented := models.LineFormat{Align: models.AlignLeft, FontSize: 11, Indent: 1}
	right := models.LineFormat{Align: models.AlignRight, FontSize: 11, SpacingAfter: 1}

	return &models.Template{
		ID:      "complaint-divorce-v1",
		DocType: models.DocTypeComplaint,
		Lines: []models.Line{
			{Text: "소    장", Format: center, Section: "표지"},
			{Text: "원  고  {{plaintiff_name}}", Format: body, IsPlaceholder: true, PlaceholderKey: "plaintiff_name", Section: "당사자"},
			{Text: "주  소  {{plaintiff_address}}", Format: indented, IsPlaceholder: true, PlaceholderKey: "plaintiff_address", Section: "당사자"},
			{Text: "피  고  {{defendant_name}}", Format: body, IsPlaceholder: true, PlaceholderKey: "defendant_name", Section: "당사자"},
			{Text: "주  소  {{defendant_address}}", Format: indented, IsPlaceholder: true, PlaceholderKey: "defendant_address", Section: "당사자",
				Condition: "has_defendant_address"},
			{Text: "이혼 등 청구의 소", Format: models.LineFormat{Align: models.AlignCenter, FontSize: 13, Bold: true, SpacingAfter: 2}, Section: "표지"},
			{Text: "청 구 취 지", Format: heading, Section: "청구취지"},
			{Text: "1. 원고와 피고는 이혼한다.", Format: body, Section: "청구취지"},
			{Text: "2. 피고는 원고에게 위자료로 금 {{alimony_amount}}원을 지급하라.", Format: body,
				IsPlaceholder: true, PlaceholderKey: "alimony_amount", Condition: "claim_alimony", Section: "청구취지"},
			{Text: "3. 소송비용은 피고가 부담한다.", Format: body, Section: "청구취지"},
			{Text: "라는 판결을 구합니다.", Format: models.LineFormat{Align: models.AlignLeft, FontSize: 11, SpacingAfter: 2}, Section: "청구취지"},
			{Text: "청 구 원 인", Format: heading, Section: "청구원인"},
			{Text: "{{claim_grounds}}", Format: body, IsPlaceholder: true, AIGenerated: true,
				PlaceholderKey: "claim_grounds", Section: "청구원인"},
			{Text: "입 증 방 법", Format: heading, Section: "입증방법", Condition: "include_evidence_list"},
			{Text: "{{evidence_list}}", Format: indented, IsPlaceholder: true,
				PlaceholderKey: "evidence_list", Section: "입증방법", Condition: "include_evidence_list"},
			{Text: "{{filing_date}}", Format: right, IsPlaceholder: true, PlaceholderKey: "filing_date", Section: "말미"},
			{Text: "원고 {{plaintiff_name}} (인)", Format: right, IsPlaceholder: true, PlaceholderKey: "plaintiff_name", Section: "말미"},
			{Text: "{{court_name}} 귀중", Format: models.LineFormat{Align: models.AlignCenter, FontSize: 12, Bold: true}, IsPlaceholder: true, PlaceholderKey: "court_name", Section: "말미"},
		},
	}
}
