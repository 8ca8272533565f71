package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"casedraft-backend/llm"
	"casedraft-backend/models"
	"casedraft-backend/render"
	"casedraft-backend/storage"
)

const noEvidenceMessage = "사건에 증거가 하나도 없습니다. 증거를 업로드한 후 초안을 생성해 주세요."

// ExportStore persists export file records
type ExportStore interface {
	Create(ctx context.Context, rec *models.ExportRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExportRecord, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.ExportRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DraftService orchestrates draft generation, persistence and export
// for case documents
type DraftService struct {
	caseStore     CaseStore
	draftStore    DraftStore
	evidenceStore EvidenceStore
	retrieval     *RetrievalService
	templates     TemplateStore
	completion    llm.CompletionClient
	filler        *PlaceholderFiller
	renderers     map[string]render.Renderer
	fileStorage   storage.Storage
	exportStore   ExportStore
	logger        *zap.SugaredLogger
}

// DraftServiceOption configures the draft service
type DraftServiceOption func(*DraftService)

func WithCaseStore(s CaseStore) DraftServiceOption {
	return func(svc *DraftService) { svc.caseStore = s }
}

func WithDraftStore(s DraftStore) DraftServiceOption {
	return func(svc *DraftService) { svc.draftStore = s }
}

func WithEvidenceStore(s EvidenceStore) DraftServiceOption {
	return func(svc *DraftService) { svc.evidenceStore = s }
}

func WithRetrieval(r *RetrievalService) DraftServiceOption {
	return func(svc *DraftService) { svc.retrieval = r }
}

func WithTemplates(t TemplateStore) DraftServiceOption {
	return func(svc *DraftService) { svc.templates = t }
}

func WithCompletion(c llm.CompletionClient) DraftServiceOption {
	return func(svc *DraftService) {
		svc.completion = c
		svc.filler = NewPlaceholderFiller(c)
	}
}

func WithRenderers(renderers map[string]render.Renderer) DraftServiceOption {
	return func(svc *DraftService) { svc.renderers = renderers }
}

func WithFileStorage(s storage.Storage) DraftServiceOption {
	return func(svc *DraftService) { svc.fileStorage = s }
}

func WithExportStore(s ExportStore) DraftServiceOption {
	return func(svc *DraftService) { svc.exportStore = s }
}

func WithLogger(logger *zap.SugaredLogger) DraftServiceOption {
	return func(svc *DraftService) { svc.logger = logger }
}

// NewDraftService creates a draft service with the given options
func NewDraftService(opts ...DraftServiceOption) *DraftService {
	svc := &DraftService{
		renderers: map[string]render.Renderer{},
		logger:    zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// DraftPreviewRequest carries the generation parameters of a preview
type DraftPreviewRequest struct {
	Sections []string            `json:"sections"`
	Language string              `json:"language"`
	Style    string              `json:"style"`
	DocType  models.DocumentType `json:"doc_type"`
}

// DraftPreviewResult is the outcome of a preview generation
type DraftPreviewResult struct {
	CaseID             uuid.UUID                  `json:"case_id"`
	DraftText          string                     `json:"draft_text"`
	Document           *StructuredDocument        `json:"document,omitempty"`
	Citations          []models.Citation          `json:"citations"`
	PrecedentCitations []models.PrecedentCitation `json:"precedent_citations"`
	GeneratedAt        time.Time                  `json:"generated_at"`
}

// GenerateDraftPreview runs the full generation pipeline for a case and
// returns the draft text with its citations
func (s *DraftService) GenerateDraftPreview(ctx context.Context, userID, caseID uuid.UUID, req DraftPreviewRequest) (*DraftPreviewResult, error) {
	c, err := s.authorizeRead(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	retrieved, err := s.retrieveForCase(ctx, caseID, req.Sections)
	if err != nil {
		return nil, err
	}

	docType := req.DocType
	if docType == "" {
		docType = models.DocTypeComplaint
	}

	schema, _ := s.templates.GetSchema(docType)
	prompt := BuildDraftPrompt(draftRequestFor(c, req.Sections, req.Language, req.Style, docType, retrieved), schema)

	raw, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	interpreted := Interpret(raw, prompt.Mode, prompt.Schema)

	return &DraftPreviewResult{
		CaseID:             caseID,
		DraftText:          interpreted.Text,
		Document:           interpreted.Document,
		Citations:          ExtractCitations(retrieved.Evidence),
		PrecedentCitations: ExtractPrecedentCitations(retrieved.Precedents),
		GeneratedAt:        time.Now().UTC(),
	}, nil
}

// DraftExportRequest carries the generation and rendering parameters of
// an export
type DraftExportRequest struct {
	Sections   []string               `json:"sections"`
	Language   string                 `json:"language"`
	Style      string                 `json:"style"`
	DocType    models.DocumentType    `json:"doc_type"`
	Format     string                 `json:"format"`
	Title      string                 `json:"title"`
	Values     map[string]interface{} `json:"values"`
	Conditions map[string]bool        `json:"conditions"`
}

// DraftExportResult is a rendered export file
type DraftExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
	StoragePath string
}

// ExportDraft generates a draft and renders it to the requested file
// format. The format is validated before any generation work happens.
func (s *DraftService) ExportDraft(ctx context.Context, userID, caseID uuid.UUID, req DraftExportRequest) (*DraftExportResult, error) {
	c, err := s.authorizeRead(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	switch format {
	case models.ExportFormatDocx, models.ExportFormatPDF:
	default:
		return nil, NewValidationError("지원하지 않는 내보내기 형식입니다: %s", req.Format)
	}
	renderer := s.renderers[format]
	if renderer == nil {
		return nil, NewValidationError("%s 렌더러가 설정되어 있지 않습니다", format)
	}

	docType := req.DocType
	if docType == "" {
		docType = models.DocTypeComplaint
	}
	title := req.Title
	if title == "" {
		title = c.Title
	}

	retrieved, err := s.retrieveForCase(ctx, caseID, req.Sections)
	if err != nil {
		return nil, err
	}

	var doc render.Document
	if lines, ok := s.templates.GetTemplateLines(docType); ok {
		filled, err := s.fillTemplate(ctx, lines, req, retrieved)
		if err != nil {
			return nil, err
		}
		doc = render.FromLines(title, filled)
	} else {
		schema, _ := s.templates.GetSchema(docType)
		prompt := BuildDraftPrompt(draftRequestFor(c, req.Sections, req.Language, req.Style, docType, retrieved), schema)

		raw, err := s.complete(ctx, prompt)
		if err != nil {
			return nil, err
		}
		interpreted := Interpret(raw, prompt.Mode, prompt.Schema)
		doc = render.FromDraftText(title, interpreted.Text, ExtractCitations(retrieved.Evidence))
	}

	data, err := renderer.Render(doc)
	if err != nil {
		if errors.Is(err, render.ErrFontUnavailable) {
			return nil, NewValidationError("%s 내보내기를 처리할 수 없습니다: %v", format, err)
		}
		return nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}

	filename := render.Filename(title, renderer.Ext(), time.Now())
	storagePath := s.storeExport(ctx, userID, caseID, filename, renderer.ContentType(), data)

	return &DraftExportResult{
		Data:        data,
		Filename:    filename,
		ContentType: renderer.ContentType(),
		StoragePath: storagePath,
	}, nil
}

// fillTemplate runs the line pipeline: conditional filtering, static
// placeholder substitution, then generated placeholder content
func (s *DraftService) fillTemplate(ctx context.Context, lines []models.Line, req DraftExportRequest, retrieved *RetrievedContext) ([]models.Line, error) {
	filtered := FilterConditional(lines, req.Conditions)

	values := req.Values
	if values == nil {
		values = map[string]interface{}{}
	}
	if _, ok := values["filing_date"]; !ok {
		values["filing_date"] = time.Now().Format("2006. 1. 2.")
	}

	filled := FillStatic(filtered, values)
	return s.filler.FillGenerated(ctx, filled, retrieved.Evidence)
}

// storeExport uploads the rendered file and records it. Storage is best
// effort: a failure is logged and the caller still gets the bytes.
func (s *DraftService) storeExport(ctx context.Context, userID, caseID uuid.UUID, filename, contentType string, data []byte) string {
	if s.fileStorage == nil {
		return ""
	}

	fileID := uuid.New()
	path, err := s.fileStorage.Upload(ctx, fileID, filename, bytes.NewReader(data))
	if err != nil {
		s.logger.Warnw("export upload failed", "case_id", caseID, "filename", filename, "error", err)
		return ""
	}

	if s.exportStore != nil {
		rec := &models.ExportRecord{
			CaseID:      caseID,
			Filename:    filename,
			ContentType: contentType,
			Size:        int64(len(data)),
			StoragePath: path,
			CreatedBy:   userID,
		}
		if err := s.exportStore.Create(ctx, rec); err != nil {
			s.logger.Warnw("export record insert failed", "case_id", caseID, "filename", filename, "error", err)
		}
	}
	return path
}

// ExportFile is a stored export file streamed back to the caller
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// DownloadExport retrieves a previously generated export file
func (s *DraftService) DownloadExport(ctx context.Context, userID, caseID, exportID uuid.UUID) (*ExportFile, error) {
	if _, err := s.authorizeRead(ctx, userID, caseID); err != nil {
		return nil, err
	}

	rec, err := s.loadCaseExport(ctx, caseID, exportID)
	if err != nil {
		return nil, err
	}
	if s.fileStorage == nil {
		return nil, ErrExportNotFound
	}

	body, err := s.fileStorage.Download(ctx, rec.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	return &ExportFile{
		Data:        data,
		Filename:    rec.Filename,
		ContentType: rec.ContentType,
	}, nil
}

// DeleteExport removes an export record and its stored file. A file
// delete failure is logged; the record is already gone.
func (s *DraftService) DeleteExport(ctx context.Context, userID, caseID, exportID uuid.UUID) error {
	if _, err := s.authorizeWrite(ctx, userID, caseID); err != nil {
		return err
	}

	rec, err := s.loadCaseExport(ctx, caseID, exportID)
	if err != nil {
		return err
	}

	if err := s.exportStore.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to delete export record: %w", err)
	}
	if s.fileStorage != nil {
		if err := s.fileStorage.Delete(ctx, rec.StoragePath); err != nil {
			s.logger.Warnw("export file delete failed", "case_id", caseID, "storage_path", rec.StoragePath, "error", err)
		}
	}
	return nil
}

func (s *DraftService) loadCaseExport(ctx context.Context, caseID, exportID uuid.UUID) (*models.ExportRecord, error) {
	if s.exportStore == nil {
		return nil, ErrExportNotFound
	}
	rec, err := s.exportStore.GetByID(ctx, exportID)
	if err != nil {
		return nil, fmt.Errorf("failed to load export record: %w", err)
	}
	if rec == nil || rec.CaseID != caseID {
		return nil, ErrExportNotFound
	}
	return rec, nil
}

// ListExports returns the export history of a case
func (s *DraftService) ListExports(ctx context.Context, userID, caseID uuid.UUID) ([]models.ExportRecord, error) {
	if _, err := s.authorizeRead(ctx, userID, caseID); err != nil {
		return nil, err
	}
	if s.exportStore == nil {
		return []models.ExportRecord{}, nil
	}
	return s.exportStore.ListByCase(ctx, caseID)
}

// SearchPrecedents finds precedents relevant to the case's evidence
func (s *DraftService) SearchPrecedents(ctx context.Context, userID, caseID uuid.UUID) ([]models.PrecedentCitation, error) {
	if _, err := s.authorizeRead(ctx, userID, caseID); err != nil {
		return nil, err
	}

	evidence, err := s.evidenceStore.GetByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case evidence: %w", err)
	}
	faultTypes := ExtractFaultTypes(doneEvidence(evidence))

	precedents := s.retrieval.SearchPrecedents(ctx, faultTypes)
	return ExtractPrecedentCitations(precedents), nil
}

// CreateDraftRequest carries the fields of a new draft
type CreateDraftRequest struct {
	Title   string              `json:"title" binding:"required"`
	DocType models.DocumentType `json:"doc_type"`
	Content models.DraftContent `json:"content"`
}

// CreateDraft persists a new draft for a case
func (s *DraftService) CreateDraft(ctx context.Context, userID, caseID uuid.UUID, req CreateDraftRequest) (*models.Draft, error) {
	if _, err := s.authorizeWrite(ctx, userID, caseID); err != nil {
		return nil, err
	}

	docType := req.DocType
	if docType == "" {
		docType = models.DocTypeComplaint
	}

	draft := &models.Draft{
		CaseID:    caseID,
		Title:     req.Title,
		DocType:   docType,
		Content:   req.Content,
		Status:    models.DraftStatusDraft,
		CreatedBy: userID,
	}
	if err := s.draftStore.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return draft, nil
}

// ListDrafts returns the drafts of a case, newest first
func (s *DraftService) ListDrafts(ctx context.Context, userID, caseID uuid.UUID) ([]*models.Draft, error) {
	if _, err := s.authorizeRead(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.draftStore.ListByCase(ctx, caseID)
}

// GetDraft returns one draft of a case
func (s *DraftService) GetDraft(ctx context.Context, userID, caseID, draftID uuid.UUID) (*models.Draft, error) {
	if _, err := s.authorizeRead(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.loadCaseDraft(ctx, caseID, draftID)
}

// UpdateDraftRequest carries a partial draft update. Content updates
// bump the version; title or status changes alone do not.
type UpdateDraftRequest struct {
	Title   *string              `json:"title"`
	Status  *models.DraftStatus  `json:"status"`
	Content *models.DraftContent `json:"content"`
}

// UpdateDraft applies a partial update to a draft
func (s *DraftService) UpdateDraft(ctx context.Context, userID, caseID, draftID uuid.UUID, req UpdateDraftRequest) (*models.Draft, error) {
	if _, err := s.authorizeWrite(ctx, userID, caseID); err != nil {
		return nil, err
	}

	draft, err := s.loadCaseDraft(ctx, caseID, draftID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !draft.Status.CanTransitionTo(*req.Status) {
		return nil, NewValidationError("허용되지 않는 상태 변경입니다: %s -> %s", draft.Status, *req.Status)
	}

	if req.Content != nil {
		draft, err = s.draftStore.UpdateContent(ctx, draftID, *req.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to update draft content: %w", err)
		}
	}

	if req.Title != nil || req.Status != nil {
		title := draft.Title
		if req.Title != nil {
			title = *req.Title
		}
		status := draft.Status
		if req.Status != nil {
			status = *req.Status
		}
		draft, err = s.draftStore.UpdateMetadata(ctx, draftID, title, status)
		if err != nil {
			return nil, fmt.Errorf("failed to update draft metadata: %w", err)
		}
	}

	return draft, nil
}

func draftRequestFor(c *models.Case, sections []string, language, style string, docType models.DocumentType, retrieved *RetrievedContext) DraftRequest {
	req := DraftRequest{
		CaseTitle:  c.Title,
		Sections:   sections,
		Language:   language,
		Style:      style,
		DocType:    docType,
		Evidence:   retrieved.Evidence,
		Legal:      retrieved.Legal,
		Precedents: retrieved.Precedents,
	}
	if c.Description != nil {
		req.CaseDescription = *c.Description
	}
	return req
}

// retrieveForCase loads the case evidence, enforces the indexed
// evidence gate and runs the retrieval pass
func (s *DraftService) retrieveForCase(ctx context.Context, caseID uuid.UUID, sections []string) (*RetrievedContext, error) {
	evidence, err := s.evidenceStore.GetByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case evidence: %w", err)
	}

	done := doneEvidence(evidence)
	if len(done) == 0 {
		return nil, NewValidationError(noEvidenceMessage)
	}

	return s.retrieval.Retrieve(ctx, caseID, sections, ExtractFaultTypes(done))
}

func (s *DraftService) complete(ctx context.Context, prompt Prompt) (string, error) {
	raw, err := s.completion.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompt.System},
			{Role: llm.RoleUser, Content: prompt.User},
		},
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return raw, nil
}

// authorizeRead checks read access before existence so permission
// failures never reveal whether a case exists
func (s *DraftService) authorizeRead(ctx context.Context, userID, caseID uuid.UUID) (*models.Case, error) {
	hasAccess, err := s.caseStore.HasReadAccess(ctx, caseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check case access: %w", err)
	}
	if !hasAccess {
		return nil, ErrPermissionDenied
	}
	return s.requireCase(ctx, caseID)
}

func (s *DraftService) authorizeWrite(ctx context.Context, userID, caseID uuid.UUID) (*models.Case, error) {
	hasAccess, err := s.caseStore.HasWriteAccess(ctx, caseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check case access: %w", err)
	}
	if !hasAccess {
		return nil, ErrPermissionDenied
	}
	return s.requireCase(ctx, caseID)
}

func (s *DraftService) requireCase(ctx context.Context, caseID uuid.UUID) (*models.Case, error) {
	c, err := s.caseStore.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	return c, nil
}

func (s *DraftService) loadCaseDraft(ctx context.Context, caseID, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := s.draftStore.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft == nil || draft.CaseID != caseID {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

func doneEvidence(evidence []models.EvidenceRecord) []models.EvidenceRecord {
	done := make([]models.EvidenceRecord, 0, len(evidence))
	for _, e := range evidence {
		if e.Status == models.EvidenceStatusDone {
			done = append(done, e)
		}
	}
	return done
}
