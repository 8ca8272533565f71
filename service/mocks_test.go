package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"casedraft-backend/llm"
	"casedraft-backend/models"
	"casedraft-backend/render"
)

type fakeCaseStore struct {
	cases       map[uuid.UUID]*models.Case
	readAccess  bool
	writeAccess bool
}

func newFakeCaseStore(readAccess, writeAccess bool, cases ...*models.Case) *fakeCaseStore {
	s := &fakeCaseStore{
		cases:       map[uuid.UUID]*models.Case{},
		readAccess:  readAccess,
		writeAccess: writeAccess,
	}
	for _, c := range cases {
		s.cases[c.ID] = c
	}
	return s
}

func (s *fakeCaseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	return s.cases[id], nil
}

func (s *fakeCaseStore) HasReadAccess(ctx context.Context, caseID, userID uuid.UUID) (bool, error) {
	return s.readAccess, nil
}

func (s *fakeCaseStore) HasWriteAccess(ctx context.Context, caseID, userID uuid.UUID) (bool, error) {
	return s.writeAccess, nil
}

type fakeEvidenceStore struct {
	records   []models.EvidenceRecord
	results   []models.RetrievedDocument
	searchErr error

	mu          sync.Mutex
	lastQueryK  int
	searchCalls int
}

func (s *fakeEvidenceStore) GetByCase(ctx context.Context, caseID uuid.UUID) ([]models.EvidenceRecord, error) {
	return s.records, nil
}

func (s *fakeEvidenceStore) Search(ctx context.Context, caseID uuid.UUID, embedding []float64, topK int) ([]models.RetrievedDocument, error) {
	s.mu.Lock()
	s.lastQueryK = topK
	s.searchCalls++
	s.mu.Unlock()
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

type fakeLegalStore struct {
	results   []models.RetrievedDocument
	searchErr error
}

func (s *fakeLegalStore) Search(ctx context.Context, embedding []float64, docType string, limit int) ([]models.RetrievedDocument, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

type fakePrecedentStore struct {
	results   []models.Precedent
	searchErr error

	mu           sync.Mutex
	lastMinScore float64
}

func (s *fakePrecedentStore) Search(ctx context.Context, embedding []float64, limit int, minScore float64) ([]models.Precedent, error) {
	s.mu.Lock()
	s.lastMinScore = minScore
	s.mu.Unlock()
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

type fakeEmbedder struct {
	err error

	mu      sync.Mutex
	queries []string
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	e.mu.Lock()
	e.queries = append(e.queries, text)
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	embedding := make([]float64, 768)
	embedding[0] = 1
	return embedding, nil
}

func (e *fakeEmbedder) recorded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.queries...)
}

type fakeCompletion struct {
	response string
	err      error

	mu       sync.Mutex
	requests []llm.CompletionRequest
}

func (c *fakeCompletion) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *fakeCompletion) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

type fakeDraftStore struct {
	drafts map[uuid.UUID]*models.Draft
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: map[uuid.UUID]*models.Draft{}}
}

func (s *fakeDraftStore) Create(ctx context.Context, draft *models.Draft) error {
	draft.ID = uuid.New()
	draft.Version = 1
	if draft.Status == "" {
		draft.Status = models.DraftStatusDraft
	}
	stored := *draft
	s.drafts[draft.ID] = &stored
	return nil
}

func (s *fakeDraftStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, ok := s.drafts[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (s *fakeDraftStore) ListByCase(ctx context.Context, caseID uuid.UUID) ([]*models.Draft, error) {
	var drafts []*models.Draft
	for _, d := range s.drafts {
		if d.CaseID == caseID {
			copied := *d
			drafts = append(drafts, &copied)
		}
	}
	return drafts, nil
}

func (s *fakeDraftStore) UpdateContent(ctx context.Context, id uuid.UUID, content models.DraftContent) (*models.Draft, error) {
	d, ok := s.drafts[id]
	if !ok {
		return nil, errors.New("draft missing")
	}
	d.Content = content
	d.Version++
	copied := *d
	return &copied, nil
}

func (s *fakeDraftStore) UpdateMetadata(ctx context.Context, id uuid.UUID, title string, status models.DraftStatus) (*models.Draft, error) {
	d, ok := s.drafts[id]
	if !ok {
		return nil, errors.New("draft missing")
	}
	d.Title = title
	d.Status = status
	copied := *d
	return &copied, nil
}

type fakeExportStore struct {
	records map[uuid.UUID]*models.ExportRecord
}

func newFakeExportStore() *fakeExportStore {
	return &fakeExportStore{records: map[uuid.UUID]*models.ExportRecord{}}
}

func (s *fakeExportStore) Create(ctx context.Context, rec *models.ExportRecord) error {
	rec.ID = uuid.New()
	stored := *rec
	s.records[rec.ID] = &stored
	return nil
}

func (s *fakeExportStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ExportRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s *fakeExportStore) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.ExportRecord, error) {
	var records []models.ExportRecord
	for _, rec := range s.records {
		if rec.CaseID == caseID {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (s *fakeExportStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.records, id)
	return nil
}

type fakeFileStorage struct {
	files map[string][]byte
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{files: map[string][]byte{}}
}

func (s *fakeFileStorage) Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	content, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	path := fileID.String() + "/" + filename
	s.files[path] = content
	return path, nil
}

func (s *fakeFileStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	content, ok := s.files[storagePath]
	if !ok {
		return nil, errors.New("file missing")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *fakeFileStorage) Delete(ctx context.Context, storagePath string) error {
	delete(s.files, storagePath)
	return nil
}

type fakeRenderer struct {
	contentType string
	ext         string

	mu   sync.Mutex
	docs []render.Document
}

func (r *fakeRenderer) Render(doc render.Document) ([]byte, error) {
	r.mu.Lock()
	r.docs = append(r.docs, doc)
	r.mu.Unlock()
	return []byte("rendered"), nil
}

func (r *fakeRenderer) ContentType() string { return r.contentType }

func (r *fakeRenderer) Ext() string { return r.ext }
