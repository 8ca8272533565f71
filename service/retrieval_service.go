package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"casedraft-backend/llm"
	"casedraft-backend/models"
)

const (
	claimGroundsSection = "청구원인"

	claimGroundsQuery     = "이혼 사유 귀책사유 폭언 불화 부정행위"
	statuteQuery          = "민법 제840조 이혼 사유"
	defaultPrecedentQuery = "이혼 판례 재산분할"

	claimGroundsTopK = 10
	sectionTopK      = 5
	legalTopK        = 3
	precedentTopK    = 5

	precedentMinScore = 0.5

	perSourceTimeout = 2 * time.Second
)

// faultLabels are the evidence labels that describe a ground for
// divorce and steer the precedent query
var faultLabels = map[string]bool{
	"부정행위": true,
	"불륜":   true,
	"폭언":   true,
	"폭행":   true,
	"가정폭력": true,
	"유기":   true,
	"별거":   true,
	"재산은닉": true,
}

// RetrievedContext is the combined output of one retrieval pass
type RetrievedContext struct {
	Evidence   []models.RetrievedDocument
	Legal      []models.RetrievedDocument
	Precedents []models.Precedent
}

// RetrievalService fans a draft request out to the evidence, statute
// and precedent stores concurrently. A source that fails or times out
// contributes nothing instead of failing the pass.
type RetrievalService struct {
	evidenceStore  EvidenceStore
	legalStore     LegalStore
	precedentStore PrecedentStore
	embedder       llm.EmbeddingClient
	logger         *zap.SugaredLogger
}

type RetrievalOption func(*RetrievalService)

func RetrievalWithLogger(logger *zap.SugaredLogger) RetrievalOption {
	return func(s *RetrievalService) { s.logger = logger }
}

func NewRetrievalService(evidence EvidenceStore, legal LegalStore, precedent PrecedentStore, embedder llm.EmbeddingClient, opts ...RetrievalOption) *RetrievalService {
	s := &RetrievalService{
		evidenceStore:  evidence,
		legalStore:     legal,
		precedentStore: precedent,
		embedder:       embedder,
		logger:         zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve runs the three retrieval sources in parallel and merges the
// results. Precedent retrieval falls back to a curated list when the
// store yields nothing.
func (s *RetrievalService) Retrieve(ctx context.Context, caseID uuid.UUID, sections []string, faultTypes []string) (*RetrievedContext, error) {
	result := &RetrievedContext{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query, topK := evidenceQuery(sections)
		docs := s.searchEvidence(gctx, caseID, query, topK)
		result.Evidence = docs
		return nil
	})

	g.Go(func() error {
		result.Legal = s.searchLegal(gctx, statuteQuery)
		return nil
	})

	g.Go(func() error {
		result.Precedents = s.searchPrecedents(gctx, precedentQuery(faultTypes))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchPrecedents runs precedent retrieval alone, with fallback
func (s *RetrievalService) SearchPrecedents(ctx context.Context, faultTypes []string) []models.Precedent {
	return s.searchPrecedents(ctx, precedentQuery(faultTypes))
}

func (s *RetrievalService) searchEvidence(ctx context.Context, caseID uuid.UUID, query string, topK int) []models.RetrievedDocument {
	ctx, cancel := context.WithTimeout(ctx, perSourceTimeout)
	defer cancel()

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Warnw("evidence retrieval skipped, embedding failed", "case_id", caseID, "error", err)
		return nil
	}
	docs, err := s.evidenceStore.Search(ctx, caseID, embedding, topK)
	if err != nil {
		s.logger.Warnw("evidence retrieval failed", "case_id", caseID, "error", err)
		return nil
	}
	return docs
}

func (s *RetrievalService) searchLegal(ctx context.Context, query string) []models.RetrievedDocument {
	ctx, cancel := context.WithTimeout(ctx, perSourceTimeout)
	defer cancel()

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Warnw("statute retrieval skipped, embedding failed", "error", err)
		return nil
	}
	chunks, err := s.legalStore.Search(ctx, embedding, "statute", legalTopK)
	if err != nil {
		s.logger.Warnw("statute retrieval failed", "error", err)
		return nil
	}
	return chunks
}

func (s *RetrievalService) searchPrecedents(ctx context.Context, query string) []models.Precedent {
	ctx, cancel := context.WithTimeout(ctx, perSourceTimeout)
	defer cancel()

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Warnw("precedent retrieval fell back, embedding failed", "error", err)
		return fallbackPrecedents()
	}
	precedents, err := s.precedentStore.Search(ctx, embedding, precedentTopK, precedentMinScore)
	if err != nil {
		s.logger.Warnw("precedent retrieval fell back", "error", err)
		return fallbackPrecedents()
	}
	if len(precedents) == 0 {
		return fallbackPrecedents()
	}
	return precedents
}

// evidenceQuery expands the requested sections into a retrieval query.
// The claim grounds section gets a broadened fault-oriented query and a
// deeper pull.
func evidenceQuery(sections []string) (string, int) {
	for _, section := range sections {
		if section == claimGroundsSection {
			return claimGroundsQuery, claimGroundsTopK
		}
	}
	if len(sections) == 0 {
		return claimGroundsQuery, claimGroundsTopK
	}
	return strings.Join(sections, " "), sectionTopK
}

func precedentQuery(faultTypes []string) string {
	if len(faultTypes) == 0 {
		return defaultPrecedentQuery
	}
	return "이혼 판례 " + strings.Join(faultTypes, " ")
}

// ExtractFaultTypes collects the distinct fault-related labels from
// the case evidence, in first-seen order
func ExtractFaultTypes(evidence []models.EvidenceRecord) []string {
	seen := make(map[string]bool)
	var faults []string
	for _, e := range evidence {
		for _, label := range e.Labels {
			if faultLabels[label] && !seen[label] {
				seen[label] = true
				faults = append(faults, label)
			}
		}
	}
	return faults
}

// fallbackPrecedents is the curated list used when precedent search is
// unavailable or returns nothing above the score floor
func fallbackPrecedents() []models.Precedent {
	return []models.Precedent{
		{
			CaseRef:         "2004므1033",
			Court:           "대법원",
			DecisionDate:    "2004-09-13",
			Summary:         "배우자의 부정행위는 민법 제840조 제1호의 재판상 이혼 사유에 해당하고, 부정행위를 안 날로부터 6개월, 있은 날로부터 2년 내에 이혼을 청구하여야 한다.",
			KeyFactors:      []string{"부정행위", "제척기간"},
			SimilarityScore: 0,
		},
		{
			CaseRef:         "2013므568",
			Court:           "대법원",
			DecisionDate:    "2013-08-30",
			Summary:         "혼인 중 형성된 재산은 명의와 관계없이 재산분할의 대상이 되고, 분할 비율은 재산 형성에 대한 기여도를 기준으로 정한다.",
			KeyFactors:      []string{"재산분할", "기여도"},
			SimilarityScore: 0,
		},
	}
}
