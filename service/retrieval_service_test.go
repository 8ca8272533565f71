package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedraft-backend/models"
)

func newTestRetrieval(evidence *fakeEvidenceStore, legal *fakeLegalStore, precedent *fakePrecedentStore, embedder *fakeEmbedder) *RetrievalService {
	return NewRetrievalService(evidence, legal, precedent, embedder)
}

func TestRetrieve_ClaimGroundsQueryExpansion(t *testing.T) {
	evidence := &fakeEvidenceStore{results: []models.RetrievedDocument{{ID: "ev-1"}}}
	embedder := &fakeEmbedder{}
	svc := newTestRetrieval(evidence, &fakeLegalStore{}, &fakePrecedentStore{}, embedder)

	_, err := svc.Retrieve(context.Background(), uuid.New(), []string{"청구원인"}, nil)
	require.NoError(t, err)

	assert.Equal(t, claimGroundsTopK, evidence.lastQueryK)
	assert.Contains(t, embedder.recorded(), claimGroundsQuery)
}

func TestRetrieve_OtherSectionsJoinQuery(t *testing.T) {
	evidence := &fakeEvidenceStore{}
	embedder := &fakeEmbedder{}
	svc := newTestRetrieval(evidence, &fakeLegalStore{}, &fakePrecedentStore{}, embedder)

	_, err := svc.Retrieve(context.Background(), uuid.New(), []string{"청구취지", "입증방법"}, nil)
	require.NoError(t, err)

	assert.Equal(t, sectionTopK, evidence.lastQueryK)
	assert.Contains(t, embedder.recorded(), "청구취지 입증방법")
}

func TestRetrieve_SourceFailuresAreAbsorbed(t *testing.T) {
	evidence := &fakeEvidenceStore{searchErr: errors.New("db down")}
	legal := &fakeLegalStore{searchErr: errors.New("db down")}
	precedent := &fakePrecedentStore{searchErr: errors.New("db down")}
	svc := newTestRetrieval(evidence, legal, precedent, &fakeEmbedder{})

	result, err := svc.Retrieve(context.Background(), uuid.New(), []string{"청구원인"}, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Evidence)
	assert.Empty(t, result.Legal)
	// precedent failure falls back to the curated list
	assert.Len(t, result.Precedents, 2)
}

func TestRetrieve_EmbeddingFailureSkipsAllSources(t *testing.T) {
	evidence := &fakeEvidenceStore{results: []models.RetrievedDocument{{ID: "ev-1"}}}
	svc := newTestRetrieval(evidence, &fakeLegalStore{}, &fakePrecedentStore{}, &fakeEmbedder{err: errors.New("quota")})

	result, err := svc.Retrieve(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Evidence)
	assert.Zero(t, evidence.searchCalls)
	assert.Len(t, result.Precedents, 2)
}

func TestRetrieve_EmptyPrecedentsFallBack(t *testing.T) {
	precedent := &fakePrecedentStore{}
	svc := newTestRetrieval(&fakeEvidenceStore{}, &fakeLegalStore{}, precedent, &fakeEmbedder{})

	result, err := svc.Retrieve(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)

	require.Len(t, result.Precedents, 2)
	assert.Equal(t, "2004므1033", result.Precedents[0].CaseRef)
	assert.Equal(t, precedentMinScore, precedent.lastMinScore)
}

func TestRetrieve_PrecedentQueryUsesFaultTypes(t *testing.T) {
	embedder := &fakeEmbedder{}
	svc := newTestRetrieval(&fakeEvidenceStore{}, &fakeLegalStore{}, &fakePrecedentStore{}, embedder)

	_, err := svc.Retrieve(context.Background(), uuid.New(), nil, []string{"폭언", "부정행위"})
	require.NoError(t, err)

	assert.Contains(t, embedder.recorded(), "이혼 판례 폭언 부정행위")
}

func TestSearchPrecedents_DefaultQuery(t *testing.T) {
	embedder := &fakeEmbedder{}
	precedent := &fakePrecedentStore{results: []models.Precedent{{CaseRef: "2020드단1234", SimilarityScore: 0.61}}}
	svc := newTestRetrieval(&fakeEvidenceStore{}, &fakeLegalStore{}, precedent, embedder)

	results := svc.SearchPrecedents(context.Background(), nil)

	require.Len(t, results, 1)
	assert.Equal(t, "2020드단1234", results[0].CaseRef)
	assert.Contains(t, embedder.recorded(), defaultPrecedentQuery)
}

func TestExtractFaultTypes(t *testing.T) {
	evidence := []models.EvidenceRecord{
		{Labels: []string{"폭언", "대화"}},
		{Labels: []string{"부정행위"}},
		{Labels: []string{"폭언"}},
		{Labels: []string{"사진"}},
	}

	faults := ExtractFaultTypes(evidence)
	assert.Equal(t, []string{"폭언", "부정행위"}, faults)
}

func TestExtractFaultTypes_NoFaultLabels(t *testing.T) {
	evidence := []models.EvidenceRecord{{Labels: []string{"대화", "사진"}}}
	assert.Empty(t, ExtractFaultTypes(evidence))
}
