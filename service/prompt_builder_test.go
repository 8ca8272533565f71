package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedraft-backend/models"
)

func TestBuildDraftPrompt_Freeform(t *testing.T) {
	req := DraftRequest{
		Sections: []string{"청구원인"},
		DocType:  models.DocTypeComplaint,
		Evidence: []models.RetrievedDocument{
			{ID: "ev-1", Content: "카카오톡 대화 내역", Labels: []string{"폭언"}, Speaker: "피고"},
		},
		Legal: []models.RetrievedDocument{
			{ID: "law-1", Content: "재판상 이혼 사유", Labels: []string{"민법 제840조"}},
		},
		Precedents: []models.Precedent{
			{CaseRef: "2004므1033", Court: "대법원", DecisionDate: "2004-09-13", Summary: "부정행위 판단 기준"},
		},
	}

	prompt := BuildDraftPrompt(req, nil)

	assert.Equal(t, ModeFreeform, prompt.Mode)
	assert.Nil(t, prompt.Schema)
	assert.Equal(t, float32(0.3), prompt.Temperature)
	assert.Equal(t, int32(4000), prompt.MaxTokens)

	assert.Contains(t, prompt.System, draftPersona)
	assert.Contains(t, prompt.System, "청구취지, 청구원인, 입증방법")
	assert.NotContains(t, prompt.System, "JSON")

	assert.Contains(t, prompt.User, "카카오톡 대화 내역")
	assert.Contains(t, prompt.User, "민법 제840조")
	assert.Contains(t, prompt.User, "2004므1033")
	assert.Contains(t, prompt.User, "[증거 N]")
}

func TestBuildDraftPrompt_SchemaMode(t *testing.T) {
	schema := &DocumentSchema{
		Name: "이혼 소장",
		Sections: []SchemaSection{
			{Key: "청구취지", Title: "청구취지"},
			{Key: "청구원인", Title: "청구원인"},
		},
	}

	prompt := BuildDraftPrompt(DraftRequest{DocType: models.DocTypeComplaint}, schema)

	assert.Equal(t, ModeSchema, prompt.Mode)
	require.NotNil(t, prompt.Schema)
	assert.Contains(t, prompt.System, "JSON")
	assert.Contains(t, prompt.System, `"청구취지"`)
	assert.Contains(t, prompt.System, `"청구원인"`)
}

func TestBuildDraftPrompt_CaseInfo(t *testing.T) {
	prompt := BuildDraftPrompt(DraftRequest{
		CaseTitle:       "김영희 이혼 사건",
		CaseDescription: "폭언으로 인한 혼인 파탄",
	}, nil)

	assert.Contains(t, prompt.User, "사건명: 김영희 이혼 사건")
	assert.Contains(t, prompt.User, "사건 개요: 폭언으로 인한 혼인 파탄")
}

func TestBuildDraftPrompt_TruncatesLongContext(t *testing.T) {
	longEvidence := strings.Repeat("가", 300)
	longStatute := strings.Repeat("다", 600)
	longSummary := strings.Repeat("나", 400)

	prompt := BuildDraftPrompt(DraftRequest{
		Evidence:   []models.RetrievedDocument{{ID: "ev", Content: longEvidence}},
		Legal:      []models.RetrievedDocument{{ID: "lg", Content: longStatute, Labels: []string{"민법"}}},
		Precedents: []models.Precedent{{CaseRef: "2004므1033", Summary: longSummary}},
	}, nil)

	assert.NotContains(t, prompt.User, longEvidence)
	assert.Contains(t, prompt.User, strings.Repeat("가", 200)+"...")
	assert.NotContains(t, prompt.User, longStatute)
	assert.Contains(t, prompt.User, strings.Repeat("다", 500)+"...")
	assert.NotContains(t, prompt.User, longSummary)
	assert.Contains(t, prompt.User, strings.Repeat("나", 300)+"...")
}

func TestFormatEvidenceContext_SpeakerAndLabels(t *testing.T) {
	block := formatEvidenceContext([]models.RetrievedDocument{
		{ID: "ev-1", Content: "통화 내용", Speaker: "김영희", Labels: []string{"통화녹취"}},
		{ID: "ev-2", Content: "문자 내용"},
	})

	assert.Contains(t, block, "증거 1 (발화자: 김영희) [유형: 통화녹취]: 통화 내용")
	assert.Contains(t, block, "증거 2: 문자 내용")
}

func TestFormatContextBlock_Empty(t *testing.T) {
	assert.Equal(t, "[관련 법령]\n(없음)\n", formatLegalContext(nil))
	assert.Equal(t, "[유사 판례]\n(없음)\n", formatPrecedentContext(nil))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "짧은 글", truncateRunes("짧은 글", 10))
	assert.Equal(t, "가나다...", truncateRunes("가나다라마", 3))
}
