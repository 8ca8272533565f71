package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedraft-backend/models"
)

func TestExtractCitations(t *testing.T) {
	docs := []models.RetrievedDocument{
		{ID: "ev-1", Content: "첫 번째 증거", Labels: []string{"폭언"}},
		{ID: "ev-2", Content: strings.Repeat("가", 250)},
	}

	citations := ExtractCitations(docs)

	require.Len(t, citations, len(docs))
	assert.Equal(t, "ev-1", citations[0].EvidenceID)
	assert.Equal(t, "첫 번째 증거", citations[0].Snippet)
	assert.Equal(t, []string{"폭언"}, citations[0].Labels)

	assert.Equal(t, "ev-2", citations[1].EvidenceID)
	assert.Equal(t, strings.Repeat("가", 200)+"...", citations[1].Snippet)
}

func TestExtractCitations_Empty(t *testing.T) {
	citations := ExtractCitations(nil)
	assert.Empty(t, citations)
	assert.NotNil(t, citations)
}

func TestExtractPrecedentCitations(t *testing.T) {
	precedents := []models.Precedent{
		{
			CaseRef:         "2004므1033",
			Court:           "대법원",
			DecisionDate:    "2004-09-13",
			Summary:         strings.Repeat("나", 350),
			KeyFactors:      []string{"부정행위"},
			SimilarityScore: 0.72,
		},
	}

	citations := ExtractPrecedentCitations(precedents)

	require.Len(t, citations, 1)
	c := citations[0]
	assert.Equal(t, "2004므1033", c.CaseRef)
	assert.Equal(t, strings.Repeat("나", 300)+"...", c.Summary)
	assert.Equal(t, 0.72, c.SimilarityScore)
	require.NotNil(t, c.SourceURL)
	assert.Contains(t, *c.SourceURL, "law.go.kr")
}

func TestBuildSourceURL(t *testing.T) {
	t.Run("both fields present", func(t *testing.T) {
		link := buildSourceURL("2004므1033", "2004-09-13")
		require.NotNil(t, link)
		// separators are stripped before encoding
		assert.Contains(t, *link, "20040913")
		assert.NotContains(t, *link, "2004-09-13")
	})

	t.Run("date separators of any style are stripped", func(t *testing.T) {
		link := buildSourceURL("2013므568", "2013. 8. 30.")
		require.NotNil(t, link)
		assert.Contains(t, *link, "2013830")
	})

	t.Run("missing case ref", func(t *testing.T) {
		assert.Nil(t, buildSourceURL("", "2004-09-13"))
	})

	t.Run("missing decision date", func(t *testing.T) {
		assert.Nil(t, buildSourceURL("2004므1033", ""))
	})
}
