package service

import (
	"net/url"
	"strings"

	"casedraft-backend/models"
)

const citationSnippetLimit = 200

// ExtractCitations produces one citation per retrieved evidence
// document, preserving the retrieval order
func ExtractCitations(docs []models.RetrievedDocument) []models.Citation {
	citations := make([]models.Citation, 0, len(docs))
	for _, doc := range docs {
		citations = append(citations, models.Citation{
			EvidenceID: doc.ID,
			Snippet:    truncateRunes(doc.Content, citationSnippetLimit),
			Labels:     doc.Labels,
		})
	}
	return citations
}

// ExtractPrecedentCitations produces one citation per precedent.
// A source link is attached only when both the case reference and the
// decision date are known.
func ExtractPrecedentCitations(precedents []models.Precedent) []models.PrecedentCitation {
	citations := make([]models.PrecedentCitation, 0, len(precedents))
	for _, p := range precedents {
		citations = append(citations, models.PrecedentCitation{
			CaseRef:         p.CaseRef,
			Court:           p.Court,
			DecisionDate:    p.DecisionDate,
			Summary:         truncateRunes(p.Summary, precedentSnippetLimit),
			KeyFactors:      p.KeyFactors,
			SimilarityScore: p.SimilarityScore,
			SourceURL:       buildSourceURL(p.CaseRef, p.DecisionDate),
		})
	}
	return citations
}

var dateSeparators = strings.NewReplacer("-", "", ".", "", "/", "", " ", "")

// buildSourceURL links a precedent to the national law information
// search. Both fields are required for a usable query.
func buildSourceURL(caseRef, decisionDate string) *string {
	if caseRef == "" || decisionDate == "" {
		return nil
	}
	query := caseRef + " " + dateSeparators.Replace(decisionDate)
	link := "https://www.law.go.kr/precSc.do?menuId=7&subMenuId=47&query=" + url.QueryEscape(query)
	return &link
}
