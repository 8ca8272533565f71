package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"casedraft-backend/models"
)

// PromptMode selects the output contract requested from the model
type PromptMode string

const (
	ModeFreeform PromptMode = "freeform"
	ModeSchema   PromptMode = "schema"
)

const (
	defaultTemperature float32 = 0.3
	defaultMaxTokens   int32   = 4000

	legalSnippetLimit     = 500
	precedentSnippetLimit = 300
	evidenceSnippetLimit  = 200
)

const draftPersona = `당신은 대한민국 가사 소송 전문 변호사입니다. 의뢰인의 이혼 소송 서면을 작성합니다.
제공된 증거와 법령, 판례에 근거하여 사실만을 서술하고, 증거에 없는 사실을 추측하거나 만들어내지 않습니다.
확인되지 않은 사실은 반드시 (확인 필요)로 표시합니다.
문체는 법률 서면의 격식을 따르고, 존칭과 법률 용어를 정확하게 사용합니다.`

// Prompt is a fully assembled generation request
type Prompt struct {
	Mode        PromptMode
	Schema      *DocumentSchema
	System      string
	User        string
	Temperature float32
	MaxTokens   int32
}

// DraftRequest carries the inputs for assembling a draft prompt
type DraftRequest struct {
	CaseTitle       string
	CaseDescription string
	Sections        []string
	Language        string
	Style           string
	DocType         models.DocumentType
	Evidence        []models.RetrievedDocument
	Legal           []models.RetrievedDocument
	Precedents      []models.Precedent
}

// BuildDraftPrompt assembles the full generation request. The system
// message carries the persona and the output contract; the user message
// carries the case data and retrieved context. In schema mode the
// contract demands a single JSON document matching the schema, in
// freeform mode plain text in a fixed section order.
func BuildDraftPrompt(req DraftRequest, schema *DocumentSchema) Prompt {
	mode := ModeFreeform
	if schema != nil {
		mode = ModeSchema
	}

	var sys strings.Builder
	sys.WriteString(draftPersona)
	sys.WriteString("\n\n")
	if mode == ModeSchema {
		schemaJSON, _ := json.MarshalIndent(schema, "", "  ")
		sys.WriteString("출력은 반드시 아래 스키마를 따르는 JSON 객체 하나여야 합니다. JSON 외의 텍스트를 출력하지 마세요.\n")
		sys.WriteString("스키마의 각 section key를 JSON 객체 sections 배열의 title로 사용하고, 본문은 paragraphs 배열에 담으세요.\n")
		sys.WriteString("형식: {\"header\": string, \"sections\": [{\"title\": string, \"paragraphs\": [string]}], \"footer\": string}\n\n")
		sys.WriteString("스키마:\n")
		sys.Write(schemaJSON)
		sys.WriteString("\n")
	} else {
		sys.WriteString("출력 형식: 마크다운 없이 일반 텍스트로, 다음 순서의 절로 작성합니다.\n")
		sys.WriteString("청구취지, 청구원인, 입증방법\n")
		sys.WriteString("증거를 인용할 때는 [증거 N] 형식으로 표기합니다.\n")
	}

	var b strings.Builder
	b.WriteString("다음 자료를 바탕으로 이혼 사건의 ")
	b.WriteString(docTypeLabel(req.DocType))
	b.WriteString(" 초안을 작성하세요.\n\n")

	if req.CaseTitle != "" {
		b.WriteString("사건명: ")
		b.WriteString(req.CaseTitle)
		b.WriteString("\n")
	}
	if req.CaseDescription != "" {
		b.WriteString("사건 개요: ")
		b.WriteString(req.CaseDescription)
		b.WriteString("\n")
	}
	if len(req.Sections) > 0 {
		b.WriteString("작성할 항목: ")
		b.WriteString(strings.Join(req.Sections, ", "))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(formatEvidenceContext(req.Evidence))
	b.WriteString("\n")
	b.WriteString(formatLegalContext(req.Legal))
	b.WriteString("\n")
	b.WriteString(formatPrecedentContext(req.Precedents))
	b.WriteString("\n")

	b.WriteString("작성 지침:\n")
	b.WriteString("- 증거에 근거한 사실만 서술하고, 증거를 인용할 때는 [증거 N] 형식으로 표기합니다.\n")
	b.WriteString("- 관련 법령과 판례를 논거로 활용합니다.\n")
	if req.Style != "" {
		b.WriteString(fmt.Sprintf("- 문체: %s\n", req.Style))
	}
	if req.Language != "" && req.Language != "ko" {
		b.WriteString(fmt.Sprintf("- 작성 언어: %s\n", req.Language))
	}

	return Prompt{
		Mode:        mode,
		Schema:      schema,
		System:      sys.String(),
		User:        b.String(),
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
}

func docTypeLabel(docType models.DocumentType) string {
	switch docType {
	case models.DocTypeComplaint:
		return "소장"
	case models.DocTypeMotion:
		return "신청서"
	case models.DocTypeBrief:
		return "준비서면"
	case models.DocTypeResponse:
		return "답변서"
	default:
		return "서면"
	}
}

// contextItem is one entry of a numbered context block. The annotation
// follows the item number, the body is truncated, the note follows the
// body untruncated.
type contextItem struct {
	annotation string
	body       string
	note       string
}

// formatContextBlock renders items as a numbered "[header]" block with
// per-item body truncation. Empty blocks render a single (없음) line.
func formatContextBlock(header, label string, limit int, items []contextItem) string {
	var b strings.Builder
	b.WriteString("[" + header + "]\n")
	if len(items) == 0 {
		b.WriteString("(없음)\n")
		return b.String()
	}
	for i, item := range items {
		b.WriteString(fmt.Sprintf("%s %d", label, i+1))
		b.WriteString(item.annotation)
		b.WriteString(": ")
		b.WriteString(truncateRunes(item.body, limit))
		b.WriteString(item.note)
		b.WriteString("\n")
	}
	return b.String()
}

func formatEvidenceContext(docs []models.RetrievedDocument) string {
	items := make([]contextItem, len(docs))
	for i, doc := range docs {
		var annot strings.Builder
		if doc.Speaker != "" {
			annot.WriteString(fmt.Sprintf(" (발화자: %s)", doc.Speaker))
		}
		if len(doc.Labels) > 0 {
			annot.WriteString(fmt.Sprintf(" [유형: %s]", strings.Join(doc.Labels, ", ")))
		}
		items[i] = contextItem{annotation: annot.String(), body: doc.Content}
	}
	return formatContextBlock("증거 자료", "증거", evidenceSnippetLimit, items)
}

func formatLegalContext(chunks []models.RetrievedDocument) string {
	items := make([]contextItem, len(chunks))
	for i, chunk := range chunks {
		var annot string
		if len(chunk.Labels) > 0 && chunk.Labels[0] != "" {
			annot = fmt.Sprintf(" (%s)", chunk.Labels[0])
		}
		items[i] = contextItem{annotation: annot, body: chunk.Content}
	}
	return formatContextBlock("관련 법령", "법령", legalSnippetLimit, items)
}

func formatPrecedentContext(precedents []models.Precedent) string {
	items := make([]contextItem, len(precedents))
	for i, p := range precedents {
		annot := " (" + p.CaseRef
		if p.Court != "" {
			annot += ", " + p.Court
		}
		if p.DecisionDate != "" {
			annot += ", " + p.DecisionDate
		}
		annot += ")"
		var note string
		if len(p.KeyFactors) > 0 {
			note = fmt.Sprintf(" [쟁점: %s]", strings.Join(p.KeyFactors, ", "))
		}
		items[i] = contextItem{annotation: annot, body: p.Summary, note: note}
	}
	return formatContextBlock("유사 판례", "판례", precedentSnippetLimit, items)
}

// truncateRunes cuts text at limit runes with an ellipsis suffix.
// Rune boundaries keep multibyte text intact.
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
