package service

import (
	"encoding/json"
	"strings"
)

// StructuredSection is one titled section of a structured draft
type StructuredSection struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}

// StructuredDocument is the parsed form of a schema-mode response
type StructuredDocument struct {
	Header   string              `json:"header"`
	Sections []StructuredSection `json:"sections"`
	Footer   string              `json:"footer"`
}

// InterpretedDraft is the outcome of interpreting a model response.
// Structured is true only when the response parsed against the schema.
type InterpretedDraft struct {
	Structured bool
	Document   *StructuredDocument
	Text       string
}

// Interpret converts a raw model response into a draft. Freeform mode
// passes the text through. Schema mode parses the JSON and orders the
// sections by the schema; any parse failure falls back to the raw text
// unchanged. Interpret never fails.
func Interpret(raw string, mode PromptMode, schema *DocumentSchema) InterpretedDraft {
	if mode != ModeSchema || schema == nil {
		return InterpretedDraft{Text: raw}
	}

	cleaned := stripCodeFence(raw)
	var doc StructuredDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return InterpretedDraft{Text: raw}
	}

	doc.Sections = orderBySchema(doc.Sections, schema)
	return InterpretedDraft{
		Structured: true,
		Document:   &doc,
		Text:       flattenDocument(&doc),
	}
}

// stripCodeFence removes a surrounding markdown code fence if present
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// orderBySchema reorders sections to match the schema's section order.
// Sections the schema does not know keep their relative order at the end.
func orderBySchema(sections []StructuredSection, schema *DocumentSchema) []StructuredSection {
	rank := make(map[string]int, len(schema.Sections))
	for i, s := range schema.Sections {
		rank[s.Key] = i
		rank[s.Title] = i
	}

	known := make([]StructuredSection, 0, len(sections))
	unknown := make([]StructuredSection, 0)
	for _, s := range sections {
		if _, ok := rank[s.Title]; ok {
			known = append(known, s)
		} else {
			unknown = append(unknown, s)
		}
	}
	// insertion sort keeps the schema order stable for duplicates
	for i := 1; i < len(known); i++ {
		for j := i; j > 0 && rank[known[j].Title] < rank[known[j-1].Title]; j-- {
			known[j], known[j-1] = known[j-1], known[j]
		}
	}
	return append(known, unknown...)
}

func flattenDocument(doc *StructuredDocument) string {
	var b strings.Builder
	if doc.Header != "" {
		b.WriteString(doc.Header)
		b.WriteString("\n\n")
	}
	for _, s := range doc.Sections {
		b.WriteString(s.Title)
		b.WriteString("\n")
		for _, p := range s.Paragraphs {
			b.WriteString(p)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if doc.Footer != "" {
		b.WriteString(doc.Footer)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
