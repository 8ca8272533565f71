// Package render turns finished drafts into downloadable document files
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"casedraft-backend/models"
)

// Paragraph is one renderable block of text with layout hints
type Paragraph struct {
	Text   string
	Format models.LineFormat
}

// Document is the renderer-neutral form of an export
type Document struct {
	Title      string
	Paragraphs []Paragraph
}

// Renderer produces one output format from a document
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Ext() string
}

// FromLines converts filled template lines into a document
func FromLines(title string, lines []models.Line) Document {
	paragraphs := make([]Paragraph, 0, len(lines))
	for _, line := range lines {
		paragraphs = append(paragraphs, Paragraph{
			Text:   sanitizeText(line.Text),
			Format: line.Format,
		})
	}
	return Document{Title: title, Paragraphs: paragraphs}
}

// FromDraftText converts freeform draft text plus its citations into a
// document with a citation appendix
func FromDraftText(title, text string, citations []models.Citation) Document {
	doc := Document{Title: title}

	doc.Paragraphs = append(doc.Paragraphs, Paragraph{
		Text:   sanitizeText(title),
		Format: models.LineFormat{Align: models.AlignCenter, FontSize: 16, Bold: true, SpacingAfter: 2},
	})

	for _, block := range strings.Split(text, "\n") {
		doc.Paragraphs = append(doc.Paragraphs, Paragraph{
			Text:   sanitizeText(block),
			Format: models.LineFormat{Align: models.AlignLeft, FontSize: 11},
		})
	}

	if len(citations) > 0 {
		doc.Paragraphs = append(doc.Paragraphs, Paragraph{
			Text:   "인용 증거",
			Format: models.LineFormat{Align: models.AlignLeft, FontSize: 13, Bold: true, SpacingAfter: 1},
		})
		for i, c := range citations {
			doc.Paragraphs = append(doc.Paragraphs, Paragraph{
				Text:   fmt.Sprintf("[증거 %d] %s", i+1, sanitizeText(c.Snippet)),
				Format: models.LineFormat{Align: models.AlignLeft, FontSize: 10, Indent: 1},
			})
		}
	}
	return doc
}

// sanitizeText strips control characters that corrupt document output.
// Newlines and tabs survive.
func sanitizeText(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

const maxFilenameTitleRunes = 40

// Filename builds a safe export filename from the draft title and a
// timestamp
func Filename(title, ext string, now time.Time) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case r == '-' || r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		default:
			return -1
		}
	}, title)

	runes := []rune(cleaned)
	if len(runes) > maxFilenameTitleRunes {
		runes = runes[:maxFilenameTitleRunes]
	}
	if len(runes) == 0 {
		runes = []rune("draft")
	}

	return fmt.Sprintf("%s_%s.%s", string(runes), now.Format("20060102_150405"), ext)
}
