package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"casedraft-backend/models"
)

// DocxRenderer renders documents as Office Open XML word files
type DocxRenderer struct{}

func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

func (r *DocxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (r *DocxRenderer) Ext() string {
	return "docx"
}

func (r *DocxRenderer) Render(doc Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	for _, para := range doc.Paragraphs {
		p := w.AddParagraph()

		text := para.Text
		if para.Format.Indent > 0 {
			// word-level indent is emulated with a leading pad
			text = strings.Repeat("    ", para.Format.Indent) + text
		}

		run := p.AddText(text)
		run.Size(halfPoints(para.Format.FontSize))
		if para.Format.Bold {
			run.Bold()
		}

		switch para.Format.Align {
		case models.AlignCenter:
			p.Justification("center")
		case models.AlignRight:
			p.Justification("right")
		default:
			p.Justification("left")
		}

		for i := 0; i < para.Format.SpacingAfter; i++ {
			w.AddParagraph()
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write docx: %w", err)
	}
	return buf.Bytes(), nil
}

// halfPoints converts a point size to the docx half-point string
func halfPoints(fontSize int) string {
	if fontSize <= 0 {
		fontSize = 11
	}
	return strconv.Itoa(fontSize * 2)
}
