package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"casedraft-backend/models"
)

// ErrFontUnavailable signals that the document needs glyphs the
// configured font set cannot render.
var ErrFontUnavailable = errors.New("UTF-8 TTF 글꼴이 설정되어 있지 않습니다 (PDF_FONT_PATH)")

const (
	pdfMargin     = 20.0
	pdfLineHeight = 6.0
	pdfIndentStep = 8.0
)

// PDFRenderer renders documents as A4 PDF files. A UTF-8 TTF font is
// required for Korean text; without one, Latin-only documents use a
// core font and anything else fails with ErrFontUnavailable.
type PDFRenderer struct {
	fontPath string
}

type PDFOption func(*PDFRenderer)

// PDFWithFont points the renderer at a TTF font file
func PDFWithFont(path string) PDFOption {
	return func(r *PDFRenderer) { r.fontPath = path }
}

func NewPDFRenderer(opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) Ext() string {
	return "pdf"
}

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	f := fpdf.New("P", "mm", "A4", "")
	f.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	f.SetAutoPageBreak(true, pdfMargin)

	family := "Helvetica"
	if r.fontPath != "" {
		if _, err := os.Stat(r.fontPath); err == nil {
			family = "body"
			f.AddUTF8Font(family, "", r.fontPath)
			f.AddUTF8Font(family, "B", r.fontPath)
		}
	}
	if family == "Helvetica" && needsUnicodeFont(doc) {
		return nil, ErrFontUnavailable
	}

	f.AddPage()
	pageWidth, _ := f.GetPageSize()
	contentWidth := pageWidth - 2*pdfMargin

	for _, para := range doc.Paragraphs {
		style := ""
		if para.Format.Bold {
			style = "B"
		}
		size := para.Format.FontSize
		if size <= 0 {
			size = 11
		}
		f.SetFont(family, style, float64(size))

		align := "L"
		switch para.Format.Align {
		case models.AlignCenter:
			align = "C"
		case models.AlignRight:
			align = "R"
		}

		indent := float64(para.Format.Indent) * pdfIndentStep
		f.SetX(pdfMargin + indent)
		f.MultiCell(contentWidth-indent, pdfLineHeight, para.Text, "", align, false)

		if para.Format.SpacingAfter > 0 {
			f.Ln(float64(para.Format.SpacingAfter) * pdfLineHeight)
		}
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// needsUnicodeFont reports whether any paragraph carries text outside
// the ASCII range the core fonts cover.
func needsUnicodeFont(doc Document) bool {
	for _, para := range doc.Paragraphs {
		for _, r := range para.Text {
			if r > 127 {
				return true
			}
		}
	}
	return false
}
