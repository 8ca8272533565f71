package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedraft-backend/models"
)

func TestFromLines(t *testing.T) {
	lines := []models.Line{
		{Text: "소    장", Format: models.LineFormat{Align: models.AlignCenter, Bold: true, FontSize: 16}},
		{Text: "원고 김영희", Format: models.LineFormat{Align: models.AlignLeft, FontSize: 11}},
	}

	doc := FromLines("이혼 소장", lines)

	assert.Equal(t, "이혼 소장", doc.Title)
	require.Len(t, doc.Paragraphs, 2)
	assert.Equal(t, "소    장", doc.Paragraphs[0].Text)
	assert.True(t, doc.Paragraphs[0].Format.Bold)
}

func TestFromDraftText(t *testing.T) {
	citations := []models.Citation{
		{EvidenceID: "ev-1", Snippet: "녹취록 발췌"},
		{EvidenceID: "ev-2", Snippet: "카카오톡 대화"},
	}

	doc := FromDraftText("이혼 소장", "청 구 취 지\n원고와 피고는 이혼한다.", citations)

	require.NotEmpty(t, doc.Paragraphs)
	// title heading first
	assert.Equal(t, "이혼 소장", doc.Paragraphs[0].Text)
	assert.Equal(t, models.AlignCenter, doc.Paragraphs[0].Format.Align)

	var joined string
	for _, p := range doc.Paragraphs {
		joined += p.Text + "\n"
	}
	assert.Contains(t, joined, "원고와 피고는 이혼한다.")
	assert.Contains(t, joined, "인용 증거")
	assert.Contains(t, joined, "[증거 1] 녹취록 발췌")
	assert.Contains(t, joined, "[증거 2] 카카오톡 대화")
}

func TestFromDraftText_NoCitationsNoAppendix(t *testing.T) {
	doc := FromDraftText("소장", "본문", nil)
	for _, p := range doc.Paragraphs {
		assert.NotContains(t, p.Text, "인용 증거")
	}
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "abc\ndef\tg", sanitizeText("abc\ndef\tg"))
	assert.Equal(t, "ab", sanitizeText("a\x00\x08b"))
	assert.Equal(t, "한글 텍스트", sanitizeText("한글 \x1b텍스트"))
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)

	t.Run("sanitizes and timestamps", func(t *testing.T) {
		name := Filename("이혼 소장 (최종)", "docx", now)
		assert.Equal(t, "이혼_소장_최종_20260829_143005.docx", name)
	})

	t.Run("caps long titles", func(t *testing.T) {
		long := ""
		for i := 0; i < 60; i++ {
			long += "가"
		}
		name := Filename(long, "pdf", now)
		assert.LessOrEqual(t, len([]rune(name)), maxFilenameTitleRunes+len("_20260829_143005.pdf"))
	})

	t.Run("empty title falls back", func(t *testing.T) {
		name := Filename("///", "pdf", now)
		assert.Equal(t, "draft_20260829_143005.pdf", name)
	})
}

func TestDocxRenderer(t *testing.T) {
	r := NewDocxRenderer()
	assert.Equal(t, "docx", r.Ext())
	assert.Contains(t, r.ContentType(), "wordprocessingml")

	doc := Document{
		Title: "소장",
		Paragraphs: []Paragraph{
			{Text: "소    장", Format: models.LineFormat{Align: models.AlignCenter, Bold: true, FontSize: 16, SpacingAfter: 1}},
			{Text: "원고 김영희", Format: models.LineFormat{Align: models.AlignLeft, FontSize: 11, Indent: 1}},
		},
	}

	data, err := r.Render(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// docx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer()
	assert.Equal(t, "pdf", r.Ext())
	assert.Equal(t, "application/pdf", r.ContentType())

	doc := Document{
		Title: "draft",
		Paragraphs: []Paragraph{
			{Text: "Complaint", Format: models.LineFormat{Align: models.AlignCenter, Bold: true, FontSize: 16}},
			{Text: "Plaintiff requests a divorce decree.", Format: models.LineFormat{Align: models.AlignLeft, FontSize: 11, SpacingAfter: 1}},
		},
	}

	data, err := r.Render(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, []byte("%PDF"), data[:4])
}

func TestPDFRenderer_KoreanNeedsFont(t *testing.T) {
	r := NewPDFRenderer()

	doc := Document{
		Title: "초안",
		Paragraphs: []Paragraph{
			{Text: "소장", Format: models.LineFormat{Align: models.AlignCenter, Bold: true}},
		},
	}

	_, err := r.Render(doc)
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestHalfPoints(t *testing.T) {
	assert.Equal(t, "22", halfPoints(11))
	assert.Equal(t, "22", halfPoints(0))
	assert.Equal(t, "32", halfPoints(16))
}
