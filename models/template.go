package models

// Alignment represents horizontal paragraph alignment
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// LineFormat describes how a template line is rendered
type LineFormat struct {
	Align        Alignment `json:"align"`
	Indent       int       `json:"indent"`
	Bold         bool      `json:"bold"`
	FontSize     int       `json:"font_size"`
	SpacingAfter int       `json:"spacing_after"`
}

// Line is a single self-describing unit of a line-based document template.
// Text may embed zero or more {{key}} placeholder tokens. Condition keys
// into a boolean condition map; an empty condition means always included.
// Lines with AIGenerated set must be written by the model rather than
// filled by literal substitution.
type Line struct {
	Text           string     `json:"text"`
	Format         LineFormat `json:"format"`
	Condition      string     `json:"condition,omitempty"`
	PlaceholderKey string     `json:"placeholder_key,omitempty"`
	IsPlaceholder  bool       `json:"is_placeholder"`
	AIGenerated    bool       `json:"ai_generated"`
	Section        string     `json:"section,omitempty"`
}

// Template is an ordered line-based document template. Templates are
// immutable once loaded; a generation run works on copies of the lines.
type Template struct {
	ID      string       `json:"id"`
	DocType DocumentType `json:"doc_type"`
	Lines   []Line       `json:"lines"`
}
