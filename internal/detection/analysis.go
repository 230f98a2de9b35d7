package detection

import "strings"

// NumberingKind describes the list numbering attached to a paragraph
type NumberingKind string

const (
	NumberingNone    NumberingKind = ""
	NumberingBullet  NumberingKind = "bullet"
	NumberingDecimal NumberingKind = "decimal"
	NumberingLetter  NumberingKind = "letter"
	NumberingRoman   NumberingKind = "roman"
)

// IsNumbered reports whether the numbering produces an ordered sequence
func (k NumberingKind) IsNumbered() bool {
	switch k {
	case NumberingDecimal, NumberingLetter, NumberingRoman:
		return true
	default:
		return false
	}
}

// FormattingSpan is one run of uniformly formatted text
type FormattingSpan struct {
	Text        string  `json:"text"`
	Bold        bool    `json:"bold,omitempty"`
	Italic      bool    `json:"italic,omitempty"`
	Underline   bool    `json:"underline,omitempty"`
	Strike      bool    `json:"strike,omitempty"`
	Superscript bool    `json:"superscript,omitempty"`
	Subscript   bool    `json:"subscript,omitempty"`
	Font        string  `json:"font,omitempty"`
	Size        float64 `json:"size,omitempty"`
}

// MathNode is an embedded math object already converted by the extraction layer
type MathNode struct {
	LaTeX   string `json:"latex,omitempty"`
	Linear  string `json:"linear,omitempty"`
	Display bool   `json:"display,omitempty"`
}

// ImageRef references a drawing found in a paragraph
type ImageRef struct {
	RelID   string `json:"rel_id,omitempty"`
	Target  string `json:"target,omitempty"`
	Data    []byte `json:"data,omitempty"`
	AltText string `json:"alt,omitempty"`
	Width   int64  `json:"width,omitempty"`
	Height  int64  `json:"height,omitempty"`
}

// ParagraphAnalysis is the feature snapshot of one paragraph.
//
// Everything a rule may look at is extracted once up front. The pipeline writes
// CurrentSection and InAbstractSection before evaluating rules; all other fields
// are read-only for the detection core.
type ParagraphAnalysis struct {
	StyleID    string           `json:"style,omitempty"`
	Text       string           `json:"text"`
	Spans      []FormattingSpan `json:"spans,omitempty"`
	FontFamily string           `json:"font,omitempty"`
	FontSize   float64          `json:"font_size,omitempty"` // points, 0 when unknown

	AllBold   bool `json:"all_bold,omitempty"`
	AllItalic bool `json:"all_italic,omitempty"`
	AllCaps   bool `json:"all_caps,omitempty"`

	HasNumbering   bool          `json:"has_numbering,omitempty"`
	NumberingKind  NumberingKind `json:"numbering_kind,omitempty"`
	NumberingLevel int           `json:"numbering_level,omitempty"`
	NumberingID    int           `json:"numbering_id,omitempty"`

	HasMath   bool       `json:"has_math,omitempty"`
	MathNodes []MathNode `json:"math,omitempty"`

	HasDrawing bool       `json:"has_drawing,omitempty"`
	Images     []ImageRef `json:"images,omitempty"`

	HasPageBreak bool `json:"has_page_break,omitempty"`

	ShadingFill   string `json:"shading,omitempty"` // hex RGB without '#'
	OutlineLevel  *int   `json:"outline_level,omitempty"`
	LeftIndent    int    `json:"left_indent,omitempty"` // twips
	HasLeftBorder bool   `json:"has_left_border,omitempty"`

	CurrentSection    SectionType `json:"-"`
	InAbstractSection bool        `json:"-"`
}

// TrimmedText returns the paragraph text without surrounding whitespace
func (a *ParagraphAnalysis) TrimmedText() string {
	return strings.TrimSpace(a.Text)
}

// IsBlank reports whether the paragraph carries no visible text
func (a *ParagraphAnalysis) IsBlank() bool {
	return strings.TrimSpace(a.Text) == ""
}

// LeadingBoldText returns the text of the first non-empty span when it is bold
func (a *ParagraphAnalysis) LeadingBoldText() (string, bool) {
	for _, span := range a.Spans {
		if strings.TrimSpace(span.Text) == "" {
			continue
		}
		if !span.Bold {
			return "", false
		}
		return strings.TrimSpace(span.Text), true
	}
	if len(a.Spans) == 0 && a.AllBold {
		return a.TrimmedText(), true
	}
	return "", false
}
