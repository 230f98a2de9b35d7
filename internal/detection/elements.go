package detection

// ElementKind identifies an ImportElement variant
type ElementKind int

const (
	KindUnknown ElementKind = iota
	KindPageBreak
	KindHeading
	KindParagraph
	KindEquation
	KindCodeBlock
	KindTable
	KindImage
	KindListItem
	KindAbstract
	KindTheorem
	KindBlockquote
	KindBibliographyEntry
)

func (k ElementKind) String() string {
	switch k {
	case KindPageBreak:
		return "PageBreak"
	case KindHeading:
		return "Heading"
	case KindParagraph:
		return "Paragraph"
	case KindEquation:
		return "Equation"
	case KindCodeBlock:
		return "CodeBlock"
	case KindTable:
		return "Table"
	case KindImage:
		return "Image"
	case KindListItem:
		return "ListItem"
	case KindAbstract:
		return "Abstract"
	case KindTheorem:
		return "Theorem"
	case KindBlockquote:
		return "Blockquote"
	case KindBibliographyEntry:
		return "BibliographyEntry"
	default:
		return "Unknown"
	}
}

// MarshalText lets kinds appear by name in JSON reports
func (k ElementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Element is one recognized semantic unit of the imported document
type Element interface {
	Kind() ElementKind
	Order() int
}

// Position carries the caller assigned ordering index of an element
type Position struct {
	Index int `json:"index"`
}

// Order returns the monotonic ordering index
func (p Position) Order() int { return p.Index }

// ParagraphStyle tags paragraphs that keep a special role downstream
type ParagraphStyle string

const (
	StyleNormal   ParagraphStyle = "Normal"
	StyleTitle    ParagraphStyle = "Title"
	StyleSubtitle ParagraphStyle = "Subtitle"
	StyleCaption  ParagraphStyle = "Caption"
)

// CodeDetectionReason records which signal produced a code block
type CodeDetectionReason string

const (
	CodeByStyle         CodeDetectionReason = "Style"
	CodeByMonospaceFont CodeDetectionReason = "MonospaceFont"
	CodeByShading       CodeDetectionReason = "Shading"
)

// TheoremDetectionReason records which signal produced a theorem
type TheoremDetectionReason string

const (
	TheoremByStyle   TheoremDetectionReason = "Style"
	TheoremByContent TheoremDetectionReason = "ContentPattern"
)

// BlockquoteDetectionReason records which signal produced a blockquote
type BlockquoteDetectionReason string

const (
	BlockquoteByStyle        BlockquoteDetectionReason = "Style"
	BlockquoteByIndentItalic BlockquoteDetectionReason = "IndentItalic"
	BlockquoteByLeftBorder   BlockquoteDetectionReason = "LeftBorder"
)

// BibliographyDetectionReason records which signal produced a bibliography entry
type BibliographyDetectionReason string

const (
	BibliographyBySectionContext BibliographyDetectionReason = "SectionContext"
	BibliographyByStyle          BibliographyDetectionReason = "Style"
)

// TheoremKind is one of the supported theorem-like environments
type TheoremKind string

const (
	TheoremTheorem     TheoremKind = "Theorem"
	TheoremLemma       TheoremKind = "Lemma"
	TheoremProposition TheoremKind = "Proposition"
	TheoremCorollary   TheoremKind = "Corollary"
	TheoremConjecture  TheoremKind = "Conjecture"
	TheoremDefinition  TheoremKind = "Definition"
	TheoremExample     TheoremKind = "Example"
	TheoremRemark      TheoremKind = "Remark"
	TheoremProof       TheoremKind = "Proof"
	TheoremAxiom       TheoremKind = "Axiom"
	TheoremAssumption  TheoremKind = "Assumption"
	TheoremClaim       TheoremKind = "Claim"
	TheoremHypothesis  TheoremKind = "Hypothesis"
	TheoremNotation    TheoremKind = "Notation"
)

type PageBreak struct {
	Position
}

func (*PageBreak) Kind() ElementKind { return KindPageBreak }

type Heading struct {
	Position
	Level int    `json:"level"`
	Text  string `json:"text"`
}

func (*Heading) Kind() ElementKind { return KindHeading }

type Paragraph struct {
	Position
	Text  string         `json:"text"`
	Style ParagraphStyle `json:"style"`
}

func (*Paragraph) Kind() ElementKind { return KindParagraph }

type Equation struct {
	Position
	Content string `json:"content"`
	Inline  bool   `json:"inline"`
}

func (*Equation) Kind() ElementKind { return KindEquation }

type CodeBlock struct {
	Position
	Text     string              `json:"text"`
	Language string              `json:"language,omitempty"`
	Reason   CodeDetectionReason `json:"detection_reason"`
}

func (*CodeBlock) Kind() ElementKind { return KindCodeBlock }

type Table struct {
	Position
	Rows      [][]string `json:"rows"`
	HasHeader bool       `json:"has_header"`
}

func (*Table) Kind() ElementKind { return KindTable }

type Image struct {
	Position
	Data    []byte `json:"data,omitempty"`
	Ref     string `json:"ref,omitempty"`
	AltText string `json:"alt,omitempty"`
	Width   int64  `json:"width,omitempty"`
	Height  int64  `json:"height,omitempty"`
}

func (*Image) Kind() ElementKind { return KindImage }

type ListItem struct {
	Position
	Text     string `json:"text"`
	Numbered bool   `json:"numbered"`
	Level    int    `json:"level"`
}

func (*ListItem) Kind() ElementKind { return KindListItem }

type Abstract struct {
	Position
	Text string `json:"text"`
}

func (*Abstract) Kind() ElementKind { return KindAbstract }

type Theorem struct {
	Position
	TheoremKind TheoremKind            `json:"theorem_kind"`
	Number      string                 `json:"number,omitempty"`
	Text        string                 `json:"text"`
	Reason      TheoremDetectionReason `json:"detection_reason"`
}

func (*Theorem) Kind() ElementKind { return KindTheorem }

type Blockquote struct {
	Position
	Text   string                    `json:"text"`
	Reason BlockquoteDetectionReason `json:"detection_reason"`
}

func (*Blockquote) Kind() ElementKind { return KindBlockquote }

type BibliographyEntry struct {
	Position
	Text           string                      `json:"text"`
	ReferenceLabel string                      `json:"reference_label,omitempty"`
	Reason         BibliographyDetectionReason `json:"detection_reason"`
}

func (*BibliographyEntry) Kind() ElementKind { return KindBibliographyEntry }
