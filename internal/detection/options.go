package detection

import (
	"errors"
	"fmt"
)

// Options are the toggles and pattern sets the default rule set is built from
type Options struct {
	DetectHeadingsByFormatting bool
	DetectHeadingsByKeyword    bool
	DetectCodeByStyle          bool
	DetectCodeByFont           bool
	DetectCodeByShading        bool
	DetectTheoremEnvironments  bool
	DetectBlockquotesByStyle   bool
	DetectBlockquotesByIndent  bool
	DetectAbstractByStyle      bool
	DetectBibliographyEntries  bool
	DetectManualLists          bool
	DetectCaptions             bool

	MonospaceFonts            []string
	CodeStylePatterns         []string
	QuoteStylePatterns        []string
	TheoremStylePatterns      []string
	AbstractStylePatterns     []string
	BibliographyStylePatterns []string
	EquationStylePatterns     []string
	CaptionStylePatterns      []string

	// Heading levels eligible to be detected and to start a section
	MinHeadingLevel int
	MaxHeadingLevel int

	ShadingMinBrightness int
	ShadingMaxBrightness int

	BlockquoteMinIndent int // twips
	HangingIndentMin    int // twips

	HeadingMinFontSize   float64
	HeadingLargeFontSize float64
	MaxHeadingLength     int
}

// DefaultOptions returns the configuration used when nothing is overridden
func DefaultOptions() Options {
	return Options{
		DetectHeadingsByFormatting: false,
		DetectHeadingsByKeyword:    true,
		DetectCodeByStyle:          true,
		DetectCodeByFont:           true,
		DetectCodeByShading:        true,
		DetectTheoremEnvironments:  true,
		DetectBlockquotesByStyle:   true,
		DetectBlockquotesByIndent:  true,
		DetectAbstractByStyle:      true,
		DetectBibliographyEntries:  true,
		DetectManualLists:          true,
		DetectCaptions:             true,

		MonospaceFonts: []string{
			"Consolas", "Courier", "Courier New", "Lucida Console", "Monaco", "Menlo",
			"Source Code Pro", "Fira Code", "Fira Mono", "JetBrains Mono", "Cascadia Code",
			"Cascadia Mono", "DejaVu Sans Mono", "Liberation Mono", "Ubuntu Mono",
			"Inconsolata", "Roboto Mono", "SF Mono", "Andale Mono", "Noto Sans Mono",
		},
		CodeStylePatterns:         []string{"code", "sourcecode", "source code", "preformatted", "listing", "verbatim", "macro"},
		QuoteStylePatterns:        []string{"quote", "blockquote", "block text", "epigraph"},
		TheoremStylePatterns:      []string{"theorem", "lemma", "proposition", "corollary", "conjecture", "definition", "proof", "axiom", "remark"},
		AbstractStylePatterns:     []string{"abstract"},
		BibliographyStylePatterns: []string{"bibliography", "endnote bibliography", "reference", "citavi bibliography"},
		EquationStylePatterns:     []string{"equation", "displayequation", "mtdisplayequation", "formula"},
		CaptionStylePatterns:      []string{"caption"},

		MinHeadingLevel: 1,
		MaxHeadingLevel: 6,

		ShadingMinBrightness: 190,
		ShadingMaxBrightness: 250,

		BlockquoteMinIndent: 720,
		HangingIndentMin:    360,

		HeadingMinFontSize:   12,
		HeadingLargeFontSize: 14,
		MaxHeadingLength:     200,
	}
}

// ErrInvalidOptions reports an options set the rule registry cannot use
var ErrInvalidOptions = errors.New("invalid detection options")

// Validate checks numeric bounds
func (o Options) Validate() error {
	if o.MinHeadingLevel < 1 || o.MaxHeadingLevel > 9 {
		return fmt.Errorf("%w: heading levels must lie in 1..9, got %d..%d", ErrInvalidOptions, o.MinHeadingLevel, o.MaxHeadingLevel)
	}
	if o.MinHeadingLevel > o.MaxHeadingLevel {
		return fmt.Errorf("%w: min heading level %d exceeds max %d", ErrInvalidOptions, o.MinHeadingLevel, o.MaxHeadingLevel)
	}
	if o.ShadingMinBrightness < 0 || o.ShadingMaxBrightness > 255 || o.ShadingMinBrightness >= o.ShadingMaxBrightness {
		return fmt.Errorf("%w: shading band (%d, %d) is empty or out of range", ErrInvalidOptions, o.ShadingMinBrightness, o.ShadingMaxBrightness)
	}
	if o.BlockquoteMinIndent < 0 || o.HangingIndentMin < 0 {
		return fmt.Errorf("%w: indents must not be negative", ErrInvalidOptions)
	}
	if o.MaxHeadingLength <= 0 {
		return fmt.Errorf("%w: max heading length must be positive", ErrInvalidOptions)
	}
	return nil
}

func (o Options) headingLevelAllowed(level int) bool {
	return level >= o.MinHeadingLevel && level <= o.MaxHeadingLevel
}
