package detection

import (
	"strings"
)

// Priority bands. Lower values are evaluated first.
const (
	BandPageBreak = 0
	BandHeading   = 100
	BandList      = 300
	BandEquation  = 400
	BandSection   = 500
	BandSemantic  = 600
	BandCode      = 700
	BandImage     = 800
	BandFallback  = 900
)

// Default rule ids
const (
	RulePageBreak         = "page-break"
	RuleHeadingStyle      = "heading-style"
	RuleTitleAbstract     = "title-abstract"
	RuleTitleParagraph    = "title-paragraph"
	RuleHeadingCustom     = "heading-custom-style"
	RuleHeadingOutline    = "heading-outline-level"
	RuleHeadingKeyword    = "heading-keyword"
	RuleHeadingFormatting = "heading-formatting"
	RuleListNumbering     = "list-numbering"
	RuleListBullet        = "list-bullet-char"
	RuleListManual        = "list-manual-number"
	RuleEquationMath      = "equation-math"
	RuleEquationStyle     = "equation-style"
	RuleAbstractStyle     = "abstract-style"
	RuleAbstractContext   = "abstract-context"
	RuleBibliographyCtx   = "bibliography-context"
	RuleTOCEntry          = "toc-entry"
	RuleFigureListEntry   = "figure-list-entry"
	RuleBibliographyStyle = "bibliography-style"
	RuleTheoremStyle      = "theorem-style"
	RuleTheoremContent    = "theorem-content"
	RuleBlockquoteStyle   = "blockquote-style"
	RuleBlockquoteIndent  = "blockquote-indent"
	RuleBlockquoteBorder  = "blockquote-border"
	RuleCodeStyle         = "code-style"
	RuleCodeFont          = "code-font"
	RuleCodeShading       = "code-shading"
	RuleImage             = "image"
	RuleCaption           = "caption"
	RuleFallback          = "fallback"
)

var hasText = NewContentPattern(`\S`, PatternContains)

// DefaultRules assembles the default rule set. Rules switched off by a toggle
// are returned with Disabled set so listings still show them.
func DefaultRules(opts Options, keywords *KeywordRegistry) []Rule {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	var rules []Rule
	rules = append(rules, pageBreakRules()...)
	rules = append(rules, headingRules(opts, keywords)...)
	rules = append(rules, listRules(opts)...)
	rules = append(rules, equationRules(opts)...)
	rules = append(rules, sectionContextRules(opts, keywords)...)
	rules = append(rules, semanticRules(opts)...)
	rules = append(rules, codeRules(opts)...)
	rules = append(rules, imageRules(opts)...)
	rules = append(rules, fallbackRule())
	return rules
}

func pageBreakRules() []Rule {
	return []Rule{{
		ID:       RulePageBreak,
		Name:     "Page break",
		Priority: BandPageBreak + 10,
		Target:   KindPageBreak,
		When:     &FormatElements{HasPageBreak: Ptr(true)},
		Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
			// Text next to the break is classified by the later rules.
			if !a.IsBlank() {
				return nil, false
			}
			return []Element{&PageBreak{Position{ctx.NextIndex()}}}, true
		},
	}}
}

func headingRules(opts Options, keywords *KeywordRegistry) []Rule {
	onHeading := func(level func(a *ParagraphAnalysis) int) StateFunc {
		return func(t *SectionTracker, a *ParagraphAnalysis) {
			t.OnHeadingEncountered(a.TrimmedText(), level(a))
		}
	}
	headingOf := func(level int, a *ParagraphAnalysis, ctx *BuildContext) []Element {
		return []Element{&Heading{Position: Position{ctx.NextIndex()}, Level: level, Text: a.TrimmedText()}}
	}
	titleStyle := AnyOf(
		&StyleMatch{Pattern: "Title", Mode: MatchExact},
		&StyleMatch{Pattern: "Subtitle", Mode: MatchExact},
	)
	outlineLevel := func(a *ParagraphAnalysis) int {
		if a.OutlineLevel == nil {
			return 0
		}
		return *a.OutlineLevel + 1
	}
	styleLevel := func(a *ParagraphAnalysis) int {
		level, _ := headingLevelFromStyle(a.StyleID)
		return level
	}

	return []Rule{
		{
			ID:       RuleHeadingStyle,
			Name:     "Heading by style",
			Priority: BandHeading,
			Target:   KindHeading,
			When: &Custom{Name: "style is Heading<N> within level bounds", Fn: func(a *ParagraphAnalysis) bool {
				level, ok := headingLevelFromStyle(a.StyleID)
				return ok && opts.headingLevelAllowed(level)
			}},
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				if a.IsBlank() {
					return nil, false
				}
				return headingOf(styleLevel(a), a, ctx), true
			},
			OnMatch: onHeading(styleLevel),
		},
		{
			ID:       RuleTitleAbstract,
			Name:     "Title/Subtitle naming the abstract",
			Priority: BandHeading + 5,
			Target:   KindAbstract,
			When:     AllOf(titleStyle, NewHeadingTextSet(keywords.Keywords(SectionAbstract), false)),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				return []Element{}, true
			},
			OnMatch:  onHeading(func(*ParagraphAnalysis) int { return 1 }),
			Disabled: !opts.DetectAbstractByStyle,
		},
		{
			ID:       RuleTitleParagraph,
			Name:     "Title/Subtitle paragraph",
			Priority: BandHeading + 6,
			Target:   KindParagraph,
			When:     titleStyle,
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				if a.IsBlank() {
					return []Element{}, true
				}
				style := StyleTitle
				if strings.EqualFold(a.StyleID, "Subtitle") {
					style = StyleSubtitle
				}
				return []Element{&Paragraph{Position: Position{ctx.NextIndex()}, Text: a.TrimmedText(), Style: style}}, true
			},
			OnMatch: func(t *SectionTracker, a *ParagraphAnalysis) {
				if t.InAbstractSection() {
					t.EndAbstractSection()
				}
			},
		},
		{
			ID:       RuleHeadingCustom,
			Name:     "Heading by custom style",
			Priority: BandHeading + 10,
			Target:   KindHeading,
			When: AnyOf(
				AllOf(&StyleMatch{Pattern: "title", Mode: MatchContains}, Negate(&StyleMatch{Pattern: "subtitle", Mode: MatchContains})),
				&StyleMatch{Pattern: "section", Mode: MatchContains},
				&StyleMatch{Pattern: "chapter", Mode: MatchContains},
			),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				level := customHeadingLevel(a.StyleID)
				if a.IsBlank() || !opts.headingLevelAllowed(level) {
					return nil, false
				}
				return headingOf(level, a, ctx), true
			},
			OnMatch: onHeading(func(a *ParagraphAnalysis) int { return customHeadingLevel(a.StyleID) }),
		},
		{
			ID:       RuleHeadingOutline,
			Name:     "Heading by outline level",
			Priority: BandHeading + 20,
			Target:   KindHeading,
			When: &Custom{Name: "outline level within level bounds", Fn: func(a *ParagraphAnalysis) bool {
				return a.OutlineLevel != nil && opts.headingLevelAllowed(*a.OutlineLevel+1)
			}},
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				if a.IsBlank() {
					return nil, false
				}
				return headingOf(outlineLevel(a), a, ctx), true
			},
			OnMatch: onHeading(outlineLevel),
		},
		{
			ID:       RuleHeadingKeyword,
			Name:     "Heading by section keyword",
			Priority: BandHeading + 30,
			Target:   KindHeading,
			When: AllOf(
				&Formatting{Bold: Ptr(true)},
				&Numbering{HasNumbering: Ptr(false)},
				&Custom{Name: "text is a section keyword", Fn: func(a *ParagraphAnalysis) bool {
					_, ok := keywords.Classify(a.Text)
					return ok
				}},
			),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				if !opts.headingLevelAllowed(1) {
					return nil, false
				}
				return headingOf(1, a, ctx), true
			},
			OnMatch:  onHeading(func(*ParagraphAnalysis) int { return 1 }),
			Disabled: !opts.DetectHeadingsByKeyword,
		},
		{
			ID:       RuleHeadingFormatting,
			Name:     "Heading by formatting heuristics",
			Priority: BandHeading + 50,
			Target:   KindHeading,
			When: AllOf(
				hasText,
				&Numbering{HasNumbering: Ptr(false)},
				AnyOf(
					&Formatting{Bold: Ptr(true)},
					&Formatting{MinFontSize: Ptr(opts.HeadingMinFontSize)},
					&Formatting{Caps: Ptr(true)},
				),
			),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				level, ok := formattingHeadingLevel(a, opts)
				if !ok || !opts.headingLevelAllowed(level) {
					return nil, false
				}
				return headingOf(level, a, ctx), true
			},
			OnMatch: func(t *SectionTracker, a *ParagraphAnalysis) {
				level, _ := formattingHeadingLevel(a, opts)
				t.OnHeadingEncountered(a.TrimmedText(), level)
			},
			Disabled: !opts.DetectHeadingsByFormatting,
		},
	}
}

func endAbstract(t *SectionTracker, _ *ParagraphAnalysis) {
	t.EndAbstractSection()
}

func listRules(opts Options) []Rule {
	return []Rule{
		{
			ID:       RuleListNumbering,
			Name:     "List item by numbering",
			Priority: BandList,
			Target:   KindListItem,
			When:     &Numbering{HasNumbering: Ptr(true)},
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				item, ok := ctx.Lists.BuildListItem(a)
				if !ok || item == nil {
					return nil, false
				}
				item.Index = ctx.NextIndex()
				return []Element{item}, true
			},
			OnMatch: endAbstract,
		},
		{
			ID:       RuleListBullet,
			Name:     "List item by typed bullet",
			Priority: BandList + 10,
			Target:   KindListItem,
			When:     AllOf(&Numbering{HasNumbering: Ptr(false)}, NewContentPattern(bulletCharRe.String(), PatternContains)),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				text := stripListMarker(bulletCharRe, a.Text)
				if text == "" {
					return nil, false
				}
				return []Element{&ListItem{Position: Position{ctx.NextIndex()}, Text: text}}, true
			},
			OnMatch:  endAbstract,
			Disabled: !opts.DetectManualLists,
		},
		{
			ID:       RuleListManual,
			Name:     "List item by typed number",
			Priority: BandList + 20,
			Target:   KindListItem,
			When: AllOf(
				&Numbering{HasNumbering: Ptr(false)},
				&SectionContext{Disallowed: []SectionType{SectionReferences}},
				NewContentPatternCase(manualNumberRe.String(), PatternContains, true),
			),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				text := stripListMarker(manualNumberRe, a.Text)
				if text == "" {
					return nil, false
				}
				return []Element{&ListItem{Position: Position{ctx.NextIndex()}, Text: text, Numbered: true}}, true
			},
			OnMatch:  endAbstract,
			Disabled: !opts.DetectManualLists,
		},
	}
}

func equationRules(opts Options) []Rule {
	return []Rule{
		{
			ID:       RuleEquationMath,
			Name:     "Equation by embedded math",
			Priority: BandEquation,
			Target:   KindEquation,
			When:     AllOf(&FormatElements{HasMath: Ptr(true)}, Negate(hasText)),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				var out []Element
				for _, node := range a.MathNodes {
					eq, ok := ctx.Equations.BuildEquation(node)
					if !ok || eq == nil {
						continue
					}
					eq.Index = ctx.NextIndex()
					out = append(out, eq)
				}
				if len(out) == 0 {
					return nil, false
				}
				return out, true
			},
		},
		{
			ID:       RuleEquationStyle,
			Name:     "Equation by style",
			Priority: BandEquation + 10,
			Target:   KindEquation,
			When: AllOf(
				&StyleSet{Patterns: opts.EquationStylePatterns, ContainsAny: true},
				&FormatElements{HasMath: Ptr(false)},
				hasText,
			),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				return []Element{&Equation{Position: Position{ctx.NextIndex()}, Content: a.TrimmedText()}}, true
			},
		},
	}
}

func sectionContextRules(opts Options, keywords *KeywordRegistry) []Rule {
	pageNumbered := NewContentPattern(pageNumberTailRe.String(), PatternContains)
	bibliographyBuild := func(reason BibliographyDetectionReason) BuildFunc {
		return func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
			text := a.TrimmedText()
			if text == "" {
				return nil, false
			}
			return []Element{&BibliographyEntry{
				Position:       Position{ctx.NextIndex()},
				Text:           text,
				ReferenceLabel: bibliographyLabel(text),
				Reason:         reason,
			}}, true
		}
	}
	consume := func(*BuildContext, *ParagraphAnalysis) ([]Element, bool) {
		return []Element{}, true
	}

	return []Rule{
		{
			ID:       RuleAbstractStyle,
			Name:     "Abstract by style",
			Priority: BandSection,
			Target:   KindAbstract,
			When:     &StyleSet{Patterns: opts.AbstractStylePatterns, ContainsAny: true},
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				if a.IsBlank() || ctx.Keywords.IsKeyword(SectionAbstract, a.Text) {
					return []Element{}, true
				}
				return []Element{&Abstract{Position: Position{ctx.NextIndex()}, Text: a.TrimmedText()}}, true
			},
			OnMatch: func(t *SectionTracker, a *ParagraphAnalysis) {
				// An abstract-styled "Abstract" line opens the abstract section.
				if keywords.IsKeyword(SectionAbstract, a.Text) {
					t.OnHeadingEncountered(a.TrimmedText(), 1)
				}
			},
			Disabled: !opts.DetectAbstractByStyle,
		},
		{
			ID:       RuleAbstractContext,
			Name:     "Abstract by section context",
			Priority: BandSection + 10,
			Target:   KindAbstract,
			When: AllOf(
				&SectionContext{InAbstract: Ptr(true)},
				&FormatElements{HasDrawing: Ptr(false)},
				hasText,
			),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				if a.IsBlank() {
					return []Element{}, true
				}
				return []Element{&Abstract{Position: Position{ctx.NextIndex()}, Text: a.TrimmedText()}}, true
			},
		},
		{
			ID:       RuleBibliographyCtx,
			Name:     "Bibliography entry by section context",
			Priority: BandSection + 20,
			Target:   KindBibliographyEntry,
			When: AllOf(
				&SectionContext{Allowed: []SectionType{SectionReferences}},
				&Custom{Name: "text looks like a reference", Fn: func(a *ParagraphAnalysis) bool {
					return looksLikeBibliographyEntry(a, opts.HangingIndentMin)
				}},
			),
			Build:    bibliographyBuild(BibliographyBySectionContext),
			Disabled: !opts.DetectBibliographyEntries,
		},
		{
			ID:       RuleTOCEntry,
			Name:     "Table of contents entry",
			Priority: BandSection + 30,
			Target:   KindParagraph,
			When: AnyOf(
				NewStyleMatch(`^toc\s?\d+$`, MatchRegex),
				AllOf(&SectionContext{Allowed: []SectionType{SectionTableOfContents}}, pageNumbered),
			),
			Build: consume,
		},
		{
			ID:       RuleFigureListEntry,
			Name:     "List of figures/tables entry",
			Priority: BandSection + 35,
			Target:   KindParagraph,
			When: AnyOf(
				&StyleSet{Patterns: []string{"table of figures", "tableoffigures"}},
				AllOf(&SectionContext{Allowed: []SectionType{SectionListOfFigures, SectionListOfTables}}, pageNumbered),
			),
			Build: consume,
		},
		{
			ID:       RuleBibliographyStyle,
			Name:     "Bibliography entry by style",
			Priority: BandSection + 40,
			Target:   KindBibliographyEntry,
			When:     AllOf(&StyleSet{Patterns: opts.BibliographyStylePatterns, ContainsAny: true}, hasText),
			Build:    bibliographyBuild(BibliographyByStyle),
			Disabled: !opts.DetectBibliographyEntries,
		},
	}
}

func semanticRules(opts Options) []Rule {
	blockquote := func(reason BlockquoteDetectionReason) BuildFunc {
		return func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
			if a.IsBlank() {
				return nil, false
			}
			return []Element{&Blockquote{Position: Position{ctx.NextIndex()}, Text: a.TrimmedText(), Reason: reason}}, true
		}
	}
	noNumbering := &Numbering{HasNumbering: Ptr(false)}

	return []Rule{
		{
			ID:       RuleTheoremStyle,
			Name:     "Theorem by style",
			Priority: BandSemantic,
			Target:   KindTheorem,
			When:     &StyleSet{Patterns: opts.TheoremStylePatterns, ContainsAny: true},
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				if a.IsBlank() {
					return nil, false
				}
				th := &Theorem{TheoremKind: classifyTheoremKind(a.StyleID), Text: a.TrimmedText(), Reason: TheoremByStyle}
				if _, number, body, ok := splitTheoremLabel(a.Text); ok {
					th.Number, th.Text = number, body
				}
				th.Index = ctx.NextIndex()
				return []Element{th}, true
			},
			Disabled: !opts.DetectTheoremEnvironments,
		},
		{
			ID:       RuleTheoremContent,
			Name:     "Theorem by bold label",
			Priority: BandSemantic + 10,
			Target:   KindTheorem,
			When: AllOf(
				NewContentPattern(theoremLabelRe.String(), PatternContains),
				&Custom{Name: "leading run is bold", Fn: func(a *ParagraphAnalysis) bool {
					_, ok := a.LeadingBoldText()
					return ok
				}},
			),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				lead, _ := a.LeadingBoldText()
				keyword, _, _, ok := splitTheoremLabel(lead)
				if !ok {
					return nil, false
				}
				_, number, body, _ := splitTheoremLabel(a.Text)
				return []Element{&Theorem{
					Position:    Position{ctx.NextIndex()},
					TheoremKind: classifyTheoremKind(keyword),
					Number:      number,
					Text:        body,
					Reason:      TheoremByContent,
				}}, true
			},
			Disabled: !opts.DetectTheoremEnvironments,
		},
		{
			ID:       RuleBlockquoteStyle,
			Name:     "Blockquote by style",
			Priority: BandSemantic + 20,
			Target:   KindBlockquote,
			When:     &StyleSet{Patterns: opts.QuoteStylePatterns, ContainsAny: true},
			Build:    blockquote(BlockquoteByStyle),
			Disabled: !opts.DetectBlockquotesByStyle,
		},
		{
			ID:       RuleBlockquoteIndent,
			Name:     "Blockquote by indent and italics",
			Priority: BandSemantic + 30,
			Target:   KindBlockquote,
			When: AllOf(
				&Indent{MinIndent: Ptr(opts.BlockquoteMinIndent)},
				noNumbering,
				&Formatting{Italic: Ptr(true)},
			),
			Build:    blockquote(BlockquoteByIndentItalic),
			Disabled: !opts.DetectBlockquotesByIndent,
		},
		{
			ID:       RuleBlockquoteBorder,
			Name:     "Blockquote by left border",
			Priority: BandSemantic + 40,
			Target:   KindBlockquote,
			When:     AllOf(&Indent{HasLeftBorder: Ptr(true)}, noNumbering),
			Build:    blockquote(BlockquoteByLeftBorder),
			Disabled: !opts.DetectBlockquotesByIndent,
		},
	}
}

func codeRules(opts Options) []Rule {
	code := func(reason CodeDetectionReason) BuildFunc {
		return func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
			if a.IsBlank() {
				return nil, false
			}
			text := strings.TrimRight(a.Text, "\r\n")
			return []Element{&CodeBlock{
				Position: Position{ctx.NextIndex()},
				Text:     text,
				Language: guessCodeLanguage(a.StyleID, text),
				Reason:   reason,
			}}, true
		}
	}

	return []Rule{
		{
			ID:       RuleCodeStyle,
			Name:     "Code block by style",
			Priority: BandCode,
			Target:   KindCodeBlock,
			When:     &StyleSet{Patterns: opts.CodeStylePatterns, ContainsAny: true},
			Build:    code(CodeByStyle),
			Disabled: !opts.DetectCodeByStyle,
		},
		{
			ID:       RuleCodeFont,
			Name:     "Code block by monospace font",
			Priority: BandCode + 10,
			Target:   KindCodeBlock,
			When:     &FontMatch{Fonts: opts.MonospaceFonts},
			Build:    code(CodeByMonospaceFont),
			Disabled: !opts.DetectCodeByFont,
		},
		{
			ID:       RuleCodeShading,
			Name:     "Code block by gray shading",
			Priority: BandCode + 20,
			Target:   KindCodeBlock,
			When:     &Shading{MinBrightness: opts.ShadingMinBrightness, MaxBrightness: opts.ShadingMaxBrightness},
			Build:    code(CodeByShading),
			Disabled: !opts.DetectCodeByShading,
		},
	}
}

var captionLabel = NewContentPattern(
	`(?:figure|fig\.|table|tab\.|abbildung|abb\.|tabelle|figura|tabla|tableau|图|表|図)\s*\d+(?:\.\d+)*\s*[.:：]`,
	PatternStartsWith)

func imageRules(opts Options) []Rule {
	return []Rule{
		{
			ID:       RuleImage,
			Name:     "Image",
			Priority: BandImage,
			Target:   KindImage,
			When:     &FormatElements{HasDrawing: Ptr(true)},
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				images := ctx.Images.ExtractImages(a)
				if len(images) == 0 {
					return nil, false
				}
				var out []Element
				if !a.IsBlank() {
					out = append(out, &Paragraph{Position: Position{ctx.NextIndex()}, Text: a.TrimmedText(), Style: StyleNormal})
				}
				for _, img := range images {
					img.Index = ctx.NextIndex()
					out = append(out, img)
				}
				return out, true
			},
		},
		{
			ID:       RuleCaption,
			Name:     "Caption",
			Priority: BandImage + 60,
			Target:   KindParagraph,
			When: AllOf(
				hasText,
				AnyOf(&StyleSet{Patterns: opts.CaptionStylePatterns, ContainsAny: true}, captionLabel),
			),
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				return []Element{&Paragraph{Position: Position{ctx.NextIndex()}, Text: a.TrimmedText(), Style: StyleCaption}}, true
			},
			Disabled: !opts.DetectCaptions,
		},
	}
}

func fallbackRule() Rule {
	return Rule{
		ID:       RuleFallback,
		Name:     "Paragraph fallback",
		Priority: BandFallback,
		Target:   KindParagraph,
		When:     &Always{},
		Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
			if a.IsBlank() {
				return []Element{}, true
			}
			return []Element{&Paragraph{Position: Position{ctx.NextIndex()}, Text: a.TrimmedText(), Style: StyleNormal}}, true
		},
	}
}
