package detection

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Condition is a predicate over a ParagraphAnalysis.
//
// The set of variants is closed; Evaluate is the single place that interprets
// them. Use Custom for one-off predicates.
type Condition interface {
	condition()
}

// MatchMode selects how StyleMatch compares style ids
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchContains
	MatchStartsWith
	MatchRegex
)

// PatternMode selects how ContentPattern applies its regex
type PatternMode int

const (
	PatternFullMatch PatternMode = iota
	PatternContains
	PatternStartsWith
)

// CompositeMode joins Composite children
type CompositeMode int

const (
	And CompositeMode = iota
	Or
)

// regexTimeout bounds every regex evaluation so a pathological pattern cannot
// stall a document run.
const regexTimeout = 250 * time.Millisecond

type StyleMatch struct {
	Pattern       string
	Mode          MatchMode
	CaseSensitive bool
	re            *regexp2.Regexp
}

type FontMatch struct {
	Fonts []string
}

// Shading matches light gray paragraph fills. Channels must lie strictly
// between MinBrightness and MaxBrightness.
type Shading struct {
	MinBrightness int
	MaxBrightness int
}

// Formatting constraints are ignored when nil
type Formatting struct {
	Bold        *bool
	Italic      *bool
	Caps        *bool
	MinFontSize *float64
	MaxFontSize *float64
}

type ContentPattern struct {
	Pattern       string
	Mode          PatternMode
	CaseSensitive bool
	re            *regexp2.Regexp
}

type Numbering struct {
	HasNumbering *bool
	IsNumbered   *bool
}

type FormatElements struct {
	HasMath      *bool
	HasDrawing   *bool
	HasPageBreak *bool
}

// SectionContext filters by tracker state; empty sets are not applied
type SectionContext struct {
	Allowed    []SectionType
	Disallowed []SectionType
	InAbstract *bool
}

type Indent struct {
	MinIndent     *int
	HasLeftBorder *bool
}

// HeadingTextSet matches when the normalized text is one of Keywords.
// StripNumbering removes section numbering before comparing.
type HeadingTextSet struct {
	Keywords       []string
	StripNumbering bool
	normalized     map[string]struct{}
}

// StyleSet matches the style id against several patterns, either exactly or by
// substring when ContainsAny is set. Comparison ignores case.
type StyleSet struct {
	Patterns    []string
	ContainsAny bool
}

type Always struct{}

type Composite struct {
	Mode     CompositeMode
	Children []Condition
}

type Not struct {
	Child Condition
}

// Custom wraps an arbitrary predicate. Fn must not mutate the analysis.
type Custom struct {
	Name string
	Fn   func(a *ParagraphAnalysis) bool
}

func (*StyleMatch) condition()     {}
func (*FontMatch) condition()      {}
func (*Shading) condition()        {}
func (*Formatting) condition()     {}
func (*ContentPattern) condition() {}
func (*Numbering) condition()      {}
func (*FormatElements) condition() {}
func (*SectionContext) condition() {}
func (*Indent) condition()         {}
func (*HeadingTextSet) condition() {}
func (*StyleSet) condition()       {}
func (*Always) condition()         {}
func (*Composite) condition()      {}
func (*Not) condition()            {}
func (*Custom) condition()         {}

// NewStyleMatch precompiles regex patterns; an invalid regex never matches
func NewStyleMatch(pattern string, mode MatchMode) *StyleMatch {
	c := &StyleMatch{Pattern: pattern, Mode: mode}
	if mode == MatchRegex {
		c.re = compileRegex(pattern, false)
	}
	return c
}

// NewContentPattern precompiles a case-insensitive pattern; an invalid regex
// never matches
func NewContentPattern(pattern string, mode PatternMode) *ContentPattern {
	return NewContentPatternCase(pattern, mode, false)
}

// NewContentPatternCase is NewContentPattern with explicit case sensitivity
func NewContentPatternCase(pattern string, mode PatternMode, caseSensitive bool) *ContentPattern {
	return &ContentPattern{
		Pattern:       pattern,
		Mode:          mode,
		CaseSensitive: caseSensitive,
		re:            compileRegex(anchor(pattern, mode), caseSensitive),
	}
}

// NewHeadingTextSet precomputes the normalized keyword set
func NewHeadingTextSet(keywords []string, stripNumbering bool) *HeadingTextSet {
	c := &HeadingTextSet{Keywords: keywords, StripNumbering: stripNumbering}
	c.normalized = normalizeSet(keywords)
	return c
}

func AllOf(children ...Condition) *Composite {
	return &Composite{Mode: And, Children: children}
}

func AnyOf(children ...Condition) *Composite {
	return &Composite{Mode: Or, Children: children}
}

func Negate(child Condition) *Not {
	return &Not{Child: child}
}

// Ptr returns a pointer to v, for optional condition fields
func Ptr[T any](v T) *T {
	return &v
}

// Evaluate reports whether the condition holds. It never panics on a
// well-formed analysis; malformed inputs evaluate to false.
func Evaluate(c Condition, a *ParagraphAnalysis) bool {
	if c == nil || a == nil {
		return false
	}
	switch c := c.(type) {
	case *StyleMatch:
		return evalStyleMatch(c, a)
	case *FontMatch:
		return containsFold(c.Fonts, a.FontFamily)
	case *Shading:
		return evalShading(c, a.ShadingFill)
	case *Formatting:
		return evalFormatting(c, a)
	case *ContentPattern:
		return evalContentPattern(c, a.Text)
	case *Numbering:
		if c.HasNumbering != nil && *c.HasNumbering != a.HasNumbering {
			return false
		}
		if c.IsNumbered != nil && *c.IsNumbered != (a.HasNumbering && a.NumberingKind.IsNumbered()) {
			return false
		}
		return true
	case *FormatElements:
		if c.HasMath != nil && *c.HasMath != a.HasMath {
			return false
		}
		if c.HasDrawing != nil && *c.HasDrawing != a.HasDrawing {
			return false
		}
		if c.HasPageBreak != nil && *c.HasPageBreak != a.HasPageBreak {
			return false
		}
		return true
	case *SectionContext:
		if len(c.Allowed) > 0 && !containsSection(c.Allowed, a.CurrentSection) {
			return false
		}
		if len(c.Disallowed) > 0 && containsSection(c.Disallowed, a.CurrentSection) {
			return false
		}
		if c.InAbstract != nil && *c.InAbstract != a.InAbstractSection {
			return false
		}
		return true
	case *Indent:
		if c.MinIndent != nil && a.LeftIndent < *c.MinIndent {
			return false
		}
		if c.HasLeftBorder != nil && *c.HasLeftBorder != a.HasLeftBorder {
			return false
		}
		return true
	case *HeadingTextSet:
		return evalHeadingTextSet(c, a.Text)
	case *StyleSet:
		return evalStyleSet(c, a.StyleID)
	case *Always:
		return true
	case *Composite:
		if c.Mode == Or {
			for _, child := range c.Children {
				if Evaluate(child, a) {
					return true
				}
			}
			return false
		}
		for _, child := range c.Children {
			if !Evaluate(child, a) {
				return false
			}
		}
		return true
	case *Not:
		return c.Child != nil && !Evaluate(c.Child, a)
	case *Custom:
		return c.Fn != nil && c.Fn(a)
	default:
		return false
	}
}

func evalStyleMatch(c *StyleMatch, a *ParagraphAnalysis) bool {
	if a.StyleID == "" {
		return false
	}
	style, pattern := a.StyleID, c.Pattern
	if !c.CaseSensitive && c.Mode != MatchRegex {
		style, pattern = strings.ToLower(style), strings.ToLower(pattern)
	}
	switch c.Mode {
	case MatchExact:
		return style == pattern
	case MatchContains:
		return strings.Contains(style, pattern)
	case MatchStartsWith:
		return strings.HasPrefix(style, pattern)
	case MatchRegex:
		re := c.re
		if re == nil {
			re = compileRegex(c.Pattern, c.CaseSensitive)
		}
		return regexMatch(re, a.StyleID)
	default:
		return false
	}
}

func evalShading(c *Shading, fill string) bool {
	r, g, b, ok := parseHexColor(fill)
	if !ok {
		return false
	}
	if r >= 250 && g >= 250 && b >= 250 {
		return false
	}
	if absInt(r-g) >= 20 || absInt(g-b) >= 20 || absInt(r-b) >= 20 {
		return false
	}
	for _, ch := range []int{r, g, b} {
		if ch <= c.MinBrightness || ch >= c.MaxBrightness {
			return false
		}
	}
	return true
}

func parseHexColor(fill string) (r, g, b int, ok bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(fill), "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func evalFormatting(c *Formatting, a *ParagraphAnalysis) bool {
	if c.Bold != nil && *c.Bold != a.AllBold {
		return false
	}
	if c.Italic != nil && *c.Italic != a.AllItalic {
		return false
	}
	if c.Caps != nil && *c.Caps != a.AllCaps {
		return false
	}
	if c.MinFontSize != nil && (a.FontSize <= 0 || a.FontSize < *c.MinFontSize) {
		return false
	}
	if c.MaxFontSize != nil && (a.FontSize <= 0 || a.FontSize > *c.MaxFontSize) {
		return false
	}
	return true
}

func evalContentPattern(c *ContentPattern, text string) bool {
	re := c.re
	if re == nil {
		re = compileRegex(anchor(c.Pattern, c.Mode), c.CaseSensitive)
	}
	return regexMatch(re, strings.TrimSpace(text))
}

func evalHeadingTextSet(c *HeadingTextSet, text string) bool {
	set := c.normalized
	if set == nil {
		set = normalizeSet(c.Keywords)
	}
	if c.StripNumbering {
		text = StripNumberingPrefix(text)
	}
	key := NormalizeHeading(text)
	if key == "" {
		return false
	}
	_, ok := set[key]
	return ok
}

func evalStyleSet(c *StyleSet, style string) bool {
	if style == "" {
		return false
	}
	s := strings.ToLower(style)
	for _, p := range c.Patterns {
		p = strings.ToLower(p)
		if p == "" {
			continue
		}
		if c.ContainsAny && strings.Contains(s, p) {
			return true
		}
		if !c.ContainsAny && s == p {
			return true
		}
	}
	return false
}

func anchor(pattern string, mode PatternMode) string {
	switch mode {
	case PatternFullMatch:
		return `^(?:` + pattern + `)$`
	case PatternStartsWith:
		return `^(?:` + pattern + `)`
	default:
		return pattern
	}
}

func compileRegex(pattern string, caseSensitive bool) *regexp2.Regexp {
	var opts regexp2.RegexOptions = regexp2.IgnoreCase
	if caseSensitive {
		opts = regexp2.None
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil
	}
	re.MatchTimeout = regexTimeout
	return re
}

func regexMatch(re *regexp2.Regexp, s string) bool {
	if re == nil {
		return false
	}
	ok, err := re.MatchString(s)
	return err == nil && ok
}

func normalizeSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		if key := NormalizeHeading(kw); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func containsFold(set []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func containsSection(set []SectionType, s SectionType) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Describe renders a condition for rule listings and traces
func Describe(c Condition) string {
	switch c := c.(type) {
	case nil:
		return "<nil>"
	case *StyleMatch:
		return fmt.Sprintf("style %s %q", matchModeName(c.Mode), c.Pattern)
	case *FontMatch:
		return fmt.Sprintf("font in [%s]", strings.Join(c.Fonts, ", "))
	case *Shading:
		return fmt.Sprintf("gray shading in (%d, %d)", c.MinBrightness, c.MaxBrightness)
	case *Formatting:
		var parts []string
		if c.Bold != nil {
			parts = append(parts, "bold="+strconv.FormatBool(*c.Bold))
		}
		if c.Italic != nil {
			parts = append(parts, "italic="+strconv.FormatBool(*c.Italic))
		}
		if c.Caps != nil {
			parts = append(parts, "caps="+strconv.FormatBool(*c.Caps))
		}
		if c.MinFontSize != nil {
			parts = append(parts, fmt.Sprintf("size>=%g", *c.MinFontSize))
		}
		if c.MaxFontSize != nil {
			parts = append(parts, fmt.Sprintf("size<=%g", *c.MaxFontSize))
		}
		return "formatting(" + strings.Join(parts, " ") + ")"
	case *ContentPattern:
		return fmt.Sprintf("text %s /%s/", patternModeName(c.Mode), c.Pattern)
	case *Numbering:
		var parts []string
		if c.HasNumbering != nil {
			parts = append(parts, "has="+strconv.FormatBool(*c.HasNumbering))
		}
		if c.IsNumbered != nil {
			parts = append(parts, "ordered="+strconv.FormatBool(*c.IsNumbered))
		}
		return "numbering(" + strings.Join(parts, " ") + ")"
	case *FormatElements:
		var parts []string
		if c.HasMath != nil {
			parts = append(parts, "math="+strconv.FormatBool(*c.HasMath))
		}
		if c.HasDrawing != nil {
			parts = append(parts, "drawing="+strconv.FormatBool(*c.HasDrawing))
		}
		if c.HasPageBreak != nil {
			parts = append(parts, "pagebreak="+strconv.FormatBool(*c.HasPageBreak))
		}
		return "elements(" + strings.Join(parts, " ") + ")"
	case *SectionContext:
		var parts []string
		if len(c.Allowed) > 0 {
			parts = append(parts, "in="+joinSections(c.Allowed))
		}
		if len(c.Disallowed) > 0 {
			parts = append(parts, "not-in="+joinSections(c.Disallowed))
		}
		if c.InAbstract != nil {
			parts = append(parts, "abstract="+strconv.FormatBool(*c.InAbstract))
		}
		return "section(" + strings.Join(parts, " ") + ")"
	case *Indent:
		var parts []string
		if c.MinIndent != nil {
			parts = append(parts, fmt.Sprintf("indent>=%d", *c.MinIndent))
		}
		if c.HasLeftBorder != nil {
			parts = append(parts, "left-border="+strconv.FormatBool(*c.HasLeftBorder))
		}
		return "indent(" + strings.Join(parts, " ") + ")"
	case *HeadingTextSet:
		return fmt.Sprintf("heading text in %d keywords", len(c.Keywords))
	case *StyleSet:
		if c.ContainsAny {
			return fmt.Sprintf("style contains any [%s]", strings.Join(c.Patterns, ", "))
		}
		return fmt.Sprintf("style in [%s]", strings.Join(c.Patterns, ", "))
	case *Always:
		return "always"
	case *Composite:
		parts := make([]string, len(c.Children))
		for i, child := range c.Children {
			parts[i] = Describe(child)
		}
		sep := " AND "
		if c.Mode == Or {
			sep = " OR "
		}
		return "(" + strings.Join(parts, sep) + ")"
	case *Not:
		return "NOT " + Describe(c.Child)
	case *Custom:
		return c.Name
	default:
		return fmt.Sprintf("%T", c)
	}
}

func joinSections(set []SectionType) string {
	names := make([]string, len(set))
	for i, s := range set {
		names[i] = s.String()
	}
	return strings.Join(names, "|")
}

func matchModeName(m MatchMode) string {
	switch m {
	case MatchExact:
		return "="
	case MatchContains:
		return "contains"
	case MatchStartsWith:
		return "starts-with"
	case MatchRegex:
		return "~"
	default:
		return "?"
	}
}

func patternModeName(m PatternMode) string {
	switch m {
	case PatternFullMatch:
		return "matches"
	case PatternContains:
		return "contains"
	case PatternStartsWith:
		return "starts-with"
	default:
		return "?"
	}
}
