package detection

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// KeywordRegistry maps normalized heading texts to section types.
//
// A registry is immutable once built; With returns an extended copy, so one
// instance can be shared by any number of concurrent pipelines.
type KeywordRegistry struct {
	bySection map[SectionType][]string
	lookup    map[string]SectionType
}

var defaultKeywords = buildKeywordRegistry(builtinKeywords)

// DefaultKeywords returns the process wide built-in registry
func DefaultKeywords() *KeywordRegistry {
	return defaultKeywords
}

func buildKeywordRegistry(src map[SectionType][]string) *KeywordRegistry {
	r := &KeywordRegistry{
		bySection: make(map[SectionType][]string, len(src)),
		lookup:    make(map[string]SectionType),
	}
	// Declaration order keeps duplicate resolution deterministic.
	for _, section := range AllSections() {
		for _, kw := range src[section] {
			r.add(section, kw)
		}
	}
	return r
}

func (r *KeywordRegistry) add(section SectionType, keyword string) {
	key := NormalizeHeading(keyword)
	if key == "" {
		return
	}
	if _, exists := r.lookup[key]; exists {
		return
	}
	r.lookup[key] = section
	r.bySection[section] = append(r.bySection[section], key)
}

// With returns a copy of the registry extended with extra keywords
func (r *KeywordRegistry) With(extra map[SectionType][]string) *KeywordRegistry {
	out := &KeywordRegistry{
		bySection: make(map[SectionType][]string, len(r.bySection)),
		lookup:    make(map[string]SectionType, len(r.lookup)),
	}
	for section, kws := range r.bySection {
		out.bySection[section] = append([]string(nil), kws...)
	}
	for k, v := range r.lookup {
		out.lookup[k] = v
	}
	for _, section := range AllSections() {
		for _, kw := range extra[section] {
			out.add(section, kw)
		}
	}
	return out
}

// Keywords returns the normalized keywords of one section, sorted
func (r *KeywordRegistry) Keywords(section SectionType) []string {
	out := append([]string(nil), r.bySection[section]...)
	sort.Strings(out)
	return out
}

// Size returns the number of distinct keywords
func (r *KeywordRegistry) Size() int {
	return len(r.lookup)
}

// Classify maps heading text to a section, ignoring case, numbering prefixes and
// trailing punctuation. Appendix headings may carry a short label ("Appendix A").
func (r *KeywordRegistry) Classify(text string) (SectionType, bool) {
	key := NormalizeHeading(StripNumberingPrefix(text))
	if key == "" {
		return SectionUnknown, false
	}
	if section, ok := r.lookup[key]; ok {
		return section, true
	}
	if i := strings.LastIndexByte(key, ' '); i > 0 && isSectionLabel(key[i+1:]) {
		if section, ok := r.lookup[key[:i]]; ok && section == SectionAppendix {
			return section, true
		}
	}
	return SectionUnknown, false
}

// IsKeyword reports whether the text is exactly one of the section's keywords
func (r *KeywordRegistry) IsKeyword(section SectionType, text string) bool {
	s, ok := r.lookup[NormalizeHeading(text)]
	return ok && s == section
}

func isSectionLabel(s string) bool {
	if s == "" || len([]rune(s)) > 3 {
		return false
	}
	for _, c := range s {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// NormalizeHeading folds heading text for keyword comparison: NFC, full-width to
// half-width, Unicode case folding, collapsed whitespace, trailing ':' '.' removed.
func NormalizeHeading(text string) string {
	s := norm.NFC.String(width.Fold.String(text))
	s = cases.Fold().String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ":.：。 ")
}

var numberingPrefixes = []*regexp2.Regexp{
	regexp2.MustCompile(`^\d+(?:[.\-]\d+)*[.)]?\s+`, regexp2.None),
	// "1.Introduction", also the folded form of "１．Introduction"
	regexp2.MustCompile(`^\d+(?:[.\-]\d+)*[.)、](?=\p{L})`, regexp2.None),
	// uppercase only, so words like "Dim." keep their text
	regexp2.MustCompile(`^[IVXLCDM]+[.)]\s+`, regexp2.None),
	regexp2.MustCompile(`^[A-Z][.)]\s+`, regexp2.None),
	regexp2.MustCompile(`^第[0-9一二三四五六七八九十百]+[章节節部]\s*`, regexp2.None),
	regexp2.MustCompile(`^[一二三四五六七八九十]+[、.]\s*`, regexp2.None),
}

// StripNumberingPrefix removes leading section numbering such as "1.1 ", "IV. ",
// "A. " or "第2章". Prefixes are removed until none is left, so the function is
// idempotent.
func StripNumberingPrefix(text string) string {
	s := strings.TrimSpace(width.Fold.String(text))
	for {
		stripped := false
		for _, re := range numberingPrefixes {
			m, err := re.FindStringMatch(s)
			if err != nil || m == nil || m.Length == 0 {
				continue
			}
			// regexp2 reports rune offsets
			rest := strings.TrimSpace(string([]rune(s)[m.Index+m.Length:]))
			if rest == "" {
				continue
			}
			s = rest
			stripped = true
			break
		}
		if !stripped {
			return s
		}
	}
}
