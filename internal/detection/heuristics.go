package detection

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

func mustRegex(pattern string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, opts)
	re.MatchTimeout = regexTimeout
	return re
}

var (
	headingStyleRe   = mustRegex(`^(?:heading|titre|überschrift|kop)\s*(\d)$`, regexp2.IgnoreCase)
	styleLevelRe     = mustRegex(`(?:section|chapter)\D*(\d+)$`, regexp2.IgnoreCase)
	numberedPrefixRe = mustRegex(`^(\d+(?:\.\d+){0,5})\.?\s+\S`, regexp2.None)
	romanPrefixRe    = mustRegex(`^[IVXLC]+\.\s+\S`, regexp2.None)

	theoremLabelRe = mustRegex(
		`^(theorem|lemma|proposition|corollary|conjecture|definition|example|remark|proof|axiom|assumption)\b(?:\s+(\d+(?:\.\d+)*))?`,
		regexp2.IgnoreCase)

	bracketLabelRe   = mustRegex(`^\[(\d+)\]`, regexp2.None)
	numberedEntryRe  = mustRegex(`^\d+\.\s`, regexp2.None)
	authorYearRe     = mustRegex(`^\p{Lu}[\p{L}'’\-]+,?\s.*\((?:1[5-9]|20)\d{2}[a-z]?\)`, regexp2.None)
	bulletCharRe     = mustRegex(`^[•●○◦▪■‣\-–*]\s+`, regexp2.None)
	manualNumberRe   = mustRegex(`^(?:\d{1,3}[.)]|\(\d{1,3}\)|[a-z]\)|\([a-z]\))\s+`, regexp2.None)
	pageNumberTailRe = mustRegex(`(?:\t|\.{3,}|…)\s*\d+$`, regexp2.None)
)

// findGroups returns the match and its groups, or nil
func findGroups(re *regexp2.Regexp, s string) []string {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil
	}
	groups := m.Groups()
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.String()
	}
	return out
}

// headingLevelFromStyle reads N from Heading<N> style ids
func headingLevelFromStyle(style string) (int, bool) {
	g := findGroups(headingStyleRe, strings.TrimSpace(style))
	if g == nil {
		return 0, false
	}
	level, err := strconv.Atoi(g[1])
	if err != nil {
		return 0, false
	}
	return level, true
}

// customHeadingLevel handles custom title/section/chapter styles: level 1 unless
// a section or chapter style ends in a level number 1..6.
func customHeadingLevel(style string) int {
	if g := findGroups(styleLevelRe, style); g != nil {
		if n, err := strconv.Atoi(g[1]); err == nil && n >= 1 && n <= 6 {
			return n
		}
	}
	return 1
}

// formattingHeadingLevel guesses a heading level from formatting alone.
//
//	"1.2 Title"      bold or size >= minSize    level = number depth (1..6)
//	"IV. Title"      bold or size >= minSize    level 1
//	ALL CAPS line    bold or size >= minSize    level 1 at size >= largeSize+2, else 2
//	bold line        size >= largeSize          20pt+ -> 1, 16pt+ -> 2, else 3
func formattingHeadingLevel(a *ParagraphAnalysis, opts Options) (int, bool) {
	text := a.TrimmedText()
	if text == "" || utf8.RuneCountInString(text) > opts.MaxHeadingLength {
		return 0, false
	}
	emphasized := a.AllBold || (a.FontSize > 0 && a.FontSize >= opts.HeadingMinFontSize)

	if g := findGroups(numberedPrefixRe, text); g != nil && emphasized {
		depth := strings.Count(g[1], ".") + 1
		if depth > 6 {
			depth = 6
		}
		return depth, true
	}
	if ok, _ := romanPrefixRe.MatchString(text); ok && emphasized {
		return 1, true
	}
	if emphasized && isCapsLine(a, text) && utf8.RuneCountInString(text) <= 80 {
		if a.FontSize >= opts.HeadingLargeFontSize+2 {
			return 1, true
		}
		return 2, true
	}
	if a.AllBold && a.FontSize >= opts.HeadingLargeFontSize && !endsSentence(text) {
		switch {
		case a.FontSize >= 20:
			return 1, true
		case a.FontSize >= 16:
			return 2, true
		default:
			return 3, true
		}
	}
	return 0, false
}

func isCapsLine(a *ParagraphAnalysis, text string) bool {
	if a.AllCaps {
		return true
	}
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 2
}

func endsSentence(text string) bool {
	return strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "..")
}

// classifyTheoremKind maps an environment name or style to one of 14 kinds
func classifyTheoremKind(name string) TheoremKind {
	n := strings.ToLower(name)
	for _, k := range []struct {
		needle string
		kind   TheoremKind
	}{
		{"lemma", TheoremLemma},
		{"proposition", TheoremProposition},
		{"corollary", TheoremCorollary},
		{"conjecture", TheoremConjecture},
		{"definition", TheoremDefinition},
		{"example", TheoremExample},
		{"remark", TheoremRemark},
		{"proof", TheoremProof},
		{"axiom", TheoremAxiom},
		{"assumption", TheoremAssumption},
		{"claim", TheoremClaim},
		{"hypothesis", TheoremHypothesis},
		{"notation", TheoremNotation},
	} {
		if strings.Contains(n, k.needle) {
			return k.kind
		}
	}
	return TheoremTheorem
}

// splitTheoremLabel parses "Theorem 2.1. Body" into keyword, number and body
func splitTheoremLabel(text string) (keyword, number, body string, ok bool) {
	text = strings.TrimSpace(text)
	m, err := theoremLabelRe.FindStringMatch(text)
	if err != nil || m == nil {
		return "", "", "", false
	}
	groups := m.Groups()
	keyword = groups[1].String()
	number = groups[2].String()
	rest := string([]rune(text)[m.Index+m.Length:])
	body = strings.TrimSpace(strings.TrimLeft(rest, " .:\t"))
	return keyword, number, body, true
}

// bibliographyLabel extracts N from a "[N]" prefix
func bibliographyLabel(text string) string {
	if g := findGroups(bracketLabelRe, strings.TrimSpace(text)); g != nil {
		return g[1]
	}
	return ""
}

func looksLikeBibliographyEntry(a *ParagraphAnalysis, hangingIndent int) bool {
	text := a.TrimmedText()
	if text == "" {
		return false
	}
	for _, re := range []*regexp2.Regexp{bracketLabelRe, numberedEntryRe, authorYearRe} {
		if ok, err := re.MatchString(text); err == nil && ok {
			return true
		}
	}
	return a.LeftIndent >= hangingIndent && utf8.RuneCountInString(text) > 20
}

// stripListMarker removes a typed bullet or manual number
func stripListMarker(re *regexp2.Regexp, text string) string {
	text = strings.TrimSpace(text)
	m, err := re.FindStringMatch(text)
	if err != nil || m == nil {
		return text
	}
	return strings.TrimSpace(string([]rune(text)[m.Index+m.Length:]))
}

var codeLanguageHints = []struct {
	language string
	markers  []string
}{
	{"go", []string{"package main", "func ", ":= "}},
	{"python", []string{"def ", "import ", "elif ", "print("}},
	{"java", []string{"public class ", "public static void", "System.out."}},
	{"c", []string{"#include", "int main(", "printf("}},
	{"javascript", []string{"function ", "const ", "console.log", "=> {"}},
	{"sql", []string{"SELECT ", "INSERT INTO", "CREATE TABLE", "UPDATE "}},
	{"bash", []string{"#!/bin/", "echo ", "sudo ", "$ "}},
	{"html", []string{"<html", "<div", "</"}},
}

var styleLanguages = []string{"python", "java", "javascript", "typescript", "go", "c++", "cpp", "c#", "csharp", "sql", "bash", "shell", "html", "xml", "json", "yaml", "rust", "ruby", "matlab", "r"}

// guessCodeLanguage looks at a "Code-Python" style suffix first, then sniffs content
func guessCodeLanguage(style, text string) string {
	s := strings.ToLower(style)
	for _, sep := range []string{"-", "_", " "} {
		if i := strings.LastIndex(s, sep); i >= 0 {
			suffix := s[i+1:]
			for _, lang := range styleLanguages {
				if suffix == lang {
					return lang
				}
			}
		}
	}
	for _, hint := range codeLanguageHints {
		for _, marker := range hint.markers {
			if strings.Contains(text, marker) {
				return hint.language
			}
		}
	}
	return ""
}
