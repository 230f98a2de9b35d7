package detection

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxRawTextLength bounds TraceEntry.RawText, in characters
const MaxRawTextLength = 500

// Outcome classifies how a body element was handled
type Outcome string

const (
	OutcomeMatched      Outcome = "Matched"
	OutcomeDropped      Outcome = "Dropped"
	OutcomeNonParagraph Outcome = "NonParagraph"
)

// NoRule is recorded as the matched rule id when nothing matched
const NoRule = "none"

// Trace notes
const (
	NoteConsumedWithoutOutput = "Consumed without output"
	NoteNoRuleMatched         = "No rule matched"
	NotePageBreakWithText     = "Page break kept with the paragraph text"

	// NoteRuleFailedPrefix starts the note recorded when a rule panics
	NoteRuleFailedPrefix = "rule failed: "
)

// RuleFailureNote formats the note for a rule whose condition or builder failed
func RuleFailureNote(ruleID string, err error) string {
	return fmt.Sprintf("%s%s: %v", NoteRuleFailedPrefix, ruleID, err)
}

// IsRuleFailureNote reports whether a trace note records a failed rule
func IsRuleFailureNote(note string) bool {
	return strings.HasPrefix(note, NoteRuleFailedPrefix)
}

// TraceFeatures is the subset of the snapshot shown in diagnostics
type TraceFeatures struct {
	Style             string      `json:"style,omitempty"`
	Font              string      `json:"font,omitempty"`
	FontSize          float64     `json:"font_size,omitempty"`
	Bold              bool        `json:"bold,omitempty"`
	Italic            bool        `json:"italic,omitempty"`
	Caps              bool        `json:"caps,omitempty"`
	HasNumbering      bool        `json:"has_numbering,omitempty"`
	HasMath           bool        `json:"has_math,omitempty"`
	HasDrawing        bool        `json:"has_drawing,omitempty"`
	HasPageBreak      bool        `json:"has_page_break,omitempty"`
	Shading           string      `json:"shading,omitempty"`
	OutlineLevel      *int        `json:"outline_level,omitempty"`
	LeftIndent        int         `json:"left_indent,omitempty"`
	HasLeftBorder     bool        `json:"has_left_border,omitempty"`
	Section           SectionType `json:"section"`
	InAbstractSection bool        `json:"in_abstract_section,omitempty"`
}

// TraceEntry records how one body element was classified
type TraceEntry struct {
	BodyIndex        int           `json:"body_index"`
	RawText          string        `json:"raw_text"`
	FullText         string        `json:"full_text"`
	Features         TraceFeatures `json:"features"`
	MatchedRuleID    string        `json:"matched_rule_id"`
	MatchedRuleName  string        `json:"matched_rule_name"`
	DetectedKind     ElementKind   `json:"detected_kind"`
	Outcome          Outcome       `json:"outcome"`
	ElementsProduced int           `json:"elements_produced"`
	Notes            []string      `json:"notes,omitempty"`
}

func featuresOf(a *ParagraphAnalysis) TraceFeatures {
	return TraceFeatures{
		Style:             a.StyleID,
		Font:              a.FontFamily,
		FontSize:          a.FontSize,
		Bold:              a.AllBold,
		Italic:            a.AllItalic,
		Caps:              a.AllCaps,
		HasNumbering:      a.HasNumbering,
		HasMath:           a.HasMath,
		HasDrawing:        a.HasDrawing,
		HasPageBreak:      a.HasPageBreak,
		Shading:           a.ShadingFill,
		OutlineLevel:      a.OutlineLevel,
		LeftIndent:        a.LeftIndent,
		HasLeftBorder:     a.HasLeftBorder,
		Section:           a.CurrentSection,
		InAbstractSection: a.InAbstractSection,
	}
}

// truncateRunes cuts s to at most n characters
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
