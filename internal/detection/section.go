package detection

import (
	"errors"
	"fmt"
	"strings"
)

// SectionType is the closed set of document sections the tracker knows about
type SectionType int

const (
	SectionUnknown SectionType = iota
	SectionAbstract
	SectionIntroduction
	SectionMethods
	SectionResults
	SectionDiscussion
	SectionConclusion
	SectionReferences
	SectionAcknowledgements
	SectionAppendix
	SectionBackground
	SectionLiteratureReview
	SectionTableOfContents
	SectionListOfFigures
	SectionListOfTables
)

var sectionNames = [...]string{
	SectionUnknown:          "Unknown",
	SectionAbstract:         "Abstract",
	SectionIntroduction:     "Introduction",
	SectionMethods:          "Methods",
	SectionResults:          "Results",
	SectionDiscussion:       "Discussion",
	SectionConclusion:       "Conclusion",
	SectionReferences:       "References",
	SectionAcknowledgements: "Acknowledgements",
	SectionAppendix:         "Appendix",
	SectionBackground:       "Background",
	SectionLiteratureReview: "LiteratureReview",
	SectionTableOfContents:  "TableOfContents",
	SectionListOfFigures:    "ListOfFigures",
	SectionListOfTables:     "ListOfTables",
}

// AllSections lists every known section except Unknown, in declaration order
func AllSections() []SectionType {
	out := make([]SectionType, 0, len(sectionNames)-1)
	for s := SectionAbstract; int(s) < len(sectionNames); s++ {
		out = append(out, s)
	}
	return out
}

func (s SectionType) String() string {
	if s < 0 || int(s) >= len(sectionNames) {
		return sectionNames[SectionUnknown]
	}
	return sectionNames[s]
}

// MarshalText lets sections appear by name in JSON reports
func (s SectionType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrUnknownSection is returned by ParseSectionType for names outside the closed set
var ErrUnknownSection = errors.New("unknown section type")

// ParseSectionType accepts the canonical name in any case, with or without
// underscores ("literature_review", "LiteratureReview").
func ParseSectionType(name string) (SectionType, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
	for i, n := range sectionNames {
		if strings.ToLower(n) == key {
			return SectionType(i), nil
		}
	}
	return SectionUnknown, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// SectionTracker records which section the detection walk is in.
//
// It is mutated only by rule callbacks, never by conditions.
type SectionTracker struct {
	keywords   *KeywordRegistry
	current    SectionType
	inAbstract bool
	lastLevel  int
}

// NewSectionTracker creates a tracker classifying headings with the given registry.
// A nil registry uses DefaultKeywords.
func NewSectionTracker(keywords *KeywordRegistry) *SectionTracker {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	return &SectionTracker{keywords: keywords}
}

// CurrentSection returns the section of the most recent classified heading
func (t *SectionTracker) CurrentSection() SectionType { return t.current }

// InAbstractSection reports whether paragraphs currently belong to an abstract
func (t *SectionTracker) InAbstractSection() bool { return t.inAbstract }

// LastHeadingLevel returns the level passed with the last heading, 0 before any
func (t *SectionTracker) LastHeadingLevel() int { return t.lastLevel }

// OnHeadingEncountered moves the tracker according to the heading text.
// Unclassified headings keep the current section but always end an abstract.
func (t *SectionTracker) OnHeadingEncountered(text string, level int) {
	t.lastLevel = level
	section, ok := t.keywords.Classify(text)
	switch {
	case !ok:
		t.inAbstract = false
	case section == SectionAbstract:
		t.current = SectionAbstract
		t.inAbstract = true
	default:
		t.current = section
		t.inAbstract = false
	}
}

// EndAbstractSection clears the in-abstract flag and nothing else
func (t *SectionTracker) EndAbstractSection() {
	t.inAbstract = false
}

// Reset returns the tracker to its initial state
func (t *SectionTracker) Reset() {
	t.current = SectionUnknown
	t.inAbstract = false
	t.lastLevel = 0
}

// TrackerState is a value copy of the tracker, used in reports and tests
type TrackerState struct {
	CurrentSection    SectionType `json:"current_section"`
	InAbstractSection bool        `json:"in_abstract_section"`
}

// State snapshots the tracker
func (t *SectionTracker) State() TrackerState {
	return TrackerState{CurrentSection: t.current, InAbstractSection: t.inAbstract}
}
