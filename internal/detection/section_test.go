package detection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionTracker(t *testing.T) {
	t.Run("Initial state", func(t *testing.T) {
		tr := NewSectionTracker(nil)
		assert.Equal(t, TrackerState{CurrentSection: SectionUnknown}, tr.State())
		assert.Equal(t, 0, tr.LastHeadingLevel())
	})

	t.Run("Transitions", func(t *testing.T) {
		tr := NewSectionTracker(nil)

		steps := []struct {
			heading  string
			level    int
			expected TrackerState
		}{
			{"Abstract", 1, TrackerState{SectionAbstract, true}},
			{"Some Unnumbered Title", 2, TrackerState{SectionAbstract, false}},
			{"1. Introduction", 1, TrackerState{SectionIntroduction, false}},
			{"1.1 Motivation", 2, TrackerState{SectionIntroduction, false}},
			{"Zusammenfassung", 1, TrackerState{SectionAbstract, true}},
			{"References", 1, TrackerState{SectionReferences, false}},
		}
		for _, step := range steps {
			tr.OnHeadingEncountered(step.heading, step.level)
			assert.Equal(t, step.expected, tr.State(), step.heading)
			assert.Equal(t, step.level, tr.LastHeadingLevel())
		}
	})

	t.Run("EndAbstractSection only clears the flag", func(t *testing.T) {
		tr := NewSectionTracker(nil)
		tr.OnHeadingEncountered("Abstract", 1)
		tr.EndAbstractSection()
		assert.Equal(t, TrackerState{CurrentSection: SectionAbstract}, tr.State())

		tr.EndAbstractSection()
		assert.Equal(t, TrackerState{CurrentSection: SectionAbstract}, tr.State())
	})

	t.Run("Reset", func(t *testing.T) {
		tr := NewSectionTracker(nil)
		tr.OnHeadingEncountered("Abstract", 2)
		tr.Reset()
		assert.Equal(t, TrackerState{}, tr.State())
		assert.Equal(t, 0, tr.LastHeadingLevel())
	})

	t.Run("Custom registry", func(t *testing.T) {
		kw := DefaultKeywords().With(map[SectionType][]string{SectionMethods: {"Approach"}})
		tr := NewSectionTracker(kw)
		tr.OnHeadingEncountered("3 Approach", 1)
		assert.Equal(t, SectionMethods, tr.CurrentSection())
	})
}

func TestTrackerStateJSON(t *testing.T) {
	data, err := json.Marshal(TrackerState{CurrentSection: SectionReferences})
	require.NoError(t, err)
	assert.JSONEq(t, `{"current_section":"References","in_abstract_section":false}`, string(data))
}
