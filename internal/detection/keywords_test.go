package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHeading(t *testing.T) {
	kw := DefaultKeywords()

	tests := []struct {
		text     string
		expected SectionType
	}{
		{"Introduction", SectionIntroduction},
		{"1. Introduction", SectionIntroduction},
		{"I. INTRODUCTION", SectionIntroduction},
		{"2.3 Methods", SectionMethods},
		{"A. Results and Discussion", SectionResults},
		{"ABSTRACT:", SectionAbstract},
		{"Summary", SectionAbstract},
		{"Einleitung", SectionIntroduction},
		{"Literaturverzeichnis", SectionReferences},
		{"Résumé", SectionAbstract},
		{"Введение", SectionIntroduction},
		{"参考文献", SectionReferences},
		{"第1章 引言", SectionIntroduction},
		{"一、摘要", SectionAbstract},
		{"Appendix", SectionAppendix},
		{"Appendix A", SectionAppendix},
		{"Anhang B", SectionAppendix},
		{"Acknowledgments", SectionAcknowledgements},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			section, ok := kw.Classify(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.expected, section)
		})
	}

	t.Run("Unknown headings", func(t *testing.T) {
		for _, text := range []string{"", "   ", "A Study of Things", "Introduction to the problem", "Methods A B C D"} {
			_, ok := kw.Classify(text)
			assert.False(t, ok, text)
		}
	})

	t.Run("Stable across registries", func(t *testing.T) {
		other := DefaultKeywords().With(nil)
		for _, text := range []string{"2. Related Work", "Conclusions", "References"} {
			s1, ok1 := kw.Classify(text)
			s2, ok2 := other.Classify(text)
			assert.Equal(t, ok1, ok2)
			assert.Equal(t, s1, s2)
		}
	})
}

func TestKeywordRegistryConsistency(t *testing.T) {
	kw := DefaultKeywords()

	t.Run("No keyword belongs to two sections", func(t *testing.T) {
		seen := make(map[string]SectionType)
		for _, section := range AllSections() {
			for _, k := range kw.Keywords(section) {
				prev, dup := seen[k]
				assert.False(t, dup, "%q in %s and %s", k, prev, section)
				seen[k] = section
			}
		}
		assert.Equal(t, kw.Size(), len(seen))
	})

	t.Run("Every section has keywords", func(t *testing.T) {
		for _, section := range AllSections() {
			assert.NotEmpty(t, kw.Keywords(section), section.String())
		}
	})

	t.Run("With returns an extended copy", func(t *testing.T) {
		extended := kw.With(map[SectionType][]string{
			SectionMethods:  {"Our Approach"},
			SectionAbstract: {"summary"},
		})

		s, ok := extended.Classify("3 Our approach")
		require.True(t, ok)
		assert.Equal(t, SectionMethods, s)

		_, ok = kw.Classify("Our approach")
		assert.False(t, ok, "the shared registry must not change")
		assert.Equal(t, kw.Size()+1, extended.Size(), "existing keywords are not duplicated")
	})

	t.Run("Numbering prefixes", func(t *testing.T) {
		s, ok := kw.Classify("１．Introduction")
		require.True(t, ok)
		assert.Equal(t, SectionIntroduction, s)

		s, ok = kw.Classify("IV. Results")
		require.True(t, ok)
		assert.Equal(t, SectionResults, s)

		_, ok = kw.Classify("Dim. Results")
		assert.False(t, ok, "a word made of roman numeral letters is not numbering")
	})

	t.Run("IsKeyword", func(t *testing.T) {
		assert.True(t, kw.IsKeyword(SectionAbstract, " Abstract. "))
		assert.False(t, kw.IsKeyword(SectionReferences, "Abstract"))
		assert.False(t, kw.IsKeyword(SectionAbstract, "1. Abstract"))
	})
}

func TestStripNumberingPrefix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 Introduction", "Introduction"},
		{"1. Introduction", "Introduction"},
		{"1.2.3 Methods", "Methods"},
		{"1-2 Methods", "Methods"},
		{"IV. Results", "Results"},
		{"B) Appendix", "Appendix"},
		{"第2章 方法", "方法"},
		{"三、结论", "结论"},
		{"１ Introduction", "Introduction"},
		{"１．Introduction", "Introduction"},
		{"2.Methods", "Methods"},
		{"3、结论", "结论"},
		{"Dim. Results", "Dim. Results"},
		{"Mix) Design", "Mix) Design"},
		{"1.5x faster", "1.5x faster"},
		{"1. A. Nested", "Nested"},
		{"2020", "2020"},
		{"1.", "1."},
		{"Introduction", "Introduction"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			once := StripNumberingPrefix(tt.input)
			assert.Equal(t, tt.expected, once)
			assert.Equal(t, once, StripNumberingPrefix(once), "stripping twice changes nothing further")
		})
	}
}

func TestNormalizeHeading(t *testing.T) {
	assert.Equal(t, "results and discussion", NormalizeHeading("  Results   and\tDiscussion: "))
	assert.Equal(t, "abstract", NormalizeHeading("ＡＢＳＴＲＡＣＴ"))
	assert.Equal(t, "摘要", NormalizeHeading("摘要："))
	assert.Equal(t, "", NormalizeHeading(" .: "))
}

func TestParseSectionType(t *testing.T) {
	for _, name := range []string{"LiteratureReview", "literature_review", "Literature Review", "literature-review"} {
		s, err := ParseSectionType(name)
		require.NoError(t, err, name)
		assert.Equal(t, SectionLiteratureReview, s)
	}

	_, err := ParseSectionType("epilogue")
	assert.ErrorIs(t, err, ErrUnknownSection)

	for _, s := range AllSections() {
		parsed, err := ParseSectionType(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}
