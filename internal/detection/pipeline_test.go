package detection

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleDocument() []*ParagraphAnalysis {
	return []*ParagraphAnalysis{
		{StyleID: "Title", Text: "A Study of Things"},
		{StyleID: "Title", Text: "Abstract"},
		{StyleID: "Normal", Text: "We study things."},
		{StyleID: "Heading1", Text: "1. Introduction"},
		{StyleID: "Normal", Text: "Things matter."},
		{StyleID: "Normal", Text: ""},
		{StyleID: "ListParagraph", Text: "first", HasNumbering: true, NumberingKind: NumberingBullet},
		{StyleID: "Code", FontFamily: "Consolas", Text: "fmt.Println(1)"},
		{HasMath: true, MathNodes: []MathNode{{LaTeX: "x^2"}}},
		{HasDrawing: true, Images: []ImageRef{{Target: "media/image1.png"}}},
		{StyleID: "Heading1", Text: "References"},
		{StyleID: "Normal", Text: "[1] Doe, J. (2021). Things. Press."},
		{HasPageBreak: true},
	}
}

func runAll(p *Pipeline, doc []*ParagraphAnalysis) []Element {
	var out []Element
	for _, a := range doc {
		elements, _ := p.Process(a)
		out = append(out, elements...)
	}
	return out
}

func staticRule(id string, priority int, text string) Rule {
	return Rule{
		ID:       id,
		Name:     id,
		Priority: priority,
		Target:   KindParagraph,
		When:     &Always{},
		Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
			return []Element{&Paragraph{Position: Position{ctx.NextIndex()}, Text: text}}, true
		},
	}
}

func TestPipelineDeterminism(t *testing.T) {
	p1 := NewPipeline(PipelineOptions{Detection: DefaultOptions()}, zap.NewNop())
	p2 := NewPipeline(PipelineOptions{Detection: DefaultOptions()}, zap.NewNop())

	out1 := runAll(p1, sampleDocument())
	out2 := runAll(p2, sampleDocument())

	require.NotEmpty(t, out1)
	assert.Equal(t, out1, out2)
	assert.Equal(t, p1.Tracker().State(), p2.Tracker().State())
	assert.Equal(t, p1.Trace(), p2.Trace())
}

func TestConcurrentPipelines(t *testing.T) {
	keywords := DefaultKeywords().With(map[SectionType][]string{SectionMethods: {"Our Approach"}})
	shared := []Rule{
		{
			ID:       "note",
			Priority: 5,
			Target:   KindParagraph,
			When:     &ContentPattern{Pattern: `^note:`, Mode: PatternStartsWith},
			Build: func(ctx *BuildContext, a *ParagraphAnalysis) ([]Element, bool) {
				return []Element{&Paragraph{Position: Position{ctx.NextIndex()}, Text: a.Text}}, true
			},
		},
	}
	opts := PipelineOptions{Detection: DefaultOptions(), CustomRules: shared, Keywords: keywords}
	doc := func() []*ParagraphAnalysis {
		return append(sampleDocument(),
			&ParagraphAnalysis{StyleID: "Heading1", Text: "2. Our Approach"},
			&ParagraphAnalysis{Text: "Note: shared rules"},
		)
	}

	baseline := NewPipeline(opts, zap.NewNop())
	want := runAll(baseline, doc())
	require.NotEmpty(t, want)

	const workers = 8
	got := make([][]Element, workers)
	states := make([]TrackerState, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := NewPipeline(opts, zap.NewNop())
			got[i] = runAll(p, doc())
			states[i] = p.Tracker().State()
		}(i)
	}
	wg.Wait()

	for i := range got {
		assert.Equal(t, want, got[i], "worker %d", i)
		assert.Equal(t, baseline.Tracker().State(), states[i], "worker %d", i)
	}
}

func TestPipelineCoverage(t *testing.T) {
	p := NewPipeline(PipelineOptions{Detection: DefaultOptions()}, nil)
	doc := sampleDocument()
	out := runAll(p, doc)

	trace := p.Trace()
	require.Len(t, trace, len(doc))
	produced := 0
	for i, entry := range trace {
		assert.Equal(t, i, entry.BodyIndex)
		assert.Equal(t, OutcomeMatched, entry.Outcome, "paragraph %d", i)
		assert.NotEqual(t, NoRule, entry.MatchedRuleID)
		produced += entry.ElementsProduced
	}
	assert.Equal(t, len(out), produced)

	for i, el := range out {
		assert.Equal(t, i, el.Order(), "order indices are monotonic")
	}

	assert.Equal(t, TrackerState{CurrentSection: SectionReferences}, p.Tracker().State())
}

func TestPipelineFallthrough(t *testing.T) {
	declines := 0
	decline := Rule{
		ID:       "decline",
		Name:     "Always declines",
		Priority: 1,
		Target:   KindHeading,
		When:     &Always{},
		Build: func(*BuildContext, *ParagraphAnalysis) ([]Element, bool) {
			declines++
			return nil, false
		},
		OnMatch: func(t *SectionTracker, _ *ParagraphAnalysis) {
			t.OnHeadingEncountered("Abstract", 1)
		},
	}
	p := NewPipeline(PipelineOptions{Detection: DefaultOptions(), CustomRules: []Rule{decline}}, zap.NewNop())

	out, ok := p.Process(&ParagraphAnalysis{Text: "plain"})
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, 1, declines)

	entry := p.Trace()[0]
	assert.Equal(t, RuleFallback, entry.MatchedRuleID)
	assert.False(t, p.Tracker().InAbstractSection(), "callbacks of declining rules do not run")
}

func TestPipelineEmptyResult(t *testing.T) {
	calls := 0
	consume := Rule{
		ID:       "consume",
		Name:     "Consume everything",
		Priority: 1,
		Target:   KindParagraph,
		When:     &Always{},
		Build: func(*BuildContext, *ParagraphAnalysis) ([]Element, bool) {
			return nil, true
		},
		OnMatch: func(*SectionTracker, *ParagraphAnalysis) { calls++ },
	}
	p := NewPipeline(PipelineOptions{Detection: DefaultOptions(), CustomRules: []Rule{consume}}, zap.NewNop())

	out, ok := p.Process(&ParagraphAnalysis{StyleID: "Heading1", Text: "Introduction"})
	require.True(t, ok)
	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.Equal(t, 1, calls, "callback runs for an empty final result")

	entry := p.Trace()[0]
	assert.Equal(t, "consume", entry.MatchedRuleID)
	assert.Equal(t, 0, entry.ElementsProduced)
	assert.Equal(t, []string{NoteConsumedWithoutOutput}, entry.Notes)
}

func TestPipelineDropped(t *testing.T) {
	p := NewPipeline(PipelineOptions{
		Detection:       DefaultOptions(),
		DisabledRuleIDs: []string{RuleFallback},
	}, zap.NewNop())

	out, ok := p.Process(&ParagraphAnalysis{Text: ""})
	assert.False(t, ok)
	assert.Nil(t, out)

	entry := p.Trace()[0]
	assert.Equal(t, OutcomeDropped, entry.Outcome)
	assert.Equal(t, NoRule, entry.MatchedRuleID)
	assert.Equal(t, KindUnknown, entry.DetectedKind)
	assert.Contains(t, entry.Notes, NoteNoRuleMatched)
}

func TestPipelinePriorityOrdering(t *testing.T) {
	para := func() *ParagraphAnalysis {
		return &ParagraphAnalysis{StyleID: "Code", FontFamily: "Consolas", ShadingFill: "D9D9D9", Text: "ls"}
	}
	expected := []struct {
		disabled []string
		rule     string
	}{
		{nil, RuleCodeStyle},
		{[]string{RuleCodeStyle}, RuleCodeFont},
		{[]string{RuleCodeStyle, RuleCodeFont}, RuleCodeShading},
		{[]string{RuleCodeStyle, RuleCodeFont, RuleCodeShading}, RuleFallback},
	}

	for _, tt := range expected {
		t.Run(tt.rule, func(t *testing.T) {
			p := NewPipeline(PipelineOptions{Detection: DefaultOptions(), DisabledRuleIDs: tt.disabled}, zap.NewNop())
			_, ok := p.Process(para())
			require.True(t, ok)
			assert.Equal(t, tt.rule, p.Trace()[0].MatchedRuleID)

			defaults := NewPipeline(PipelineOptions{Detection: DefaultOptions()}, zap.NewNop()).Rules()
			var kept []string
			for _, r := range defaults {
				if !contains(tt.disabled, r.ID) {
					kept = append(kept, r.ID)
				}
			}
			assert.Equal(t, kept, ruleIDs(p.Rules()), "other rules keep their order")
		})
	}
}

func TestPipelineRuleMerging(t *testing.T) {
	t.Run("Rules are sorted by priority", func(t *testing.T) {
		p := NewPipeline(PipelineOptions{
			Detection:   DefaultOptions(),
			CustomRules: []Rule{staticRule("late", 950, "late"), staticRule("early", 5, "early")},
		}, zap.NewNop())
		rules := p.Rules()
		for i := 1; i < len(rules); i++ {
			assert.LessOrEqual(t, rules[i-1].Priority, rules[i].Priority)
		}
		assert.Equal(t, "early", rules[0].ID)
		assert.Equal(t, "late", rules[len(rules)-1].ID)
	})

	t.Run("Equal priorities keep registration order", func(t *testing.T) {
		p := NewPipeline(PipelineOptions{
			Detection:   DefaultOptions(),
			CustomRules: []Rule{staticRule("first", 50, "first"), staticRule("second", 50, "second")},
		}, zap.NewNop())
		out, _ := p.Process(&ParagraphAnalysis{Text: "x"})
		assert.Equal(t, "first", out[0].(*Paragraph).Text)
	})

	t.Run("Defaults win ties with custom rules", func(t *testing.T) {
		p := NewPipeline(PipelineOptions{
			Detection:   DefaultOptions(),
			CustomRules: []Rule{staticRule("custom", 100, "custom")},
		}, zap.NewNop())

		out, _ := p.Process(&ParagraphAnalysis{StyleID: "Heading1", Text: "Intro"})
		assert.Equal(t, KindHeading, out[0].Kind())

		out, _ = p.Process(&ParagraphAnalysis{Text: "body"})
		assert.Equal(t, "custom", out[0].(*Paragraph).Text)
	})

	t.Run("Custom rule replaces a default by id", func(t *testing.T) {
		base := len(NewPipeline(PipelineOptions{Detection: DefaultOptions()}, zap.NewNop()).Rules())
		p := NewPipeline(PipelineOptions{
			Detection:   DefaultOptions(),
			CustomRules: []Rule{staticRule(RuleFallback, BandFallback, "replaced")},
		}, zap.NewNop())
		assert.Len(t, p.Rules(), base)

		out, _ := p.Process(&ParagraphAnalysis{Text: ""})
		require.Len(t, out, 1)
		assert.Equal(t, "replaced", out[0].(*Paragraph).Text)
	})

	t.Run("Disabled and incomplete rules are filtered", func(t *testing.T) {
		off := staticRule("off", 1, "off")
		off.Disabled = true
		incomplete := Rule{ID: "incomplete", Priority: 2, When: &Always{}}
		p := NewPipeline(PipelineOptions{Detection: DefaultOptions(), CustomRules: []Rule{off, incomplete}}, zap.NewNop())
		ids := ruleIDs(p.Rules())
		assert.NotContains(t, ids, "off")
		assert.NotContains(t, ids, "incomplete")
		assert.NotContains(t, ids, RuleHeadingFormatting)
	})
}

func TestPipelinePanicRecovery(t *testing.T) {
	badCondition := Rule{
		ID:       "bad-condition",
		Priority: 1,
		When: &Custom{Name: "panics", Fn: func(*ParagraphAnalysis) bool {
			panic("boom")
		}},
		Build: func(*BuildContext, *ParagraphAnalysis) ([]Element, bool) { return nil, true },
	}
	badBuilder := Rule{
		ID:       "bad-builder",
		Priority: 2,
		When:     &Always{},
		Build: func(*BuildContext, *ParagraphAnalysis) ([]Element, bool) {
			var m map[string]int
			m["x"] = 1
			return nil, true
		},
	}
	p := NewPipeline(PipelineOptions{Detection: DefaultOptions(), CustomRules: []Rule{badCondition, badBuilder}}, zap.NewNop())

	out, ok := p.Process(&ParagraphAnalysis{StyleID: "Heading2", Text: "Setup"})
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, &Heading{Position: Position{0}, Level: 2, Text: "Setup"}, out[0])

	entry := p.Trace()[0]
	assert.Equal(t, RuleHeadingStyle, entry.MatchedRuleID)
	require.Len(t, entry.Notes, 2)
	assert.True(t, strings.HasPrefix(entry.Notes[0], NoteRuleFailedPrefix+"bad-condition: panic in condition"))
	assert.True(t, strings.HasPrefix(entry.Notes[1], NoteRuleFailedPrefix+"bad-builder: panic in builder"))
	assert.True(t, IsRuleFailureNote(entry.Notes[0]))
	assert.False(t, IsRuleFailureNote(NoteConsumedWithoutOutput))
}

func TestPipelineStateInjection(t *testing.T) {
	var seen []TrackerState
	spy := Rule{
		ID:       "spy",
		Priority: 1,
		When: &Custom{Name: "spy", Fn: func(a *ParagraphAnalysis) bool {
			seen = append(seen, TrackerState{a.CurrentSection, a.InAbstractSection})
			return false
		}},
		Build: func(*BuildContext, *ParagraphAnalysis) ([]Element, bool) { return nil, false },
	}
	p := NewPipeline(PipelineOptions{Detection: DefaultOptions(), CustomRules: []Rule{spy}}, zap.NewNop())
	runAll(p, []*ParagraphAnalysis{
		{StyleID: "Heading1", Text: "Abstract"},
		{Text: "body"},
		{StyleID: "Heading1", Text: "Methods"},
		{Text: "body"},
	})

	assert.Equal(t, []TrackerState{
		{SectionUnknown, false},
		{SectionAbstract, true},
		{SectionAbstract, true},
		{SectionMethods, false},
	}, seen)
}

func TestPipelineTrace(t *testing.T) {
	t.Run("Raw text is truncated", func(t *testing.T) {
		p := NewPipeline(PipelineOptions{Detection: DefaultOptions()}, zap.NewNop())
		long := strings.Repeat("é", MaxRawTextLength+100)
		p.Process(&ParagraphAnalysis{Text: long})

		entry := p.Trace()[0]
		assert.Equal(t, MaxRawTextLength, len([]rune(entry.RawText)))
		assert.Equal(t, long, entry.FullText)
	})

	t.Run("Non-paragraph elements", func(t *testing.T) {
		p := NewPipeline(PipelineOptions{Detection: DefaultOptions()}, zap.NewNop())
		p.Process(&ParagraphAnalysis{StyleID: "Heading1", Text: "Results"})
		idx := p.TraceNonParagraph(KindTable, "a | b", "2x2 table")
		p.Process(&ParagraphAnalysis{Text: "after"})

		assert.Equal(t, 1, idx)
		trace := p.Trace()
		require.Len(t, trace, 3)
		assert.Equal(t, OutcomeNonParagraph, trace[1].Outcome)
		assert.Equal(t, KindTable, trace[1].DetectedKind)
		assert.Equal(t, SectionResults, trace[1].Features.Section)
		assert.Equal(t, []string{"2x2 table"}, trace[1].Notes)
		assert.Equal(t, 2, trace[2].BodyIndex)
	})

	t.Run("Trace returns a copy", func(t *testing.T) {
		p := NewPipeline(PipelineOptions{Detection: DefaultOptions()}, zap.NewNop())
		p.Process(&ParagraphAnalysis{Text: "x"})
		trace := p.Trace()
		trace[0].MatchedRuleID = "tampered"
		assert.Equal(t, RuleFallback, p.Trace()[0].MatchedRuleID)
	})

	t.Run("Reset", func(t *testing.T) {
		p := NewPipeline(PipelineOptions{Detection: DefaultOptions()}, zap.NewNop())
		p.Process(&ParagraphAnalysis{StyleID: "Heading1", Text: "Abstract"})
		p.Reset()
		assert.Empty(t, p.Trace())
		assert.Equal(t, TrackerState{}, p.Tracker().State())

		p.Process(&ParagraphAnalysis{Text: "x"})
		assert.Equal(t, 0, p.Trace()[0].BodyIndex)
	})
}

func TestCollaborators(t *testing.T) {
	counter := NewCounter(100)
	p := NewPipeline(PipelineOptions{
		Detection:     DefaultOptions(),
		Collaborators: Collaborators{Indexer: counter, Lists: fixedListBuilder{}},
	}, zap.NewNop())

	out, _ := p.Process(&ParagraphAnalysis{Text: "item", HasNumbering: true})
	require.Len(t, out, 1)
	assert.Equal(t, &ListItem{Position: Position{100}, Text: "ITEM", Level: 7}, out[0])
	assert.Equal(t, 101, counter.Peek())

	t.Run("Declined list item falls through without using an index", func(t *testing.T) {
		out, _ := p.Process(&ParagraphAnalysis{Text: "skip", HasNumbering: true})
		require.Len(t, out, 1)
		assert.Equal(t, &Paragraph{Position: Position{101}, Text: "skip", Style: StyleNormal}, out[0])
	})
}

type fixedListBuilder struct{}

func (fixedListBuilder) BuildListItem(a *ParagraphAnalysis) (*ListItem, bool) {
	if a.Text == "skip" {
		return nil, false
	}
	return &ListItem{Text: strings.ToUpper(a.Text), Level: 7}, true
}

func ruleIDs(rules []Rule) []string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	return ids
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
