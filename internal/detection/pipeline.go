package detection

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// PipelineOptions configures a Pipeline
type PipelineOptions struct {
	Detection Options

	// CustomRules are merged after the defaults. A custom rule reusing a
	// default id replaces that rule in place.
	CustomRules []Rule

	DisabledRuleIDs []string

	Collaborators Collaborators

	// Keywords classifies headings; nil uses DefaultKeywords
	Keywords *KeywordRegistry
}

// Pipeline classifies paragraphs of one document in order.
//
// A Pipeline owns its tracker and trace and must not be shared between
// documents or goroutines. Rules and keywords are read-only and may be shared.
type Pipeline struct {
	rules    []Rule
	tracker  *SectionTracker
	keywords *KeywordRegistry
	ctx      BuildContext
	trace    []TraceEntry
	next     int
	logger   *zap.Logger
}

// NewPipeline builds the ordered rule list and a fresh tracker
func NewPipeline(opts PipelineOptions, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	keywords := opts.Keywords
	if keywords == nil {
		keywords = DefaultKeywords()
	}

	rules := mergeRules(DefaultRules(opts.Detection, keywords), opts.CustomRules)
	disabled := make(map[string]struct{}, len(opts.DisabledRuleIDs))
	for _, id := range opts.DisabledRuleIDs {
		disabled[id] = struct{}{}
	}
	enabled := rules[:0]
	for _, r := range rules {
		if _, off := disabled[r.ID]; off {
			continue
		}
		if r.Enabled() {
			enabled = append(enabled, r)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	logger.Debug("detection pipeline ready",
		zap.Int("rules", len(enabled)),
		zap.Int("custom_rules", len(opts.CustomRules)),
		zap.Int("disabled", len(opts.DisabledRuleIDs)))

	return &Pipeline{
		rules:    enabled,
		tracker:  NewSectionTracker(keywords),
		keywords: keywords,
		ctx:      BuildContext{Collaborators: opts.Collaborators.withDefaults(), Keywords: keywords},
		logger:   logger,
	}
}

func mergeRules(defaults, custom []Rule) []Rule {
	out := make([]Rule, 0, len(defaults)+len(custom))
	out = append(out, defaults...)
	pos := make(map[string]int, len(out))
	for i, r := range out {
		pos[r.ID] = i
	}
	for _, r := range custom {
		if i, ok := pos[r.ID]; ok && r.ID != "" {
			out[i] = r
			continue
		}
		pos[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// Process classifies the next paragraph in document order. ok is false only
// when no rule applied, which the fallback rule normally prevents.
func (p *Pipeline) Process(a *ParagraphAnalysis) (elements []Element, ok bool) {
	bodyIndex := p.next
	p.next++
	if a == nil {
		a = &ParagraphAnalysis{}
	}

	a.CurrentSection = p.tracker.CurrentSection()
	a.InAbstractSection = p.tracker.InAbstractSection()

	entry := TraceEntry{
		BodyIndex: bodyIndex,
		RawText:   truncateRunes(a.Text, MaxRawTextLength),
		FullText:  a.Text,
		Features:  featuresOf(a),
	}

	for i := range p.rules {
		rule := &p.rules[i]
		matched, err := p.evaluate(rule, a)
		if err != nil {
			entry.Notes = append(entry.Notes, RuleFailureNote(rule.ID, err))
			p.logger.Warn("rule condition failed, skipping",
				zap.Int("body_index", bodyIndex), zap.String("rule", rule.ID), zap.Error(err))
			continue
		}
		if !matched {
			continue
		}

		out, applicable, err := p.build(rule, a)
		if err != nil {
			entry.Notes = append(entry.Notes, RuleFailureNote(rule.ID, err))
			p.logger.Warn("rule builder failed, falling through",
				zap.Int("body_index", bodyIndex), zap.String("rule", rule.ID), zap.Error(err))
			continue
		}
		if !applicable {
			continue
		}

		if rule.OnMatch != nil {
			rule.OnMatch(p.tracker, a)
		}
		if out == nil {
			out = []Element{}
		}

		entry.MatchedRuleID = rule.ID
		entry.MatchedRuleName = rule.Name
		entry.DetectedKind = rule.Target
		entry.Outcome = OutcomeMatched
		entry.ElementsProduced = len(out)
		if len(out) == 0 {
			entry.Notes = append(entry.Notes, NoteConsumedWithoutOutput)
		}
		if a.HasPageBreak && rule.Target != KindPageBreak {
			entry.Notes = append(entry.Notes, NotePageBreakWithText)
		}
		p.trace = append(p.trace, entry)

		p.logger.Debug("paragraph classified",
			zap.Int("body_index", bodyIndex),
			zap.String("rule", rule.ID),
			zap.Stringer("kind", rule.Target),
			zap.Int("elements", len(out)))
		return out, true
	}

	entry.MatchedRuleID = NoRule
	entry.DetectedKind = KindUnknown
	entry.Outcome = OutcomeDropped
	entry.Notes = append(entry.Notes, NoteNoRuleMatched)
	p.trace = append(p.trace, entry)
	p.logger.Warn("paragraph dropped, no rule matched",
		zap.Int("body_index", bodyIndex), zap.String("text", entry.RawText))
	return nil, false
}

func (p *Pipeline) evaluate(rule *Rule, a *ParagraphAnalysis) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched, err = false, fmt.Errorf("panic in condition: %v", r)
		}
	}()
	return Evaluate(rule.When, a), nil
}

func (p *Pipeline) build(rule *Rule, a *ParagraphAnalysis) (out []Element, applicable bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, applicable, err = nil, false, fmt.Errorf("panic in builder: %v", r)
		}
	}()
	out, applicable = rule.Build(&p.ctx, a)
	return out, applicable, nil
}

// TraceNonParagraph records a body element the rule engine does not classify,
// such as a table, and returns its body index.
func (p *Pipeline) TraceNonParagraph(kind ElementKind, text string, note string) int {
	bodyIndex := p.next
	p.next++
	entry := TraceEntry{
		BodyIndex:    bodyIndex,
		RawText:      truncateRunes(text, MaxRawTextLength),
		FullText:     text,
		Features:     TraceFeatures{Section: p.tracker.CurrentSection(), InAbstractSection: p.tracker.InAbstractSection()},
		DetectedKind: kind,
		Outcome:      OutcomeNonParagraph,
	}
	if note != "" {
		entry.Notes = []string{note}
	}
	p.trace = append(p.trace, entry)
	return bodyIndex
}

// Trace returns a copy of the entries recorded so far
func (p *Pipeline) Trace() []TraceEntry {
	out := make([]TraceEntry, len(p.trace))
	copy(out, p.trace)
	return out
}

// Tracker exposes the section tracker for inspection
func (p *Pipeline) Tracker() *SectionTracker {
	return p.tracker
}

// Rules returns the enabled rules in evaluation order
func (p *Pipeline) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Keywords returns the registry headings are classified with
func (p *Pipeline) Keywords() *KeywordRegistry {
	return p.keywords
}

// Indexer returns the order indexer builders draw from
func (p *Pipeline) Indexer() OrderIndexer {
	return p.ctx.Indexer
}

// Reset clears the trace and tracker so the pipeline can process another
// document. The indexer keeps counting.
func (p *Pipeline) Reset() {
	p.tracker.Reset()
	p.trace = nil
	p.next = 0
}
