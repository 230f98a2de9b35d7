package detection

import "sync"

// BuildFunc turns a matched paragraph into elements.
//
// Returning applicable=false means "not applicable": the pipeline continues with
// the next rule. Returning applicable=true with no elements consumes the
// paragraph without output.
type BuildFunc func(ctx *BuildContext, a *ParagraphAnalysis) (elements []Element, applicable bool)

// StateFunc mutates the tracker after a rule produced a final result
type StateFunc func(t *SectionTracker, a *ParagraphAnalysis)

// Rule is one prioritized detection rule. Lower priorities run first.
type Rule struct {
	ID       string
	Name     string
	Priority int
	Target   ElementKind
	When     Condition
	Build    BuildFunc
	OnMatch  StateFunc
	Disabled bool
}

// Enabled reports whether the rule takes part in detection
func (r Rule) Enabled() bool {
	return !r.Disabled && r.When != nil && r.Build != nil
}

// OrderIndexer hands out monotonic element ordering indices
type OrderIndexer interface {
	Next() int
}

// EquationBuilder converts one math node into an equation element
type EquationBuilder interface {
	BuildEquation(node MathNode) (*Equation, bool)
}

// ListItemBuilder converts a numbered paragraph into a list item
type ListItemBuilder interface {
	BuildListItem(a *ParagraphAnalysis) (*ListItem, bool)
}

// ImageExtractor pulls image elements out of a paragraph with drawings
type ImageExtractor interface {
	ExtractImages(a *ParagraphAnalysis) []*Image
}

// Collaborators are owned by the extraction layer and reached only from builders.
// Builders assign ordering indices once they know the result is final.
type Collaborators struct {
	Indexer   OrderIndexer
	Equations EquationBuilder
	Lists     ListItemBuilder
	Images    ImageExtractor
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Indexer == nil {
		c.Indexer = &Counter{}
	}
	if c.Equations == nil {
		c.Equations = DefaultEquationBuilder{}
	}
	if c.Lists == nil {
		c.Lists = DefaultListItemBuilder{}
	}
	if c.Images == nil {
		c.Images = DefaultImageExtractor{}
	}
	return c
}

// BuildContext is what a builder sees besides the paragraph
type BuildContext struct {
	Collaborators
	Keywords *KeywordRegistry
}

// NextIndex draws the next ordering index
func (c *BuildContext) NextIndex() int {
	return c.Indexer.Next()
}

// Counter is the default OrderIndexer, starting at zero
type Counter struct {
	mu   sync.Mutex
	next int
}

// NewCounter starts a counter at the given index
func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.next
	c.next++
	return n
}

// Peek returns the index the next call will hand out
func (c *Counter) Peek() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// DefaultEquationBuilder prefers LaTeX and falls back to the linear form
type DefaultEquationBuilder struct{}

func (DefaultEquationBuilder) BuildEquation(node MathNode) (*Equation, bool) {
	content := node.LaTeX
	if content == "" {
		content = node.Linear
	}
	if content == "" {
		return nil, false
	}
	return &Equation{Content: content, Inline: !node.Display}, true
}

// DefaultListItemBuilder keeps the paragraph text and numbering level
type DefaultListItemBuilder struct{}

func (DefaultListItemBuilder) BuildListItem(a *ParagraphAnalysis) (*ListItem, bool) {
	text := a.TrimmedText()
	if text == "" {
		return nil, false
	}
	return &ListItem{
		Text:     text,
		Numbered: a.NumberingKind.IsNumbered(),
		Level:    a.NumberingLevel,
	}, true
}

// DefaultImageExtractor emits one image per ImageRef carrying data or a target
type DefaultImageExtractor struct{}

func (DefaultImageExtractor) ExtractImages(a *ParagraphAnalysis) []*Image {
	var out []*Image
	for _, ref := range a.Images {
		if len(ref.Data) == 0 && ref.Target == "" && ref.RelID == "" {
			continue
		}
		target := ref.Target
		if target == "" {
			target = ref.RelID
		}
		out = append(out, &Image{
			Data:    ref.Data,
			Ref:     target,
			AltText: ref.AltText,
			Width:   ref.Width,
			Height:  ref.Height,
		})
	}
	return out
}
