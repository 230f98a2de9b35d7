// Package importer walks a document body in order and turns it into import
// elements using the detection pipeline.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/docimport/internal/detection"
	"github.com/nerdneilsfield/docimport/internal/logger"
	"github.com/nerdneilsfield/docimport/internal/snapshot"
)

// Result is the outcome of importing one document
type Result struct {
	RunID    string                 `json:"run_id"`
	Document string                 `json:"document"`
	Elements []detection.Element    `json:"-"`
	Trace    []detection.TraceEntry `json:"trace"`
	State    detection.TrackerState `json:"final_state"`
	Rules    int                    `json:"rules"`
	Dropped  int                    `json:"dropped"`
	Tables   int                    `json:"tables"`
	Duration time.Duration          `json:"duration"`
}

// Importer owns the collaborators shared by every paragraph of a run
type Importer struct {
	opts   detection.PipelineOptions
	logger *zap.Logger
}

// New creates an importer. Each Run builds a fresh pipeline from opts.
func New(opts detection.PipelineOptions, log *zap.Logger) *Importer {
	return &Importer{opts: opts, logger: logger.OrNop(log)}
}

// Run imports the body of doc. Element indices start at zero for every run
// unless the options carry their own indexer.
func (im *Importer) Run(ctx context.Context, doc *snapshot.Document) (*Result, error) {
	if doc == nil || len(doc.Body) == 0 {
		return nil, snapshot.ErrEmptyBody
	}

	start := time.Now()
	runID := uuid.New().String()
	log := im.logger.With(zap.String("run_id", runID), zap.String("document", documentName(doc)))

	opts := im.opts
	if opts.Collaborators.Indexer == nil {
		opts.Collaborators.Indexer = detection.NewCounter(0)
	}
	p := detection.NewPipeline(opts, log)
	indexer := p.Indexer()

	result := &Result{
		RunID:    runID,
		Document: documentName(doc),
		Rules:    len(p.Rules()),
	}

	for i, el := range doc.Body {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("import cancelled at body element %d: %w", i, err)
		}

		switch el.Type {
		case snapshot.BodyParagraph:
			out, ok := p.Process(el.Paragraph)
			if !ok {
				result.Dropped++
				continue
			}
			result.Elements = append(result.Elements, out...)
		case snapshot.BodyTable:
			if el.Table == nil {
				return nil, fmt.Errorf("body[%d]: %w: table", i, snapshot.ErrMissingPayload)
			}
			table := &detection.Table{
				Position:  detection.Position{Index: indexer.Next()},
				Rows:      el.Table.Rows,
				HasHeader: el.Table.HasHeader,
			}
			p.TraceNonParagraph(detection.KindTable, tableText(el.Table), fmt.Sprintf("Table with %d rows", len(el.Table.Rows)))
			result.Elements = append(result.Elements, table)
			result.Tables++
		default:
			return nil, fmt.Errorf("body[%d]: %w: %q", i, snapshot.ErrUnknownBodyType, el.Type)
		}
	}

	result.Trace = p.Trace()
	result.State = p.Tracker().State()
	result.Duration = time.Since(start)

	log.Info("document imported",
		zap.Int("body", len(doc.Body)),
		zap.Int("elements", len(result.Elements)),
		zap.Int("dropped", result.Dropped),
		zap.Duration("duration", result.Duration))

	return result, nil
}

func documentName(doc *snapshot.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	return doc.Source
}

// tableText flattens a table for the trace, one row per line
func tableText(t *snapshot.Table) string {
	var b strings.Builder
	for i, row := range t.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(row, " | "))
	}
	return b.String()
}
