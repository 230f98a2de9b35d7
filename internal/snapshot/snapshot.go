// Package snapshot reads document bodies that an extraction step has already
// reduced to per-paragraph feature snapshots.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nerdneilsfield/docimport/internal/detection"
)

var (
	ErrEmptyBody       = errors.New("document body is empty")
	ErrUnknownBodyType = errors.New("unknown body element type")
	ErrMissingPayload  = errors.New("body element has no payload")
)

// BodyType tags one entry of the document body
type BodyType string

const (
	BodyParagraph BodyType = "paragraph"
	BodyTable     BodyType = "table"
)

// Table is a table as extracted from the document
type Table struct {
	Rows      [][]string `json:"rows"`
	HasHeader bool       `json:"has_header,omitempty"`
	Style     string     `json:"style,omitempty"`
}

// BodyElement is one paragraph or one table, in document order
type BodyElement struct {
	Type      BodyType                     `json:"type"`
	Paragraph *detection.ParagraphAnalysis `json:"paragraph,omitempty"`
	Table     *Table                       `json:"table,omitempty"`
}

// Document is the serialized extraction result of one source file
type Document struct {
	Name   string        `json:"name,omitempty"`
	Source string        `json:"source,omitempty"`
	Body   []BodyElement `json:"body"`
}

// Paragraphs returns the paragraph snapshots in order, skipping tables
func (d *Document) Paragraphs() []*detection.ParagraphAnalysis {
	var out []*detection.ParagraphAnalysis
	for _, el := range d.Body {
		if el.Type == BodyParagraph {
			out = append(out, el.Paragraph)
		}
	}
	return out
}

// Decode reads and validates a document
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a document from a JSON file
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Source == "" {
		doc.Source = path
	}
	return doc, nil
}

// Validate checks that every body element carries the payload its type names
func (d *Document) Validate() error {
	if len(d.Body) == 0 {
		return ErrEmptyBody
	}
	for i, el := range d.Body {
		switch el.Type {
		case BodyParagraph:
			if el.Paragraph == nil {
				return fmt.Errorf("body[%d]: %w: paragraph", i, ErrMissingPayload)
			}
		case BodyTable:
			if el.Table == nil {
				return fmt.Errorf("body[%d]: %w: table", i, ErrMissingPayload)
			}
		default:
			return fmt.Errorf("body[%d]: %w: %q", i, ErrUnknownBodyType, el.Type)
		}
	}
	return nil
}
