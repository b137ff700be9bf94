// Package pipeline builds queries from YAML pipeline documents.
//
//	source: {cluster: help, database: Samples, table: StormEvents}
//	stages:
//	  - where:
//	      - {col: State, op: "==", value: WA}
//	  - project: [State, EventType]
//	  - limit: 10
//
// Each stage item names exactly one verb. Expressions are either a bare
// string (a column), a {col}, {value}, {func, args} or {op, left, right}
// mapping, or the {col, op, value} shorthand for a comparison.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/razeghi71/kq/command"
	"github.com/razeghi71/kq/kql"
)

// ErrInvalidDocument is returned for documents that do not describe a
// pipeline.
var ErrInvalidDocument = errors.New("invalid pipeline document")

// Document is a decoded pipeline description.
type Document struct {
	Source Source   `yaml:"source"`
	Stages []Stage  `yaml:"stages"`
	Set    *Command `yaml:"set"`
}

// Source names the table the pipeline reads from.
type Source struct {
	Cluster  string `yaml:"cluster"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// Command wraps the rendered query in a .set-or-append/.set-or-replace.
type Command struct {
	Table     string `yaml:"table"`
	Folder    string `yaml:"folder"`
	Docstring string `yaml:"docstring"`
	Replace   bool   `yaml:"replace"`
}

// Load decodes a document. Unknown top-level fields are rejected.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// LoadFile decodes the document stored at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (s Source) table() (kql.TableExpr, error) {
	if s.Table == "" {
		return kql.TableExpr{}, fmt.Errorf("%w: source.table is required", ErrInvalidDocument)
	}
	switch {
	case s.Cluster != "" && s.Database == "":
		return kql.TableExpr{}, fmt.Errorf("%w: source.cluster requires source.database", ErrInvalidDocument)
	case s.Cluster != "":
		return kql.Cluster(s.Cluster).Database(s.Database).Table(s.Table), nil
	case s.Database != "":
		return kql.Database(s.Database).Table(s.Table), nil
	default:
		return kql.Query(s.Table), nil
	}
}

// Build turns the document into a pipeline.
func (d *Document) Build() (kql.TableExpr, error) {
	t, err := d.Source.table()
	if err != nil {
		return t, err
	}
	for i, s := range d.Stages {
		t, err = s.apply(t)
		if err != nil {
			return t, fmt.Errorf("stage %d (%s): %w", i+1, s.Verb, err)
		}
		if err := t.Err(); err != nil {
			return t, fmt.Errorf("stage %d (%s): %w", i+1, s.Verb, err)
		}
	}
	return t, nil
}

// Render builds and renders the document, wrapped in its control command
// when one is configured.
func (d *Document) Render() (string, error) {
	t, err := d.Build()
	if err != nil {
		return "", err
	}
	text, err := t.Render()
	if err != nil {
		return "", err
	}
	if d.Set == nil {
		return text, nil
	}
	return command.Set(text, command.Options{
		Table:     d.Set.Table,
		Folder:    d.Set.Folder,
		Docstring: d.Set.Docstring,
		Replace:   d.Set.Replace,
	})
}
