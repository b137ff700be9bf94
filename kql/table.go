package kql

import (
	"fmt"

	"github.com/razeghi71/kq/ast"
	"github.com/razeghi71/kq/render"
)

// Column declares a column of a table schema.
type Column struct {
	Name string
	Type string
}

// Context qualifies a table name, e.g. with a cluster and database.
type Context interface {
	TableRef(name string) string
}

// TableExpr is an immutable pipeline: a source table and ordered stages.
type TableExpr struct {
	name    string
	ref     string
	ctx     Context
	columns []Column
	ops     []ast.Op
	err     error
}

// Table starts a pipeline from a bare table name. Columns optionally declare
// the schema used by C.
func Table(name string, columns ...Column) TableExpr {
	return newTable(name, nil, columns)
}

// Query starts a schema-free pipeline from a bare table name.
func Query(name string) TableExpr {
	return newTable(name, nil, nil)
}

func newTable(name string, ctx Context, columns []Column) TableExpr {
	t := TableExpr{name: name, ctx: ctx}
	if name == "" {
		t.err = fmt.Errorf("%w: empty table name", ErrInvalidStageArgument)
		return t
	}
	if len(columns) > 0 {
		t.columns = make([]Column, len(columns))
		copy(t.columns, columns)
	}
	return t
}

// Name returns the base table name.
func (t TableExpr) Name() string {
	return t.name
}

// Columns returns a copy of the declared schema.
func (t TableExpr) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Err returns the first error recorded while building t.
func (t TableExpr) Err() error {
	return t.err
}

// Stages returns the number of attached stages.
func (t TableExpr) Stages() int {
	return len(t.ops)
}

// C returns a reference to a column of t. When t declares a schema the
// column must be part of it.
func (t TableExpr) C(name string) Expr {
	if len(t.columns) == 0 {
		return Col(name)
	}
	for _, c := range t.columns {
		if c.Name == name {
			return Col(name)
		}
	}
	return Expr{err: fmt.Errorf("%w: %s has no column %q", ErrUnknownColumn, t.name, name)}
}

// with returns a copy of t with op appended. The stage slice is always
// reallocated so that t and the result never share a backing array.
func (t TableExpr) with(op ast.Op, err error) TableExpr {
	if t.err != nil {
		return t
	}
	if err != nil {
		t.err = err
		return t
	}
	ops := make([]ast.Op, len(t.ops)+1)
	copy(ops, t.ops)
	ops[len(t.ops)] = op
	t.ops = ops
	return t
}

// AST returns the pipeline as a syntax tree. The tree is a fresh copy of the
// stage list; nodes are shared and must not be modified.
func (t TableExpr) AST() (*ast.Query, error) {
	if t.err != nil {
		return nil, t.err
	}
	src := &ast.SourceOp{Name: t.name, Ref: t.ref}
	if t.ctx != nil {
		src.Ref = t.ctx.TableRef(t.name)
	}
	ops := make([]ast.Op, len(t.ops))
	copy(ops, t.ops)
	return &ast.Query{Source: src, Ops: ops}, nil
}

// Render returns the query text.
func (t TableExpr) Render() (string, error) {
	q, err := t.AST()
	if err != nil {
		return "", err
	}
	return render.Query(q)
}

// String returns the query text, or "" if t is invalid. Use Render to see
// the error.
func (t TableExpr) String() string {
	s, _ := t.Render()
	return s
}
