package kql

import (
	"errors"
	"fmt"

	"github.com/razeghi71/kq/ast"
)

// Assignment binds a result column name to an expression.
type Assignment struct {
	Name string
	Expr Expr
}

// As builds an assignment "name=e".
func As(name string, e Expr) Assignment {
	return Assignment{Name: name, Expr: e}
}

// Projection is an item of ProjectExprs: a Name, an Expr or an Assignment.
type Projection interface {
	projection() (ast.Assignment, error)
}

// Name is a column name used as a projection.
type Name string

func (n Name) projection() (ast.Assignment, error) {
	e := Col(string(n))
	return ast.Assignment{Expr: e.node}, e.err
}

func (e Expr) projection() (ast.Assignment, error) {
	return ast.Assignment{Expr: e.node}, e.Err()
}

func (a Assignment) projection() (ast.Assignment, error) {
	if a.Name == "" {
		return ast.Assignment{}, fmt.Errorf("%w: empty result name", ErrInvalidStageArgument)
	}
	if err := a.Expr.Err(); err != nil {
		return ast.Assignment{}, fmt.Errorf("%s: %w", a.Name, err)
	}
	return ast.Assignment{Column: a.Name, Expr: a.Expr.node}, nil
}

// SortKey is one column of an order by or top clause.
type SortKey = ast.SortKey

// By sorts on column without an explicit direction.
func By(column string) SortKey { return SortKey{Column: column} }

// Asc sorts on column ascending.
func Asc(column string) SortKey { return SortKey{Column: column, Order: ast.OrderAsc} }

// Desc sorts on column descending.
func Desc(column string) SortKey { return SortKey{Column: column, Order: ast.OrderDesc} }

func invalid(verb, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidStageArgument, verb, fmt.Sprintf(format, args...))
}

// argErr marks err, raised while converting a stage argument, as an invalid
// stage argument.
func argErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, ErrInvalidStageArgument) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidStageArgument, msg, err)
}

// Project keeps the named columns, in order.
func (t TableExpr) Project(columns ...string) TableExpr {
	items := make([]Projection, len(columns))
	for i, c := range columns {
		items[i] = Name(c)
	}
	return t.ProjectExprs(items...)
}

// ProjectExprs keeps columns, expressions and computed assignments.
func (t TableExpr) ProjectExprs(items ...Projection) TableExpr {
	if len(items) == 0 {
		return t.with(nil, invalid("project", "no columns"))
	}
	cols := make([]ast.Assignment, len(items))
	seen := make(map[string]bool)
	for i, item := range items {
		if item == nil {
			return t.with(nil, invalid("project", "item %d is nil", i+1))
		}
		a, err := item.projection()
		if err != nil {
			return t.with(nil, argErr(err, "project item %d", i+1))
		}
		if a.Column != "" {
			if seen[a.Column] {
				return t.with(nil, invalid("project", "duplicate result name %q", a.Column))
			}
			seen[a.Column] = true
		}
		cols[i] = a
	}
	return t.with(&ast.ProjectOp{Columns: cols}, nil)
}

// Where filters rows. Several conditions are joined with "and".
func (t TableExpr) Where(conditions ...Expr) TableExpr {
	if len(conditions) == 0 {
		return t.with(nil, invalid("where", "no conditions"))
	}
	conds := make([]ast.Expr, len(conditions))
	for i, c := range conditions {
		if err := c.Err(); err != nil {
			return t.with(nil, argErr(err, "where condition %d", i+1))
		}
		conds[i] = c.node
	}
	return t.with(&ast.WhereOp{Conditions: conds}, nil)
}

func assignments(verb string, items []Assignment) ([]ast.Assignment, error) {
	if len(items) == 0 {
		return nil, invalid(verb, "no assignments")
	}
	out := make([]ast.Assignment, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		a, err := item.projection()
		if err != nil {
			return nil, argErr(err, "%s item %d", verb, i+1)
		}
		if seen[a.Column] {
			return nil, invalid(verb, "duplicate result name %q", a.Column)
		}
		seen[a.Column] = true
		out[i] = a
	}
	return out, nil
}

func columnList(verb string, columns []string) ([]string, error) {
	out := make([]string, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, invalid(verb, "column %d is empty", i+1)
		}
		out[i] = c
	}
	return out, nil
}

// Summarize aggregates with the given assignments, grouped by the by
// columns. An empty by list aggregates over the whole input.
func (t TableExpr) Summarize(by []string, aggregations ...Assignment) TableExpr {
	aggs, err := assignments("summarize", aggregations)
	if err != nil {
		return t.with(nil, err)
	}
	groups, err := columnList("summarize by", by)
	if err != nil {
		return t.with(nil, err)
	}
	if len(groups) == 0 {
		groups = nil
	}
	return t.with(&ast.SummarizeOp{Aggregations: aggs, By: groups}, nil)
}

// Extend adds computed columns.
func (t TableExpr) Extend(items ...Assignment) TableExpr {
	assigns, err := assignments("extend", items)
	if err != nil {
		return t.with(nil, err)
	}
	return t.with(&ast.ExtendOp{Assignments: assigns}, nil)
}

// Sort orders by the named columns without explicit directions.
func (t TableExpr) Sort(columns ...string) TableExpr {
	keys := make([]SortKey, len(columns))
	for i, c := range columns {
		keys[i] = By(c)
	}
	return t.SortBy(keys...)
}

// SortBy orders by the given keys.
func (t TableExpr) SortBy(keys ...SortKey) TableExpr {
	if len(keys) == 0 {
		return t.with(nil, invalid("order by", "no columns"))
	}
	out := make([]ast.SortKey, len(keys))
	for i, k := range keys {
		if err := checkKey("order by", k); err != nil {
			return t.with(nil, err)
		}
		out[i] = k
	}
	return t.with(&ast.SortOp{Keys: out}, nil)
}

func checkKey(verb string, k SortKey) error {
	if k.Column == "" {
		return invalid(verb, "empty column")
	}
	if k.Order < ast.OrderDefault || k.Order > ast.OrderDesc {
		return invalid(verb, "unknown order %d for %s", int(k.Order), k.Column)
	}
	return nil
}

// Limit returns at most n rows. n may be zero.
func (t TableExpr) Limit(n int) TableExpr {
	if n < 0 {
		return t.with(nil, invalid("limit", "negative count %d", n))
	}
	return t.with(&ast.LimitOp{N: n}, nil)
}

// Take returns at most n arbitrary rows.
func (t TableExpr) Take(n int) TableExpr {
	if n < 0 {
		return t.with(nil, invalid("take", "negative count %d", n))
	}
	return t.with(&ast.TakeOp{N: n}, nil)
}

// Distinct keeps one row per distinct combination of columns.
func (t TableExpr) Distinct(columns ...string) TableExpr {
	if len(columns) == 0 {
		return t.with(nil, invalid("distinct", "no columns"))
	}
	cols, err := columnList("distinct", columns)
	if err != nil {
		return t.with(nil, err)
	}
	return t.with(&ast.DistinctOp{Columns: cols}, nil)
}

// Count replaces the rows with their count.
func (t TableExpr) Count() TableExpr {
	return t.with(&ast.CountOp{}, nil)
}

// Top returns the first n rows ordered by key.
func (t TableExpr) Top(n int, key SortKey) TableExpr {
	if n < 0 {
		return t.with(nil, invalid("top", "negative count %d", n))
	}
	if err := checkKey("top", key); err != nil {
		return t.with(nil, err)
	}
	return t.with(&ast.TopOp{N: n, Key: key}, nil)
}
