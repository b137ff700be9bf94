package kql

import (
	"fmt"

	"github.com/razeghi71/kq/ast"
	"github.com/razeghi71/kq/literal"
	"github.com/razeghi71/kq/render"
)

// Expr is an immutable scalar expression. Combinators return new values and
// never modify the receiver. An Expr built from an invalid operand carries
// the error, which surfaces when the Expr is attached to a stage.
type Expr struct {
	node ast.Expr
	err  error
}

// Col returns a column reference.
func Col(name string) Expr {
	if name == "" {
		return Expr{err: fmt.Errorf("%w: empty column name", ErrInvalidStageArgument)}
	}
	return Expr{node: &ast.ColumnExpr{Name: name}}
}

// Lit wraps a Go value as a literal. Use Lit to compare a column against a
// string literal where a bare string would mean a column name.
func Lit(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	val, err := literal.FromGo(v)
	if err != nil {
		return Expr{err: err}
	}
	return Expr{node: &ast.LiteralExpr{Value: val}}
}

// Call builds a function call. String arguments are column names, Expr
// arguments are used as they are and anything else becomes a literal.
func Call(name string, args ...any) Expr {
	if name == "" {
		return Expr{err: fmt.Errorf("%w: empty function name", ErrInvalidStageArgument)}
	}
	nodes := make([]ast.Expr, len(args))
	for i, a := range args {
		e := Arg(a)
		if err := e.Err(); err != nil {
			return Expr{err: fmt.Errorf("%s() argument %d: %w", name, i+1, err)}
		}
		nodes[i] = e.node
	}
	return Expr{node: &ast.FuncCallExpr{Name: name, Args: nodes}}
}

// Arg converts a function argument: a string names a column, an Expr is kept
// and any other value becomes a literal.
func Arg(v any) Expr {
	switch v := v.(type) {
	case Expr:
		return v
	case string:
		return Col(v)
	default:
		return Lit(v)
	}
}

func (e Expr) binary(op ast.Operator, rhs any) Expr {
	if err := e.Err(); err != nil {
		return Expr{err: err}
	}
	right := Lit(rhs)
	if err := right.Err(); err != nil {
		return Expr{err: fmt.Errorf("right operand of %s: %w", op, err)}
	}
	return Expr{node: &ast.BinaryExpr{Op: op, Left: e.node, Right: right.node}}
}

// Eq renders "e == v". Raw values on the right are literals.
func (e Expr) Eq(v any) Expr { return e.binary(ast.OpEq, v) }

// Ne renders "e != v".
func (e Expr) Ne(v any) Expr { return e.binary(ast.OpNeq, v) }

// Gt renders "e > v".
func (e Expr) Gt(v any) Expr { return e.binary(ast.OpGt, v) }

// Ge renders "e >= v".
func (e Expr) Ge(v any) Expr { return e.binary(ast.OpGte, v) }

// Lt renders "e < v".
func (e Expr) Lt(v any) Expr { return e.binary(ast.OpLt, v) }

// Le renders "e <= v".
func (e Expr) Le(v any) Expr { return e.binary(ast.OpLte, v) }

// And renders "e and v" without parentheses. Prefer passing several
// conditions to Where.
func (e Expr) And(v any) Expr { return e.binary(ast.OpAnd, v) }

// Or renders "e or v" without parentheses.
func (e Expr) Or(v any) Expr { return e.binary(ast.OpOr, v) }

// Add renders "e + v".
func (e Expr) Add(v any) Expr { return e.binary(ast.OpAdd, v) }

// Sub renders "e - v".
func (e Expr) Sub(v any) Expr { return e.binary(ast.OpSub, v) }

// Mul renders "e * v".
func (e Expr) Mul(v any) Expr { return e.binary(ast.OpMul, v) }

// Div renders "e / v".
func (e Expr) Div(v any) Expr { return e.binary(ast.OpDiv, v) }

// Has renders "e has v", a whole-term string match.
func (e Expr) Has(v any) Expr { return e.binary(ast.OpHas, v) }

// Contains renders "e contains v".
func (e Expr) Contains(v any) Expr { return e.binary(ast.OpContains, v) }

// StartsWith renders "e startswith v".
func (e Expr) StartsWith(v any) Expr { return e.binary(ast.OpStartsWith, v) }

// In renders "e in (<list>)" with the values as a dynamic list literal.
func (e Expr) In(values ...any) Expr {
	if len(values) == 0 {
		return Expr{err: fmt.Errorf("%w: in() needs at least one value", ErrInvalidStageArgument)}
	}
	return e.binary(ast.OpIn, values)
}

// Not renders "not(e)".
func (e Expr) Not() Expr {
	if err := e.Err(); err != nil {
		return Expr{err: err}
	}
	return Call("not", e)
}

// Err returns the error recorded while building e.
func (e Expr) Err() error {
	if e.err == nil && e.node == nil {
		return fmt.Errorf("%w: empty expression", ErrInvalidStageArgument)
	}
	return e.err
}

// Render returns the expression text.
func (e Expr) Render() (string, error) {
	if err := e.Err(); err != nil {
		return "", err
	}
	return render.Expr(e.node)
}

// String returns the expression text, or "" if e is invalid.
func (e Expr) String() string {
	s, _ := e.Render()
	return s
}
