// Package render turns expression trees and pipelines into query text.
//
// Rendering is a pure function of the tree. Expressions are rendered flat:
// a BinaryExpr never gains parentheses, so grouping is the caller's concern.
// Pipelines render one stage per "| verb" line, in order, and always end
// with a trailing newline.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/razeghi71/kq/ast"
	"github.com/razeghi71/kq/literal"
)

var (
	// ErrMalformedStage is returned for a stage that violates its shape,
	// such as an empty column list or a negative count.
	ErrMalformedStage = errors.New("malformed stage")
	// ErrMalformedExpr is returned for a nil or unknown expression node.
	ErrMalformedExpr = errors.New("malformed expression")
)

// Expr renders a scalar expression.
func Expr(e ast.Expr) (string, error) {
	var sb strings.Builder
	if err := writeExpr(&sb, e); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeExpr(sb *strings.Builder, e ast.Expr) error {
	switch e := e.(type) {
	case *ast.ColumnExpr:
		if e.Name == "" {
			return fmt.Errorf("%w: empty column name", ErrMalformedExpr)
		}
		sb.WriteString(e.Name)
	case *ast.LiteralExpr:
		sb.WriteString(literal.Format(e.Value))
	case *ast.FuncCallExpr:
		if e.Name == "" {
			return fmt.Errorf("%w: empty function name", ErrMalformedExpr)
		}
		sb.WriteString(e.Name)
		sb.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := writeExpr(sb, arg); err != nil {
				return fmt.Errorf("%s() argument %d: %w", e.Name, i, err)
			}
		}
		sb.WriteByte(')')
	case *ast.BinaryExpr:
		if !e.Op.Valid() {
			return fmt.Errorf("%w: unknown operator %d", ErrMalformedExpr, int(e.Op))
		}
		if err := writeExpr(sb, e.Left); err != nil {
			return err
		}
		sb.WriteByte(' ')
		sb.WriteString(e.Op.String())
		sb.WriteByte(' ')
		if e.Op != ast.OpIn {
			return writeExpr(sb, e.Right)
		}
		sb.WriteByte('(')
		if err := writeExpr(sb, e.Right); err != nil {
			return err
		}
		sb.WriteByte(')')
	case nil:
		return fmt.Errorf("%w: nil node", ErrMalformedExpr)
	default:
		return fmt.Errorf("%w: unknown node %T", ErrMalformedExpr, e)
	}
	return nil
}

// Query renders a full pipeline.
func Query(q *ast.Query) (string, error) {
	if q == nil || q.Source == nil {
		return "", fmt.Errorf("%w: missing source", ErrMalformedStage)
	}
	lines := make([]string, 0, len(q.Ops)+1)
	switch {
	case q.Source.Ref != "":
		lines = append(lines, q.Source.Ref)
	case q.Source.Name != "":
		lines = append(lines, q.Source.Name)
	default:
		return "", fmt.Errorf("%w: empty source name", ErrMalformedStage)
	}
	for i, op := range q.Ops {
		text, err := Stage(op)
		if err != nil {
			return "", fmt.Errorf("stage %d: %w", i+1, err)
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n") + "\n", nil
}
