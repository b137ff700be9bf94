package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/razeghi71/kq/ast"
)

// Stage renders a single pipeline stage, without a trailing newline.
func Stage(op ast.Op) (string, error) {
	switch op := op.(type) {
	case *ast.WhereOp:
		if len(op.Conditions) == 0 {
			return "", fmt.Errorf("%w: where without conditions", ErrMalformedStage)
		}
		conds := make([]string, len(op.Conditions))
		for i, c := range op.Conditions {
			text, err := Expr(c)
			if err != nil {
				return "", fmt.Errorf("%w: where condition %d: %w", ErrMalformedStage, i+1, err)
			}
			conds[i] = text
		}
		return "| where " + strings.Join(conds, " and "), nil

	case *ast.ProjectOp:
		if len(op.Columns) == 0 {
			return "", fmt.Errorf("%w: project without columns", ErrMalformedStage)
		}
		items, err := assignments("project", op.Columns, true)
		if err != nil {
			return "", err
		}
		return "| project\n\t" + strings.Join(items, ",\n\t"), nil

	case *ast.ExtendOp:
		if len(op.Assignments) == 0 {
			return "", fmt.Errorf("%w: extend without assignments", ErrMalformedStage)
		}
		items, err := assignments("extend", op.Assignments, false)
		if err != nil {
			return "", err
		}
		return "| extend\n\t" + strings.Join(items, ",\n\t"), nil

	case *ast.SummarizeOp:
		if len(op.Aggregations) == 0 {
			return "", fmt.Errorf("%w: summarize without aggregations", ErrMalformedStage)
		}
		items, err := assignments("summarize", op.Aggregations, false)
		if err != nil {
			return "", err
		}
		text := "| summarize\n\t" + strings.Join(items, ",\n\t")
		if len(op.By) > 0 {
			if err := checkNames("summarize by", op.By); err != nil {
				return "", err
			}
			text += "\n\tby " + strings.Join(op.By, ", ")
		}
		return text, nil

	case *ast.SortOp:
		if len(op.Keys) == 0 {
			return "", fmt.Errorf("%w: order by without columns", ErrMalformedStage)
		}
		keys := make([]string, len(op.Keys))
		for i, k := range op.Keys {
			text, err := sortKey(k)
			if err != nil {
				return "", err
			}
			keys[i] = text
		}
		return "| order by\n\t" + strings.Join(keys, ", "), nil

	case *ast.LimitOp:
		if op.N < 0 {
			return "", fmt.Errorf("%w: negative limit %d", ErrMalformedStage, op.N)
		}
		return "| limit " + strconv.Itoa(op.N), nil

	case *ast.TakeOp:
		if op.N < 0 {
			return "", fmt.Errorf("%w: negative take %d", ErrMalformedStage, op.N)
		}
		return "| take " + strconv.Itoa(op.N), nil

	case *ast.DistinctOp:
		if len(op.Columns) == 0 {
			return "", fmt.Errorf("%w: distinct without columns", ErrMalformedStage)
		}
		if err := checkNames("distinct", op.Columns); err != nil {
			return "", err
		}
		return "| distinct " + strings.Join(op.Columns, ", "), nil

	case *ast.CountOp:
		return "| count", nil

	case *ast.TopOp:
		if op.N < 0 {
			return "", fmt.Errorf("%w: negative top %d", ErrMalformedStage, op.N)
		}
		key, err := sortKey(op.Key)
		if err != nil {
			return "", err
		}
		return "| top " + strconv.Itoa(op.N) + " by " + key, nil

	case nil:
		return "", fmt.Errorf("%w: nil stage", ErrMalformedStage)
	default:
		return "", fmt.Errorf("%w: unknown stage %T", ErrMalformedStage, op)
	}
}

// assignments renders name=expr items. When bare is set, an item without a
// name renders as the expression alone.
func assignments(verb string, items []ast.Assignment, bare bool) ([]string, error) {
	out := make([]string, len(items))
	for i, a := range items {
		if a.Column == "" && !bare {
			return nil, fmt.Errorf("%w: %s item %d has no result name", ErrMalformedStage, verb, i+1)
		}
		text, err := Expr(a.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s item %d: %w", ErrMalformedStage, verb, i+1, err)
		}
		if a.Column != "" {
			text = a.Column + "=" + text
		}
		out[i] = text
	}
	return out, nil
}

func sortKey(k ast.SortKey) (string, error) {
	if k.Column == "" {
		return "", fmt.Errorf("%w: empty sort column", ErrMalformedStage)
	}
	switch k.Order {
	case ast.OrderDefault:
		return k.Column, nil
	case ast.OrderAsc:
		return k.Column + " asc", nil
	case ast.OrderDesc:
		return k.Column + " desc", nil
	default:
		return "", fmt.Errorf("%w: unknown sort order %d", ErrMalformedStage, int(k.Order))
	}
}

func checkNames(verb string, names []string) error {
	for i, n := range names {
		if n == "" {
			return fmt.Errorf("%w: %s column %d is empty", ErrMalformedStage, verb, i+1)
		}
	}
	return nil
}
