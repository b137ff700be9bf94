package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/razeghi71/kq/kql"
)

// Expr is a YAML expression node.
type Expr struct {
	Col   string `yaml:"col"`
	Value any    `yaml:"value"`
	Op    string `yaml:"op"`
	Left  *Expr  `yaml:"left"`
	Right *Expr  `yaml:"right"`
	Func  string `yaml:"func"`
	Args  []Expr `yaml:"args"`

	// Timespan is a "<n>d" day count or a Go duration such as "90m".
	Timespan string `yaml:"timespan"`

	hasValue bool
}

func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!str" {
			e.Col = node.Value
			return nil
		}
		e.hasValue = true
		return node.Decode(&e.Value)
	}
	if node.Kind == yaml.SequenceNode {
		e.hasValue = true
		return node.Decode(&e.Value)
	}
	if err := checkFields(node, "col", "value", "op", "left", "right", "func", "args", "timespan"); err != nil {
		return err
	}
	type plain Expr
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "value" {
			e.hasValue = true
		}
	}
	return nil
}

var binaryOps = map[string]func(kql.Expr, any) kql.Expr{
	"==":         kql.Expr.Eq,
	"!=":         kql.Expr.Ne,
	">":          kql.Expr.Gt,
	">=":         kql.Expr.Ge,
	"<":          kql.Expr.Lt,
	"<=":         kql.Expr.Le,
	"and":        kql.Expr.And,
	"or":         kql.Expr.Or,
	"+":          kql.Expr.Add,
	"-":          kql.Expr.Sub,
	"*":          kql.Expr.Mul,
	"/":          kql.Expr.Div,
	"has":        kql.Expr.Has,
	"contains":   kql.Expr.Contains,
	"startswith": kql.Expr.StartsWith,
}

// Build converts the node to an expression.
func (e Expr) Build() (kql.Expr, error) {
	if err := e.validate(); err != nil {
		return kql.Expr{}, err
	}
	switch {
	case e.Func != "":
		args := make([]any, len(e.Args))
		for i, a := range e.Args {
			arg, err := a.Build()
			if err != nil {
				return kql.Expr{}, fmt.Errorf("%s() argument %d: %w", e.Func, i+1, err)
			}
			args[i] = arg
		}
		return check(kql.Call(e.Func, args...))

	case e.Op != "":
		return e.binary()

	case e.Timespan != "":
		d, err := parseTimespan(e.Timespan)
		if err != nil {
			return kql.Expr{}, err
		}
		return check(kql.Lit(d))

	case e.Col != "":
		return check(kql.Col(e.Col))

	case e.hasValue:
		return check(kql.Lit(e.Value))

	default:
		return kql.Expr{}, fmt.Errorf("%w: empty expression", ErrInvalidDocument)
	}
}

// validate rejects field combinations that Build would otherwise silently
// reduce to one of their fields.
func (e Expr) validate() error {
	var msg string
	switch {
	case e.Func != "" && (e.Op != "" || e.Col != "" || e.hasValue || e.Timespan != ""):
		msg = "func takes only args"
	case e.Func == "" && len(e.Args) > 0:
		msg = "args needs func"
	case e.Timespan != "" && (e.Op != "" || e.Col != "" || e.hasValue):
		msg = "timespan takes no other fields"
	case e.Op == "" && (e.Left != nil || e.Right != nil):
		msg = "left and right need op"
	case e.Op == "" && e.Col != "" && e.hasValue:
		msg = "col and value need op"
	default:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, msg)
}

func (e Expr) binary() (kql.Expr, error) {
	var left kql.Expr
	switch {
	case e.Left != nil:
		l, err := e.Left.Build()
		if err != nil {
			return kql.Expr{}, err
		}
		left = l
	case e.Col != "":
		left = kql.Col(e.Col)
	default:
		return kql.Expr{}, fmt.Errorf("%w: %s needs a left operand (left or col)", ErrInvalidDocument, e.Op)
	}

	if e.Op == "in" || e.Op == "not in" {
		values, ok := e.Value.([]any)
		if !e.hasValue || !ok {
			return kql.Expr{}, fmt.Errorf("%w: %s needs a list value", ErrInvalidDocument, e.Op)
		}
		in := left.In(values...)
		if e.Op == "not in" {
			in = in.Not()
		}
		return check(in)
	}

	apply, ok := binaryOps[e.Op]
	if !ok {
		return kql.Expr{}, fmt.Errorf("%w: unknown operator %q", ErrInvalidDocument, e.Op)
	}
	var right any
	switch {
	case e.Right != nil:
		r, err := e.Right.Build()
		if err != nil {
			return kql.Expr{}, err
		}
		right = r
	case e.hasValue:
		right = e.Value
	default:
		return kql.Expr{}, fmt.Errorf("%w: %s needs a right operand (right or value)", ErrInvalidDocument, e.Op)
	}
	return check(apply(left, right))
}

func parseTimespan(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid timespan %q", ErrInvalidDocument, s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timespan %q", ErrInvalidDocument, s)
	}
	return d, nil
}

func check(e kql.Expr) (kql.Expr, error) {
	return e, e.Err()
}
