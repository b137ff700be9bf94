package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/razeghi71/kq/kql"
)

// Stage is one pipeline step. Verb names the step; only the matching field
// is set.
type Stage struct {
	Verb      string
	Where     []Expr
	Project   []Projection
	Extend    []Assignment
	Summarize Summarize
	Sort      []SortKey
	Count     int
	Distinct  []string
	Top       Top
}

// Summarize is the body of a summarize stage.
type Summarize struct {
	Aggregations []Assignment `yaml:"aggregations"`
	By           []string     `yaml:"by"`
}

// Top is the body of a top stage.
type Top struct {
	N      int    `yaml:"n"`
	Column string `yaml:"column"`
	Order  string `yaml:"order"`
}

// Assignment is a "name=expr" item.
type Assignment struct {
	Name string `yaml:"name"`
	Expr Expr   `yaml:"expr"`
}

// Projection is a project item: a bare column name or an optionally named
// expression.
type Projection struct {
	Name string `yaml:"name"`
	Expr *Expr  `yaml:"expr"`
}

func (p *Projection) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Name = node.Value
		return nil
	}
	if err := checkFields(node, "name", "expr"); err != nil {
		return err
	}
	type plain Projection
	return node.Decode((*plain)(p))
}

// SortKey is a sort column with an optional asc/desc order.
type SortKey struct {
	Column string `yaml:"column"`
	Order  string `yaml:"order"`
}

func (k *SortKey) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		k.Column = node.Value
		return nil
	}
	if err := checkFields(node, "column", "order"); err != nil {
		return err
	}
	type plain SortKey
	return node.Decode((*plain)(k))
}

func (s *Stage) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: a stage must name exactly one verb", node.Line)
	}
	s.Verb = node.Content[0].Value
	value := node.Content[1]
	var err error
	switch s.Verb {
	case "where":
		err = value.Decode(&s.Where)
	case "project":
		err = value.Decode(&s.Project)
	case "extend":
		err = value.Decode(&s.Extend)
	case "summarize":
		err = value.Decode(&s.Summarize)
	case "sort", "order by":
		s.Verb = "sort"
		err = value.Decode(&s.Sort)
	case "limit", "take":
		err = value.Decode(&s.Count)
	case "distinct":
		err = value.Decode(&s.Distinct)
	case "count":
		var on bool
		err = value.Decode(&on)
		if err == nil && !on {
			err = fmt.Errorf("count takes true")
		}
	case "top":
		err = value.Decode(&s.Top)
	default:
		return fmt.Errorf("line %d: unknown stage %q", node.Line, s.Verb)
	}
	if err != nil {
		return fmt.Errorf("line %d: %s: %w", node.Line, s.Verb, err)
	}
	return nil
}

func (s *Summarize) UnmarshalYAML(node *yaml.Node) error {
	if err := checkFields(node, "aggregations", "by"); err != nil {
		return err
	}
	type plain Summarize
	return node.Decode((*plain)(s))
}

func (t *Top) UnmarshalYAML(node *yaml.Node) error {
	if err := checkFields(node, "n", "column", "order"); err != nil {
		return err
	}
	type plain Top
	return node.Decode((*plain)(t))
}

func (a *Assignment) UnmarshalYAML(node *yaml.Node) error {
	if err := checkFields(node, "name", "expr"); err != nil {
		return err
	}
	type plain Assignment
	return node.Decode((*plain)(a))
}

// checkFields rejects mapping keys outside fields. Nested values are
// decoded with node.Decode, which does not inherit the document decoder's
// KnownFields setting.
func checkFields(node *yaml.Node, fields ...string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(fields, key.Value) {
			return fmt.Errorf("line %d: unknown field %q (expected %s)", key.Line, key.Value, strings.Join(fields, ", "))
		}
	}
	return nil
}

func sortKey(column, order string) (kql.SortKey, error) {
	switch order {
	case "":
		return kql.By(column), nil
	case "asc":
		return kql.Asc(column), nil
	case "desc":
		return kql.Desc(column), nil
	default:
		return kql.SortKey{}, fmt.Errorf("%w: unknown sort order %q", ErrInvalidDocument, order)
	}
}

func assignments(items []Assignment) ([]kql.Assignment, error) {
	out := make([]kql.Assignment, len(items))
	for i, a := range items {
		e, err := a.Expr.Build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.Name, err)
		}
		out[i] = kql.As(a.Name, e)
	}
	return out, nil
}

func (s Stage) apply(t kql.TableExpr) (kql.TableExpr, error) {
	switch s.Verb {
	case "where":
		conds := make([]kql.Expr, len(s.Where))
		for i, w := range s.Where {
			e, err := w.Build()
			if err != nil {
				return t, fmt.Errorf("condition %d: %w", i+1, err)
			}
			conds[i] = e
		}
		return t.Where(conds...), nil

	case "project":
		items := make([]kql.Projection, len(s.Project))
		for i, p := range s.Project {
			if p.Expr == nil {
				items[i] = kql.Name(p.Name)
				continue
			}
			e, err := p.Expr.Build()
			if err != nil {
				return t, fmt.Errorf("item %d: %w", i+1, err)
			}
			if p.Name == "" {
				items[i] = e
			} else {
				items[i] = kql.As(p.Name, e)
			}
		}
		return t.ProjectExprs(items...), nil

	case "extend":
		assigns, err := assignments(s.Extend)
		if err != nil {
			return t, err
		}
		return t.Extend(assigns...), nil

	case "summarize":
		aggs, err := assignments(s.Summarize.Aggregations)
		if err != nil {
			return t, err
		}
		return t.Summarize(s.Summarize.By, aggs...), nil

	case "sort":
		keys := make([]kql.SortKey, len(s.Sort))
		for i, k := range s.Sort {
			key, err := sortKey(k.Column, k.Order)
			if err != nil {
				return t, err
			}
			keys[i] = key
		}
		return t.SortBy(keys...), nil

	case "limit":
		return t.Limit(s.Count), nil
	case "take":
		return t.Take(s.Count), nil
	case "distinct":
		return t.Distinct(s.Distinct...), nil
	case "count":
		return t.Count(), nil

	case "top":
		key, err := sortKey(s.Top.Column, s.Top.Order)
		if err != nil {
			return t, err
		}
		return t.Top(s.Top.N, key), nil

	default:
		return t, fmt.Errorf("%w: unknown stage %q", ErrInvalidDocument, s.Verb)
	}
}
