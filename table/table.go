package table

import (
	"fmt"
	"strings"
	"time"
)

// ValueType represents the type of a Value.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeDatetime
	TypeTimespan
	TypeList // ordered sequence of values, rendered as dynamic([...])
)

// Value is a dynamically-typed scalar: a literal operand or a datatable cell.
type Value struct {
	Type     ValueType
	Int      int64
	Float    float64
	Str      string
	Bool     bool
	Time     time.Time
	Duration time.Duration
	List     []Value
}

// Null returns a null value.
func Null() Value {
	return Value{Type: TypeNull}
}

// IntVal creates an integer value.
func IntVal(v int64) Value {
	return Value{Type: TypeInt, Int: v}
}

// FloatVal creates a float value.
func FloatVal(v float64) Value {
	return Value{Type: TypeFloat, Float: v}
}

// StrVal creates a string value.
func StrVal(v string) Value {
	return Value{Type: TypeString, Str: v}
}

// BoolVal creates a boolean value.
func BoolVal(v bool) Value {
	return Value{Type: TypeBool, Bool: v}
}

// TimeVal creates a datetime value.
func TimeVal(v time.Time) Value {
	return Value{Type: TypeDatetime, Time: v}
}

// DurationVal creates a timespan value.
func DurationVal(v time.Duration) Value {
	return Value{Type: TypeTimespan, Duration: v}
}

// ListVal creates a list value. The elements are copied.
func ListVal(items ...Value) Value {
	list := make([]Value, len(items))
	copy(list, items)
	return Value{Type: TypeList, List: list}
}

// IsNull returns true if the value is null.
func (v Value) IsNull() bool {
	return v.Type == TypeNull
}

// AsFloat attempts to coerce to float64 for arithmetic.
func (v Value) AsFloat() (float64, bool) {
	switch v.Type {
	case TypeInt:
		return float64(v.Int), true
	case TypeFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

// AsString returns a plain, unquoted representation for display.
func (v Value) AsString() string {
	switch v.Type {
	case TypeNull:
		return "null"
	case TypeInt:
		return fmt.Sprintf("%d", v.Int)
	case TypeFloat:
		return fmt.Sprintf("%g", v.Float)
	case TypeString:
		return v.Str
	case TypeBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeDatetime:
		return v.Time.UTC().Format(time.RFC3339Nano)
	case TypeTimespan:
		return v.Duration.String()
	case TypeList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.AsString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "?"
	}
}

// Row is a single row in a table, mapping column index to value.
type Row struct {
	Values []Value
}

// Table is an in-memory set of rows, used as an inline datatable source.
type Table struct {
	Columns []string
	// Types declares column types. Columns without a declared type have
	// their type inferred by ColumnType.
	Types []ValueType
	Rows  []Row
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) *Table {
	return &Table{
		Columns: columns,
		Rows:    nil,
	}
}

// ColIndex returns the index of a column by name, or -1.
func (t *Table) ColIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddRow appends a row to the table.
func (t *Table) AddRow(values []Value) {
	t.Rows = append(t.Rows, Row{Values: values})
}

// Get returns the value at a given row and column name.
func (t *Table) Get(row int, col string) Value {
	idx := t.ColIndex(col)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row].Values) {
		return Null()
	}
	return t.Rows[row].Values[idx]
}

// ColumnType returns the declared type of column i, or infers it from its
// non-null cells. Columns
// mixing integers and floats are TypeFloat; any other mix, or a column with
// no non-null cells, is TypeList (rendered as dynamic).
func (t *Table) ColumnType(i int) ValueType {
	if i < len(t.Types) && t.Types[i] != TypeNull {
		return t.Types[i]
	}
	typ := TypeNull
	for _, r := range t.Rows {
		if i >= len(r.Values) || r.Values[i].IsNull() {
			continue
		}
		vt := r.Values[i].Type
		switch {
		case typ == TypeNull:
			typ = vt
		case typ == vt:
		case (typ == TypeInt && vt == TypeFloat) || (typ == TypeFloat && vt == TypeInt):
			typ = TypeFloat
		default:
			return TypeList
		}
	}
	if typ == TypeNull {
		return TypeList
	}
	return typ
}

// Select returns a table holding only the named columns, in the given
// order.
func (t *Table) Select(columns ...string) (*Table, error) {
	for _, c := range columns {
		if t.ColIndex(c) < 0 {
			return nil, fmt.Errorf("unknown column %q", c)
		}
	}
	out := NewTable(append([]string(nil), columns...))
	if t.Types != nil {
		out.Types = make([]ValueType, len(columns))
		for i, c := range columns {
			out.Types[i] = t.ColumnType(t.ColIndex(c))
		}
	}
	for r := range t.Rows {
		vals := make([]Value, len(columns))
		for i, c := range columns {
			vals[i] = t.Get(r, c)
		}
		out.AddRow(vals)
	}
	return out, nil
}

// String renders the table as aligned text: a header, a separator and one
// line per row. Cells beyond the last column are not shown.
func (t *Table) String() string {
	if len(t.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = make([]string, len(t.Columns))
		for j := range t.Columns {
			cells[i][j] = "null"
			if j < len(row.Values) {
				cells[i][j] = row.Values[j].AsString()
			}
			widths[j] = max(widths[j], len(cells[i][j]))
		}
	}

	var sb strings.Builder
	writeLine := func(parts []string, sep string) {
		for i, p := range parts {
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(p)
			sb.WriteString(strings.Repeat(" ", widths[i]-len(p)))
		}
		sb.WriteByte('\n')
	}
	writeLine(t.Columns, " | ")
	dashes := make([]string, len(t.Columns))
	for i := range dashes {
		dashes[i] = strings.Repeat("-", widths[i])
	}
	writeLine(dashes, "-+-")
	for _, row := range cells {
		writeLine(row, " | ")
	}
	return sb.String()
}
