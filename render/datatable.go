package render

import (
	"fmt"
	"strings"

	"github.com/razeghi71/kq/literal"
	"github.com/razeghi71/kq/table"
)

// DataTable renders t as an inline datatable literal:
//
//	datatable(name: string, age: long)[
//		'Alice', 30,
//		'Bob', 25,
//	]
//
// Column types are inferred from the cells. Missing and null cells render as
// the column's typed null; integers in a real column render as reals.
func DataTable(t *table.Table) (string, error) {
	if t == nil || len(t.Columns) == 0 {
		return "", fmt.Errorf("%w: datatable without columns", ErrMalformedStage)
	}
	types := make([]table.ValueType, len(t.Columns))
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		types[i] = t.ColumnType(i)
		header[i] = Ident(c) + ": " + literal.TypeName(types[i])
	}

	var sb strings.Builder
	sb.WriteString("datatable(")
	sb.WriteString(strings.Join(header, ", "))
	sb.WriteString(")[")
	for n, r := range t.Rows {
		if len(r.Values) > len(t.Columns) {
			return "", fmt.Errorf("%w: datatable row %d has %d values for %d columns",
				ErrMalformedStage, n+1, len(r.Values), len(t.Columns))
		}
		cells := make([]string, len(t.Columns))
		for i, typ := range types {
			if i >= len(r.Values) || r.Values[i].IsNull() {
				cells[i] = literal.TypedNull(typ)
				continue
			}
			cells[i] = cell(r.Values[i], typ)
		}
		sb.WriteString("\n\t")
		sb.WriteString(strings.Join(cells, ", "))
		sb.WriteByte(',')
	}
	sb.WriteString("\n]")
	return sb.String(), nil
}

func cell(v table.Value, typ table.ValueType) string {
	switch typ {
	case table.TypeFloat:
		if f, ok := v.AsFloat(); ok {
			return literal.Format(table.FloatVal(f))
		}
	case table.TypeList:
		if v.Type != table.TypeList {
			return "dynamic(" + literal.Format(v) + ")"
		}
		// A list literal already carries its dynamic(...) wrapper.
	}
	return literal.Format(v)
}
