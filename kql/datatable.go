package kql

import (
	"fmt"
	"sort"

	"github.com/razeghi71/kq/render"
	"github.com/razeghi71/kq/table"
)

// DataTable starts a pipeline from rows embedded in the query as a
// datatable literal. The table is rendered immediately, so later changes to
// t do not affect the pipeline.
func DataTable(t *table.Table) TableExpr {
	text, err := render.DataTable(t)
	if err != nil {
		return TableExpr{name: "datatable", err: fmt.Errorf("%w: %w", ErrInvalidStageArgument, err)}
	}
	columns := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = Column{Name: c}
	}
	return TableExpr{name: "datatable", ref: text, columns: columns}
}

// DictDataTable starts a pipeline from a two-column key/value datatable,
// one row per entry in key order. Both columns are strings, also when
// entries is empty.
func DictDataTable(entries map[string]string) TableExpr {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewTable([]string{"key", "value"})
	t.Types = []table.ValueType{table.TypeString, table.TypeString}
	for _, k := range keys {
		t.AddRow([]table.Value{table.StrVal(k), table.StrVal(entries[k])})
	}
	return DataTable(t)
}
