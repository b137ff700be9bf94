package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razeghi71/kq/ast"
	"github.com/razeghi71/kq/table"
)

func col(name string) ast.Expr { return &ast.ColumnExpr{Name: name} }

func lit(v table.Value) ast.Expr { return &ast.LiteralExpr{Value: v} }

func TestExpr(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		want string
	}{
		{"column", col("State"), "State"},
		{"string literal", lit(table.StrVal("WA")), "'WA'"},
		{"comparison", &ast.BinaryExpr{Op: ast.OpEq, Left: col("State"), Right: lit(table.StrVal("WA"))}, "State == 'WA'"},
		{"no parentheses", &ast.BinaryExpr{
			Op:    ast.OpAnd,
			Left:  &ast.BinaryExpr{Op: ast.OpGt, Left: col("A"), Right: lit(table.IntVal(1))},
			Right: &ast.BinaryExpr{Op: ast.OpOr, Left: col("B"), Right: col("C")},
		}, "A > 1 and B or C"},
		{"arithmetic", &ast.BinaryExpr{Op: ast.OpMul, Left: col("A"), Right: lit(table.FloatVal(2))}, "A * 2.0"},
		{"call", &ast.FuncCallExpr{Name: "sum", Args: []ast.Expr{col("DamageProperty")}}, "sum(DamageProperty)"},
		{"call no args", &ast.FuncCallExpr{Name: "count"}, "count()"},
		{"nested call", &ast.FuncCallExpr{Name: "bin", Args: []ast.Expr{
			col("StartTime"), lit(table.DurationVal(24 * time.Hour)),
		}}, "bin(StartTime, 1d)"},
		{"call with binary arg", &ast.FuncCallExpr{Name: "countif", Args: []ast.Expr{
			&ast.BinaryExpr{Op: ast.OpGte, Left: col("X"), Right: lit(table.IntVal(5))},
		}}, "countif(X >= 5)"},
		{"in", &ast.BinaryExpr{Op: ast.OpIn, Left: col("State"), Right: lit(table.ListVal(table.StrVal("WA")))},
			"State in (dynamic([\n\t'WA'\n]))"},
		{"has", &ast.BinaryExpr{Op: ast.OpHas, Left: col("Text"), Right: lit(table.StrVal("storm"))}, "Text has 'storm'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExprMalformed(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
	}{
		{"nil", nil},
		{"empty column", col("")},
		{"empty function", &ast.FuncCallExpr{}},
		{"nil argument", &ast.FuncCallExpr{Name: "f", Args: []ast.Expr{nil}}},
		{"unknown operator", &ast.BinaryExpr{Op: ast.Operator(99), Left: col("a"), Right: col("b")}},
		{"nil operand", &ast.BinaryExpr{Op: ast.OpEq, Left: col("a")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expr(tt.expr)
			assert.ErrorIs(t, err, ErrMalformedExpr)
		})
	}
}

func TestQuery(t *testing.T) {
	q := &ast.Query{
		Source: &ast.SourceOp{Name: "StormEvents"},
		Ops: []ast.Op{
			&ast.WhereOp{Conditions: []ast.Expr{
				&ast.BinaryExpr{Op: ast.OpEq, Left: col("State"), Right: lit(table.StrVal("WA"))},
				&ast.BinaryExpr{Op: ast.OpGt, Left: col("DamageProperty"), Right: lit(table.IntVal(100000))},
			}},
			&ast.ExtendOp{Assignments: []ast.Assignment{
				{Column: "Total", Expr: &ast.BinaryExpr{Op: ast.OpAdd, Left: col("A"), Right: col("B")}},
			}},
			&ast.ProjectOp{Columns: []ast.Assignment{
				{Expr: col("State")},
				{Column: "Damage", Expr: col("DamageProperty")},
			}},
			&ast.SummarizeOp{Aggregations: []ast.Assignment{
				{Column: "n", Expr: &ast.FuncCallExpr{Name: "count"}},
				{Column: "total", Expr: &ast.FuncCallExpr{Name: "sum", Args: []ast.Expr{col("Damage")}}},
			}},
			&ast.SortOp{Keys: []ast.SortKey{{Column: "total", Order: ast.OrderDesc}, {Column: "n", Order: ast.OrderAsc}}},
			&ast.DistinctOp{Columns: []string{"n", "total"}},
			&ast.TopOp{N: 3, Key: ast.SortKey{Column: "total", Order: ast.OrderDesc}},
			&ast.TakeOp{N: 5},
			&ast.CountOp{},
			&ast.LimitOp{N: 0},
		},
	}
	want := "StormEvents\n" +
		"| where State == 'WA' and DamageProperty > 100000\n" +
		"| extend\n\tTotal=A + B\n" +
		"| project\n\tState,\n\tDamage=DamageProperty\n" +
		"| summarize\n\tn=count(),\n\ttotal=sum(Damage)\n" +
		"| order by\n\ttotal desc, n asc\n" +
		"| distinct n, total\n" +
		"| top 3 by total desc\n" +
		"| take 5\n" +
		"| count\n" +
		"| limit 0\n"
	got, err := Query(q)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestQueryZeroStages(t *testing.T) {
	got, err := Query(&ast.Query{Source: &ast.SourceOp{Name: "StormEvents"}})
	require.NoError(t, err)
	assert.Equal(t, "StormEvents\n", got)

	got, err = Query(&ast.Query{Source: &ast.SourceOp{Name: "T", Ref: "database('db').['T']"}})
	require.NoError(t, err)
	assert.Equal(t, "database('db').['T']\n", got)
}

func TestQueryMalformedStage(t *testing.T) {
	tests := []struct {
		name string
		op   ast.Op
	}{
		{"nil", nil},
		{"empty where", &ast.WhereOp{}},
		{"empty project", &ast.ProjectOp{}},
		{"project nil expr", &ast.ProjectOp{Columns: []ast.Assignment{{Column: "x"}}}},
		{"empty summarize", &ast.SummarizeOp{By: []string{"a"}}},
		{"unnamed aggregation", &ast.SummarizeOp{Aggregations: []ast.Assignment{{Expr: col("a")}}}},
		{"empty by column", &ast.SummarizeOp{Aggregations: []ast.Assignment{{Column: "n", Expr: col("a")}}, By: []string{""}}},
		{"empty extend", &ast.ExtendOp{}},
		{"empty sort", &ast.SortOp{}},
		{"bad sort order", &ast.SortOp{Keys: []ast.SortKey{{Column: "a", Order: ast.SortOrder(7)}}}},
		{"negative limit", &ast.LimitOp{N: -1}},
		{"negative take", &ast.TakeOp{N: -2}},
		{"negative top", &ast.TopOp{N: -1, Key: ast.SortKey{Column: "a"}}},
		{"empty distinct", &ast.DistinctOp{}},
		{"source as stage", &ast.SourceOp{Name: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Query(&ast.Query{Source: &ast.SourceOp{Name: "T"}, Ops: []ast.Op{tt.op}})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedStage)
		})
	}
}

func TestQueryMalformedExprInStage(t *testing.T) {
	_, err := Query(&ast.Query{
		Source: &ast.SourceOp{Name: "T"},
		Ops:    []ast.Op{&ast.WhereOp{Conditions: []ast.Expr{nil}}},
	})
	assert.ErrorIs(t, err, ErrMalformedExpr)
}

func TestQueryMissingSource(t *testing.T) {
	_, err := Query(&ast.Query{})
	assert.ErrorIs(t, err, ErrMalformedStage)
	_, err = Query(&ast.Query{Source: &ast.SourceOp{}})
	assert.ErrorIs(t, err, ErrMalformedStage)
}

func TestIdent(t *testing.T) {
	assert.Equal(t, "State", Ident("State"))
	assert.Equal(t, "_x1", Ident("_x1"))
	assert.Equal(t, "['Event Type']", Ident("Event Type"))
	assert.Equal(t, "['1st']", Ident("1st"))
	assert.Equal(t, "['where']", Ident("where"))
	assert.Equal(t, "['']", Ident(""))
	assert.Equal(t, `['it\'s']`, Ident("it's"))
}

func TestDataTable(t *testing.T) {
	tbl := table.NewTable([]string{"name", "age", "score", "Home City"})
	tbl.AddRow([]table.Value{table.StrVal("Alice"), table.IntVal(30), table.FloatVal(1.5), table.StrVal("NY")})
	tbl.AddRow([]table.Value{table.StrVal("Bob"), table.Null(), table.IntVal(2)})

	got, err := DataTable(tbl)
	require.NoError(t, err)
	want := "datatable(name: string, age: long, score: real, ['Home City']: string)[\n" +
		"\t'Alice', 30, 1.5, 'NY',\n" +
		"\t'Bob', long(null), 2.0, '',\n" +
		"]"
	assert.Equal(t, want, got)
}

func TestDataTableEmpty(t *testing.T) {
	got, err := DataTable(table.NewTable([]string{"key"}))
	require.NoError(t, err)
	assert.Equal(t, "datatable(key: dynamic)[\n]", got)

	_, err = DataTable(table.NewTable(nil))
	assert.ErrorIs(t, err, ErrMalformedStage)

	_, err = DataTable(nil)
	assert.ErrorIs(t, err, ErrMalformedStage)
}

func TestDataTableRowTooWide(t *testing.T) {
	tbl := table.NewTable([]string{"a"})
	tbl.AddRow([]table.Value{table.IntVal(1), table.IntVal(2)})
	_, err := DataTable(tbl)
	assert.ErrorIs(t, err, ErrMalformedStage)
}
