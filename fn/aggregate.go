// Package fn constructs function-call expressions for the query language.
//
// Arguments follow kql.Call: a string is a column name, a kql.Expr is used
// as is and any other value is a literal. Wrap string constants in kql.Lit.
//
//	fn.Sum("DamageProperty")                // sum(DamageProperty)
//	fn.Strcat("State", kql.Lit("-"), "Id")  // strcat(State, '-', Id)
package fn

import "github.com/razeghi71/kq/kql"

// Count renders count().
func Count() kql.Expr { return kql.Call("count") }

// CountIf renders countif(predicate).
func CountIf(predicate any) kql.Expr { return kql.Call("countif", predicate) }

// Sum renders sum(column).
func Sum(column any) kql.Expr { return kql.Call("sum", column) }

// SumIf renders sumif(column, predicate).
func SumIf(column, predicate any) kql.Expr { return kql.Call("sumif", column, predicate) }

// Avg renders avg(column).
func Avg(column any) kql.Expr { return kql.Call("avg", column) }

// AvgIf renders avgif(column, predicate).
func AvgIf(column, predicate any) kql.Expr { return kql.Call("avgif", column, predicate) }

// Min renders min(column).
func Min(column any) kql.Expr { return kql.Call("min", column) }

// MinIf renders minif(column, predicate).
func MinIf(column, predicate any) kql.Expr { return kql.Call("minif", column, predicate) }

// Max renders max(column).
func Max(column any) kql.Expr { return kql.Call("max", column) }

// MaxIf renders maxif(column, predicate).
func MaxIf(column, predicate any) kql.Expr { return kql.Call("maxif", column, predicate) }

// Stdev renders stdev(column).
func Stdev(column any) kql.Expr { return kql.Call("stdev", column) }

// Variance renders variance(column).
func Variance(column any) kql.Expr { return kql.Call("variance", column) }

// TakeAny renders take_any(columns...), an arbitrary value per group.
func TakeAny(columns ...any) kql.Expr { return kql.Call("take_any", columns...) }

// MakeList renders make_list(column).
func MakeList(column any) kql.Expr { return kql.Call("make_list", column) }

// MakeSet renders make_set(column), the distinct values.
func MakeSet(column any) kql.Expr { return kql.Call("make_set", column) }

// DCountIf renders dcountif(column, predicate).
func DCountIf(column, predicate any) kql.Expr { return kql.Call("dcountif", column, predicate) }

// DCount renders dcount(column), an estimate of the distinct count.
func DCount(column any) kql.Expr { return kql.Call("dcount", column) }

// Percentile renders percentile(column, p).
func Percentile(column any, p float64) kql.Expr { return kql.Call("percentile", column, p) }

// ArgMax renders arg_max(by, columns...). With no columns it renders
// arg_max(by, *).
func ArgMax(by any, columns ...any) kql.Expr { return argExtreme("arg_max", by, columns) }

// ArgMin renders arg_min(by, columns...).
func ArgMin(by any, columns ...any) kql.Expr { return argExtreme("arg_min", by, columns) }

func argExtreme(name string, by any, columns []any) kql.Expr {
	args := append([]any{by}, columns...)
	if len(columns) == 0 {
		args = append(args, kql.Col("*"))
	}
	return kql.Call(name, args...)
}
