package fn

import (
	"time"

	"github.com/razeghi71/kq/kql"
)

// Ago renders ago(d), e.g. ago(1d).
func Ago(d time.Duration) kql.Expr { return kql.Call("ago", d) }

// Now renders now().
func Now() kql.Expr { return kql.Call("now") }

// Bin renders bin(value, size). Size is usually a number or time.Duration.
func Bin(value, size any) kql.Expr { return kql.Call("bin", value, size) }

// Floor renders floor(value, size).
func Floor(value, size any) kql.Expr { return kql.Call("floor", value, size) }

// Round renders round(value, precision).
func Round(value any, precision int) kql.Expr {

	return kql.Call("round", value, precision)
}

// StartOfDay renders startofday(value).
func StartOfDay(value any) kql.Expr { return kql.Call("startofday", value) }

// StartOfMonth renders startofmonth(value).
func StartOfMonth(value any) kql.Expr { return kql.Call("startofmonth", value) }

// FormatDatetime renders format_datetime(value, 'format').
func FormatDatetime(value any, format string) kql.Expr {
	return kql.Call("format_datetime", value, kql.Lit(format))
}

// Strcat renders strcat(args...).
func Strcat(args ...any) kql.Expr { return kql.Call("strcat", args...) }

// Strlen renders strlen(value).
func Strlen(value any) kql.Expr { return kql.Call("strlen", value) }

// ToLower renders tolower(value).
func ToLower(value any) kql.Expr { return kql.Call("tolower", value) }

// ToUpper renders toupper(value).
func ToUpper(value any) kql.Expr { return kql.Call("toupper", value) }

// Substring renders substring(value, start, length).
func Substring(value any, start, length int) kql.Expr {
	return kql.Call("substring", value, start, length)
}

// ToString renders tostring(value).
func ToString(value any) kql.Expr { return kql.Call("tostring", value) }

// ToInt renders toint(value).
func ToInt(value any) kql.Expr { return kql.Call("toint", value) }

// ToLong renders tolong(value).
func ToLong(value any) kql.Expr { return kql.Call("tolong", value) }

// ToReal renders toreal(value).
func ToReal(value any) kql.Expr { return kql.Call("toreal", value) }

// IsEmpty renders isempty(value).
func IsEmpty(value any) kql.Expr { return kql.Call("isempty", value) }

// IsNotEmpty renders isnotempty(value).
func IsNotEmpty(value any) kql.Expr { return kql.Call("isnotempty", value) }

// IsNull renders isnull(value).
func IsNull(value any) kql.Expr { return kql.Call("isnull", value) }

// IsNotNull renders isnotnull(value).
func IsNotNull(value any) kql.Expr { return kql.Call("isnotnull", value) }

// Coalesce renders coalesce(values...), the first non-null value.
func Coalesce(values ...any) kql.Expr { return kql.Call("coalesce", values...) }

// Iff renders iff(predicate, then, otherwise).
func Iff(predicate, then, otherwise any) kql.Expr {
	return kql.Call("iff", predicate, then, otherwise)
}

// Case renders case(predicate1, then1, ..., otherwise).
func Case(args ...any) kql.Expr { return kql.Call("case", args...) }
