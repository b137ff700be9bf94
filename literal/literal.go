// Package literal converts host values into query-language literal text.
package literal

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/razeghi71/kq/table"
)

// ErrUnsupportedType is returned for values that have no literal form.
var ErrUnsupportedType = errors.New("unsupported literal type")

// Tick is the finest timespan resolution the backend represents.
const Tick = 100 * time.Nanosecond

// Render converts v to its literal text.
func Render(v any) (string, error) {
	val, err := FromGo(v)
	if err != nil {
		return "", err
	}
	return Format(val), nil
}

// FromGo converts a Go value to a table.Value. Slices and arrays become
// lists, converted element by element. Named types convert by their kind.
func FromGo(v any) (table.Value, error) {
	switch val := v.(type) {
	case nil:
		return table.Null(), nil
	case table.Value:
		return val, nil
	case []table.Value:
		return table.ListVal(val...), nil
	case string:
		return table.StrVal(val), nil
	case bool:
		return table.BoolVal(val), nil
	case int:
		return table.IntVal(int64(val)), nil
	case int64:
		return table.IntVal(val), nil
	case float64:
		return table.FloatVal(val), nil
	case time.Time:
		return table.TimeVal(val), nil
	case time.Duration:
		if val%Tick != 0 {
			return table.Null(), fmt.Errorf("%w: timespan %s is finer than 100ns", ErrUnsupportedType, val)
		}
		return table.DurationVal(val), nil
	case []byte:
		return table.Null(), fmt.Errorf("%w: []byte", ErrUnsupportedType)
	}
	return fromKind(reflect.ValueOf(v))
}

func fromKind(rv reflect.Value) (table.Value, error) {
	switch rv.Kind() {
	case reflect.String:
		return table.StrVal(rv.String()), nil
	case reflect.Bool:
		return table.BoolVal(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return table.IntVal(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return table.Null(), fmt.Errorf("%w: %d overflows long", ErrUnsupportedType, u)
		}
		return table.IntVal(int64(u)), nil
	case reflect.Float32:
		// Round-trip through the shortest float32 text so 0.1 stays 0.1.
		f, err := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		if err != nil {
			return table.Null(), fmt.Errorf("%w: float32 %v", ErrUnsupportedType, rv.Float())
		}
		return table.FloatVal(f), nil
	case reflect.Float64:
		return table.FloatVal(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return table.Null(), fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
		}
		items := make([]table.Value, rv.Len())
		for i := range items {
			item, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return table.Null(), fmt.Errorf("list element %d: %w", i, err)
			}
			items[i] = item
		}
		return table.Value{Type: table.TypeList, List: items}, nil
	default:
		return table.Null(), fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
	}
}

// Format renders a value as literal text.
func Format(v table.Value) string {
	switch v.Type {
	case table.TypeNull:
		return "dynamic(null)"
	case table.TypeInt:
		return strconv.FormatInt(v.Int, 10)
	case table.TypeFloat:
		return formatReal(v.Float)
	case table.TypeString:
		return Quote(v.Str)
	case table.TypeBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case table.TypeDatetime:
		return "datetime(" + v.Time.UTC().Format(time.RFC3339Nano) + ")"
	case table.TypeTimespan:
		return formatTimespan(v.Duration)
	case table.TypeList:
		return formatList(v.List)
	default:
		return "dynamic(null)"
	}
}

var quoter = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Quote returns s as a single-quoted string literal with backslash escapes.
func Quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}

func formatList(items []table.Value) string {
	if len(items) == 0 {
		return "dynamic([])"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Format(item)
	}
	return "dynamic([\n\t" + strings.Join(parts, ",\n\t") + "\n])"
}

func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "real(nan)"
	case math.IsInf(f, 1):
		return "real(+inf)"
	case math.IsInf(f, -1):
		return "real(-inf)"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var timespanUnits = []struct {
	size      time.Duration
	one, many string
}{
	{24 * time.Hour, "d", "d"},
	{time.Hour, "h", "h"},
	{time.Minute, "m", "m"},
	{time.Second, "s", "s"},
	{time.Millisecond, "ms", "ms"},
	{time.Microsecond, "microsecond", "microseconds"},
	{Tick, "tick", "ticks"},
}

// formatTimespan picks the largest unit that represents d exactly.
// Precision below one tick is truncated.
func formatTimespan(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	for _, u := range timespanUnits {
		if d%u.size != 0 && u.size != Tick {
			continue
		}
		n := int64(d / u.size)
		unit := u.many
		if n == 1 || n == -1 {
			unit = u.one
		}
		return strconv.FormatInt(n, 10) + unit
	}
	return "0s"
}

// TypeName returns the column type name used in datatable headers.
func TypeName(t table.ValueType) string {
	switch t {
	case table.TypeInt:
		return "long"
	case table.TypeFloat:
		return "real"
	case table.TypeString:
		return "string"
	case table.TypeBool:
		return "bool"
	case table.TypeDatetime:
		return "datetime"
	case table.TypeTimespan:
		return "timespan"
	default:
		return "dynamic"
	}
}

// TypedNull returns the null literal for a column of type t. Strings have no
// null and render as the empty string.
func TypedNull(t table.ValueType) string {
	if t == table.TypeString {
		return "''"
	}
	return TypeName(t) + "(null)"
}
