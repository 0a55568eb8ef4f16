package render

import (
	"database/sql/driver"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/fluentql/internal/types"
)

// TimeLayout is the layout used when a time.Time is inlined as a literal.
const TimeLayout = "2006-01-02 15:04:05"

// Normalize converts value the way database/sql converts a query
// argument: Valuers are called, pointers are dereferenced and named
// scalar types collapse to int64, float64, bool, string, []byte or
// time.Time. Non-finite floats are rejected.
func Normalize(value any) (driver.Value, error) {
	v, err := driver.DefaultParameterConverter.ConvertValue(value)
	if err != nil {
		return nil, malformed(types.ValueLiteral, "cannot bind %T: %v", value, err)
	}
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil, malformed(types.ValueLiteral, "non-finite float %v", f)
	}
	return v, nil
}

// Literal renders value as an inline SQL literal for d.
func Literal(d Dialect, value any) (string, error) {
	v, err := Normalize(value)
	if err != nil {
		return "", err
	}
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return d.QuoteString(v), nil
	case []byte:
		return d.QuoteString(string(v)), nil
	case bool:
		return d.FormatBool(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return d.QuoteString(v.Format(TimeLayout)), nil
	default:
		return "", malformed(types.ValueLiteral, "cannot inline %T", v)
	}
}

// IsNumeric reports whether value binds as an integer or float.
func IsNumeric(value any) bool {
	v, err := Normalize(value)
	if err != nil {
		return false
	}
	switch v.(type) {
	case int64, float64:
		return true
	default:
		return false
	}
}

// DoubleQuote escapes single quotes by doubling them, the ANSI rule.
func DoubleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
