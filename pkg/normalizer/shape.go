package normalizer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Shape is the variant of a decoded JSON-LD value. Every field flattener
// switches on it instead of type-asserting ad hoc.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeString
	ShapeList
	ShapeObject
	ShapeScalar
)

func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeList:
		return "list"
	case ShapeObject:
		return "object"
	case ShapeScalar:
		return "scalar"
	default:
		return "none"
	}
}

// ShapeOf classifies a value produced by a JSON decoder.
func ShapeOf(v any) Shape {
	switch v.(type) {
	case nil:
		return ShapeNone
	case string:
		return ShapeString
	case []any:
		return ShapeList
	case map[string]any:
		return ShapeObject
	case json.Number, float64, int, int64, bool:
		return ShapeScalar
	default:
		return ShapeNone
	}
}

// scalarString renders a number or boolean as text.
func scalarString(v any) string {
	switch val := v.(type) {
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

// scalarValue converts json.Number into int64 when it is integral and
// float64 otherwise. Strings are trimmed; empty results are reported as absent.
func scalarValue(v any) (any, bool) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}
		if f, err := val.Float64(); err == nil {
			return f, true
		}
		return nil, false
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case float64, int, int64, bool:
		return val, true
	}
	return nil, false
}
