package validator

import (
	"math"
	"reflect"
)

// ref addresses one value slot inside its containing object or list so
// resolution sites can rewrite the value in place.
type ref struct {
	object map[string]interface{}
	field  string
	list   []interface{}
	index  int
}

// value returns the addressed value.
func (r ref) value() interface{} {
	if r.object != nil {
		return r.object[r.field]
	}
	return r.list[r.index]
}

// assign rewrites the addressed value in its container.
func (r ref) assign(value interface{}) {
	if r.object != nil {
		r.object[r.field] = value
		return
	}
	r.list[r.index] = value
}

// numericValue coerces any numeric Go value to float64. JSON numbers
// decode as float64; integers may also arrive as native int variants.
func numericValue(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// integralValue reports whether value is a numeric with no fractional
// part, returning it as float64.
func integralValue(value interface{}) (float64, bool) {
	n, ok := numericValue(value)
	if !ok {
		return 0, false
	}
	if math.Trunc(n) != n || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// structurallyEqual reports deep equality between two decoded JSON
// values.
func structurallyEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}
