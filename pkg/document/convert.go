package document

import (
	"math"

	"go.starlark.net/starlark"
)

// Scalar enumerates the concrete Go types a document entry converts to.
type Scalar interface {
	bool | int | float32 | float64 | string
}

// tryConvert attempts a best-effort conversion of a resolved value to T. It
// never raises; the boolean result is false on any mismatch. Booleans and
// strings accept no coercion from other types; integers require the numeric
// value to be exactly integral.
func tryConvert[T Scalar](v starlark.Value) (T, bool) {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		b, ok := v.(starlark.Bool)
		if !ok {
			return out, false
		}
		*p = bool(b)
	case *int:
		n, ok := exactInt(v)
		if !ok {
			return out, false
		}
		*p = n
	case *float32:
		f, ok := starlark.AsFloat(v)
		if !ok {
			return out, false
		}
		*p = float32(f)
	case *float64:
		f, ok := starlark.AsFloat(v)
		if !ok {
			return out, false
		}
		*p = f
	case *string:
		s, ok := v.(starlark.String)
		if !ok {
			return out, false
		}
		*p = string(s)
	}
	return out, true
}

// convert is the raising variant of tryConvert: on mismatch it returns a
// type mismatch error naming the fully-prefixed entry and the document.
func convert[T Scalar](d *Document, entry string, v starlark.Value) (T, error) {
	out, ok := tryConvert[T](v)
	if !ok {
		return out, &AccessError{
			Kind:     KindTypeMismatch,
			Entry:    entry,
			Document: d.session.path,
			Message:  "the entry is not " + typeName[T]() + " (got " + v.Type() + ")",
		}
	}
	return out, nil
}

// exactInt converts a numeric value to int, requiring the truncated value to
// round-trip exactly: 12 and 12.0 convert, 12.5 does not.
func exactInt(v starlark.Value) (int, bool) {
	switch n := v.(type) {
	case starlark.Int:
		i, ok := n.Int64()
		if !ok || int64(int(i)) != i {
			return 0, false
		}
		return int(i), true
	case starlark.Float:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		t := math.Trunc(f)
		// The upper bound is exclusive: 2^63-1 is not representable in
		// float64 and MaxInt64 rounds up to 2^63, which overflows int64.
		// The lower bound -2^63 is exact and in range.
		if t != f || t < math.MinInt64 || t >= math.Ldexp(1, 63) {
			return 0, false
		}
		i := int64(t)
		if int64(int(i)) != i {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// typeName describes T in error messages.
func typeName[T Scalar]() string {
	var zero T
	switch any(zero).(type) {
	case bool:
		return "a boolean"
	case int:
		return "an integer"
	case float32:
		return "a float"
	case float64:
		return "a double"
	case string:
		return "a string"
	}
	return "of a supported type"
}
