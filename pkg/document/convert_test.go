package document

import (
	"math"
	"testing"

	"go.starlark.net/starlark"
)

func TestTryConvert_Int(t *testing.T) {
	tests := []struct {
		name  string
		value starlark.Value
		want  int
		ok    bool
	}{
		{name: "int", value: starlark.MakeInt(12), want: 12, ok: true},
		{name: "negative int", value: starlark.MakeInt(-7), want: -7, ok: true},
		{name: "integral float", value: starlark.Float(12.0), want: 12, ok: true},
		{name: "negative integral float", value: starlark.Float(-3.0), want: -3, ok: true},
		{name: "fractional float", value: starlark.Float(12.5), ok: false},
		{name: "negative fractional float", value: starlark.Float(-0.5), ok: false},
		{name: "huge float", value: starlark.Float(1e300), ok: false},
		{name: "float at 2^63 overflows", value: starlark.Float(math.Ldexp(1, 63)), ok: false},
		{name: "float just above 2^63 overflows", value: starlark.Float(math.Nextafter(math.Ldexp(1, 63), math.Inf(1))), ok: false},
		{name: "largest in-range float", value: starlark.Float(math.Nextafter(math.Ldexp(1, 63), 0)), want: 9223372036854774784, ok: true},
		{name: "float at -2^63", value: starlark.Float(math.MinInt64), want: math.MinInt64, ok: true},
		{name: "float below -2^63 overflows", value: starlark.Float(math.Nextafter(math.MinInt64, math.Inf(-1))), ok: false},
		{name: "string", value: starlark.String("12"), ok: false},
		{name: "bool", value: starlark.True, ok: false},
		{name: "list", value: starlark.NewList(nil), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tryConvert[int](tt.value)
			if ok != tt.ok {
				t.Fatalf("tryConvert[int](%v) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("tryConvert[int](%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestTryConvert_Scalars(t *testing.T) {
	tests := []struct {
		name      string
		checkFunc func(*testing.T)
	}{
		{
			name: "bool only from bool",
			checkFunc: func(t *testing.T) {
				if v, ok := tryConvert[bool](starlark.True); !ok || !v {
					t.Error("expected true")
				}
				if _, ok := tryConvert[bool](starlark.MakeInt(1)); ok {
					t.Error("bool must not coerce from int")
				}
				if _, ok := tryConvert[bool](starlark.String("true")); ok {
					t.Error("bool must not coerce from string")
				}
			},
		},
		{
			name: "string only from string",
			checkFunc: func(t *testing.T) {
				if v, ok := tryConvert[string](starlark.String("x")); !ok || v != "x" {
					t.Error("expected 'x'")
				}
				if _, ok := tryConvert[string](starlark.MakeInt(1)); ok {
					t.Error("string must not coerce from int")
				}
			},
		},
		{
			name: "double widens from int and float",
			checkFunc: func(t *testing.T) {
				if v, ok := tryConvert[float64](starlark.MakeInt(3)); !ok || v != 3.0 {
					t.Error("expected 3.0")
				}
				if v, ok := tryConvert[float64](starlark.Float(12.5)); !ok || v != 12.5 {
					t.Error("expected 12.5, no exactness check for doubles")
				}
				if _, ok := tryConvert[float64](starlark.String("3")); ok {
					t.Error("double must not coerce from string")
				}
			},
		},
		{
			name: "float narrows without exactness check",
			checkFunc: func(t *testing.T) {
				if v, ok := tryConvert[float32](starlark.Float(12.5)); !ok || v != 12.5 {
					t.Error("expected 12.5")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFunc(t)
		})
	}
}
