package field_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	modelo "github.com/norell/modelo"
	"github.com/norell/modelo/field"
)

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	iss, ok := modelo.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestStringField_Decode(t *testing.T) {
	f := field.String()
	ctx := context.Background()

	cases := []struct {
		raw  any
		want string
	}{
		{"hello", "hello"},
		{json.Number("3.5"), "3.5"},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(9), "9"},
		{2.5, "2.5"},
	}
	for _, tc := range cases {
		v, err := f.Decode(ctx, tc.raw)
		if err != nil || v != tc.want {
			t.Fatalf("decode %#v: want %q, got %v err=%v", tc.raw, tc.want, v, err)
		}
	}

	// nil passes through
	if v, err := f.Decode(ctx, nil); err != nil || v != nil {
		t.Fatalf("nil must pass through, got %v err=%v", v, err)
	}

	// non-scalar fails
	_, err := f.Decode(ctx, []any{"x"})
	wantCode(t, err, modelo.CodeInvalidType)
}

func TestStringField_Encode(t *testing.T) {
	f := field.String()
	ctx := context.Background()

	if v, err := f.Encode(ctx, "x"); err != nil || v != "x" {
		t.Fatalf("encode identity expected, got %v err=%v", v, err)
	}
	if v, err := f.Encode(ctx, nil); err != nil || v != nil {
		t.Fatalf("nil must pass through, got %v err=%v", v, err)
	}
	_, err := f.Encode(ctx, 42)
	wantCode(t, err, modelo.CodeInvalidType)
}

func TestIntField_Decode(t *testing.T) {
	f := field.Int()
	ctx := context.Background()

	ok := []struct {
		raw  any
		want int64
	}{
		{42, 42},
		{int64(-3), -3},
		{uint64(7), 7},
		{float64(42), 42},
		{json.Number("42"), 42},
		{json.Number("4e2"), 400},
		{"42", 42},
		{" 42 ", 42},
		{"-15", -15},
	}
	for _, tc := range ok {
		v, err := f.Decode(ctx, tc.raw)
		if err != nil || v != tc.want {
			t.Fatalf("decode %#v: want %d, got %v err=%v", tc.raw, tc.want, v, err)
		}
	}

	// fractional input is rejected, not truncated
	for _, raw := range []any{4.5, "4.5", json.Number("4.5")} {
		_, err := f.Decode(ctx, raw)
		wantCode(t, err, modelo.CodeInvalidType)
	}

	// overflow
	_, err := f.Decode(ctx, uint64(math.MaxInt64)+1)
	wantCode(t, err, modelo.CodeOverflow)

	// garbage
	_, err = f.Decode(ctx, "abc")
	wantCode(t, err, modelo.CodeInvalidType)
	_, err = f.Decode(ctx, true)
	wantCode(t, err, modelo.CodeInvalidType)

	if v, err := f.Decode(ctx, nil); err != nil || v != nil {
		t.Fatalf("nil must pass through, got %v err=%v", v, err)
	}
}

func TestIntField_RoundTrip(t *testing.T) {
	f := field.Int()
	ctx := context.Background()

	v, err := f.Decode(ctx, int64(42))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	out, err := f.Encode(ctx, v)
	if err != nil || out != int64(42) {
		t.Fatalf("round trip mismatch: %v err=%v", out, err)
	}

	// decode is idempotent over its own output
	v2, err := f.Decode(ctx, v)
	if err != nil || v2 != v {
		t.Fatalf("re-decode changed the value: %v err=%v", v2, err)
	}
}

func TestFloatField_Decode(t *testing.T) {
	f := field.Float()
	ctx := context.Background()

	ok := []struct {
		raw  any
		want float64
	}{
		{3.14, 3.14},
		{float32(0.5), 0.5},
		{2, 2},
		{uint16(3), 3},
		{json.Number("2.5"), 2.5},
		{"1e3", 1000},
		{" 2.25 ", 2.25},
	}
	for _, tc := range ok {
		v, err := f.Decode(ctx, tc.raw)
		if err != nil || v != tc.want {
			t.Fatalf("decode %#v: want %v, got %v err=%v", tc.raw, tc.want, v, err)
		}
	}

	_, err := f.Decode(ctx, "abc")
	wantCode(t, err, modelo.CodeInvalidType)
	_, err = f.Decode(ctx, map[string]any{})
	wantCode(t, err, modelo.CodeInvalidType)

	out, err := f.Encode(ctx, 2.5)
	if err != nil || out != 2.5 {
		t.Fatalf("encode identity expected, got %v err=%v", out, err)
	}
	_, err = f.Encode(ctx, "2.5")
	wantCode(t, err, modelo.CodeInvalidType)
}

func TestBoolField_Decode(t *testing.T) {
	f := field.Bool()
	ctx := context.Background()

	truthy := []any{true, "true", "TRUE", " 1 ", 1, json.Number("2"), float64(0.5)}
	for _, raw := range truthy {
		v, err := f.Decode(ctx, raw)
		if err != nil || v != true {
			t.Fatalf("decode %#v: want true, got %v err=%v", raw, v, err)
		}
	}
	falsy := []any{false, "false", "False", "0", 0, json.Number("0"), float64(0)}
	for _, raw := range falsy {
		v, err := f.Decode(ctx, raw)
		if err != nil || v != false {
			t.Fatalf("decode %#v: want false, got %v err=%v", raw, v, err)
		}
	}

	_, err := f.Decode(ctx, "yes")
	wantCode(t, err, modelo.CodeInvalidType)
	_, err = f.Decode(ctx, []any{})
	wantCode(t, err, modelo.CodeInvalidType)

	if v, err := f.Decode(ctx, nil); err != nil || v != nil {
		t.Fatalf("nil must pass through, got %v err=%v", v, err)
	}
	if v, err := f.Encode(ctx, true); err != nil || v != true {
		t.Fatalf("encode identity expected, got %v err=%v", v, err)
	}
}
