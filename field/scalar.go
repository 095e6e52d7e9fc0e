package field

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	modelo "github.com/norell/modelo"
	"github.com/norell/modelo/i18n"
	js "github.com/norell/modelo/jsonschema"
)

// String returns a field that coerces scalar raw values to string.
func String() modelo.Field { return stringField{} }

// Int returns a field that coerces integral raw values to int64. Fractional
// numbers and fractional numeric text fail.
func Int() modelo.Field { return intField{} }

// Float returns a field that coerces numeric raw values to float64.
func Float() modelo.Field { return floatField{} }

// Bool returns a field that coerces recognizable raw values to bool:
// booleans, "true"/"false"/"1"/"0" text, and numbers (zero is false).
func Bool() modelo.Field { return boolField{} }

type stringField struct{}

func (stringField) Decode(ctx context.Context, raw any) (any, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(t).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(t).Uint(), 10), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 64), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	}
	return nil, invalidType(raw, "expected string or scalar")
}

func (stringField) Encode(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return t, nil
	}
	return nil, invalidType(v, "expected string")
}

func (stringField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

type intField struct{}

func (intField) Decode(ctx context.Context, raw any) (any, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case int, int8, int16, int32, int64:
		return reflect.ValueOf(t).Int(), nil
	case uint, uint8, uint16, uint32, uint64:
		u64 := reflect.ValueOf(t).Uint()
		if u64 > math.MaxInt64 {
			return nil, overflow(raw, "int64 overflow")
		}
		return int64(u64), nil
	case float32:
		return intFromFloat(float64(t), raw)
	case float64:
		return intFromFloat(t, raw)
	case json.Number:
		if i64, err := t.Int64(); err == nil {
			return i64, nil
		}
		f64, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, invalidTypeCause(raw, "expected integer", err)
		}
		return intFromFloat(f64, raw)
	case string:
		s := strings.TrimSpace(t)
		if i64, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i64, nil
		}
		f64, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalidTypeCause(raw, "expected integral text", err)
		}
		return intFromFloat(f64, raw)
	}
	return nil, invalidType(raw, "expected integer")
}

func (intField) Encode(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int64:
		return t, nil
	}
	return nil, invalidType(v, "expected int64")
}

func (intField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

func intFromFloat(f float64, raw any) (any, error) {
	if math.Trunc(f) != f {
		return nil, invalidType(raw, "fractional part not allowed")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, overflow(raw, "int64 overflow")
	}
	return int64(f), nil
}

type floatField struct{}

func (floatField) Decode(ctx context.Context, raw any) (any, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(t).Int()), nil
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(t).Uint()), nil
	case json.Number:
		f64, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, invalidTypeCause(raw, "expected number", err)
		}
		return f64, nil
	case string:
		f64, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, invalidTypeCause(raw, "expected numeric text", err)
		}
		return f64, nil
	}
	return nil, invalidType(raw, "expected number")
}

func (floatField) Encode(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return t, nil
	}
	return nil, invalidType(v, "expected float64")
}

func (floatField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

type boolField struct{}

func (boolField) Decode(ctx context.Context, raw any) (any, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, invalidType(raw, `expected "true"/"false"/"1"/"0"`)
	case json.Number:
		f64, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, invalidTypeCause(raw, "expected boolean", err)
		}
		return f64 != 0, nil
	case int, int8, int16, int32, int64:
		return reflect.ValueOf(t).Int() != 0, nil
	case uint, uint8, uint16, uint32, uint64:
		return reflect.ValueOf(t).Uint() != 0, nil
	case float32:
		return t != 0, nil
	case float64:
		return t != 0, nil
	}
	return nil, invalidType(raw, "expected boolean")
}

func (boolField) Encode(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return t, nil
	}
	return nil, invalidType(v, "expected bool")
}

func (boolField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

// ---- helpers ----

// invalidType builds the standard failure for an unconvertible raw value.
func invalidType(got any, hint string) modelo.Issues {
	return modelo.Issues{modelo.Issue{Path: "/", Code: modelo.CodeInvalidType, Message: i18n.T(modelo.CodeInvalidType, nil), Hint: hint, Params: map[string]any{"got": got}}}
}

func invalidTypeCause(got any, hint string, cause error) modelo.Issues {
	return modelo.Issues{modelo.Issue{Path: "/", Code: modelo.CodeInvalidType, Message: i18n.T(modelo.CodeInvalidType, nil), Hint: hint, Cause: cause, Params: map[string]any{"got": got}}}
}

func overflow(got any, hint string) modelo.Issues {
	return modelo.Issues{modelo.Issue{Path: "/", Code: modelo.CodeOverflow, Message: i18n.T(modelo.CodeOverflow, nil), Hint: hint, Params: map[string]any{"got": got}}}
}
