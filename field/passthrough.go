package field

import (
	"context"

	modelo "github.com/norell/modelo"
	js "github.com/norell/modelo/jsonschema"
)

// Any returns a field that stores raw values untouched. Useful for schema
// corners whose shape is not worth declaring.
func Any() modelo.Field { return anyField{} }

type anyField struct{}

func (anyField) Decode(ctx context.Context, raw any) (any, error) { return raw, nil }
func (anyField) Encode(ctx context.Context, v any) (any, error)   { return v, nil }
func (anyField) JSONSchema() (*js.Schema, error)                  { return &js.Schema{}, nil }

// Map returns a field that coerces raw mappings to map[string]any. YAML-style
// map[any]any input is normalized recursively; non-string keys fail.
func Map() modelo.Field { return mapField{} }

type mapField struct{}

func (mapField) Decode(ctx context.Context, raw any) (any, error) {
	switch raw.(type) {
	case nil:
		return nil, nil
	case map[string]any, map[any]any:
		return normalizeMapKeys(raw)
	}
	return nil, invalidType(raw, "expected mapping")
}

func (mapField) Encode(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return t, nil
	}
	return nil, invalidType(v, "expected map[string]any")
}

func (mapField) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "object", AdditionalProperties: true}, nil
}

// normalizeMapKeys rewrites map[any]any trees into map[string]any, failing on
// the first non-string key.
func normalizeMapKeys(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := normalizeMapKeys(vv)
			if err != nil {
				return nil, modelo.RebaseIssues("/"+k, err)
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, invalidType(k, "expected string key")
			}
			nv, err := normalizeMapKeys(vv)
			if err != nil {
				return nil, modelo.RebaseIssues("/"+ks, err)
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i := range t {
			nv, err := normalizeMapKeys(t[i])
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}
