package field

import (
	"context"
	"strconv"

	modelo "github.com/norell/modelo"
	js "github.com/norell/modelo/jsonschema"
)

// List returns a field wrapping an ordered collection of elem values. Decode
// applies elem.Decode to every element in order; the first element failure
// aborts with the element index on the issue path. An absent sequence yields
// an empty slice, a present non-sequence fails.
func List(elem modelo.Field) modelo.Field { return listField{elem: elem} }

type listField struct{ elem modelo.Field }

func (f listField) Decode(ctx context.Context, raw any) (any, error) {
	switch src := raw.(type) {
	case nil:
		return []any{}, nil
	case []any:
		out := make([]any, 0, len(src))
		for i := range src {
			ev, err := f.elem.Decode(ctx, src[i])
			if err != nil {
				return nil, modelo.RebaseIssues("/"+strconv.Itoa(i), err)
			}
			out = append(out, ev)
		}
		return out, nil
	}
	return nil, invalidType(raw, "expected array")
}

func (f listField) Encode(ctx context.Context, v any) (any, error) {
	switch src := v.(type) {
	case nil:
		return []any{}, nil
	case []any:
		out := make([]any, 0, len(src))
		for i := range src {
			wire, err := f.elem.Encode(ctx, src[i])
			if err != nil {
				return nil, modelo.RebaseIssues("/"+strconv.Itoa(i), err)
			}
			out = append(out, wire)
		}
		return out, nil
	}
	return nil, invalidType(v, "expected []any")
}

func (f listField) JSONSchema() (*js.Schema, error) {
	es, err := f.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: es}, nil
}
