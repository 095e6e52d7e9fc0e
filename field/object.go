package field

import (
	"context"
	"strconv"

	modelo "github.com/norell/modelo"
	js "github.com/norell/modelo/jsonschema"
)

// Model returns a field wrapping a nested schema. Decode turns a raw mapping
// into an instance of that schema; Encode turns an instance back into a raw
// mapping.
func Model(s *modelo.Schema) *ModelField { return &ModelField{schema: s} }

// ModelField converts between raw mappings and instances of a wrapped schema.
type ModelField struct {
	schema  *modelo.Schema
	backRef string
}

// RelatedName configures a back-reference: after an enclosing decode the
// child instance exposes its parent under Related(name). Back-references
// never appear in serialized output.
func (f *ModelField) RelatedName(name string) *ModelField {
	f.backRef = name
	return f
}

// BackRef reports the configured back-reference name; the model layer probes
// it while hydrating.
func (f *ModelField) BackRef() string { return f.backRef }

func (f *ModelField) Decode(ctx context.Context, raw any) (any, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case *modelo.Model:
		if t == nil {
			return nil, nil
		}
		if t.Schema() != f.schema {
			return nil, invalidType(raw, "expected instance of "+f.schema.Name())
		}
		return t, nil
	case map[string]any:
		return f.schema.FromDict(ctx, t)
	}
	return nil, invalidType(raw, "expected mapping")
}

func (f *ModelField) Encode(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *modelo.Model:
		if t == nil {
			return nil, nil
		}
		return t.ToDict(ctx)
	}
	return nil, invalidType(v, "expected *modelo.Model")
}

func (f *ModelField) JSONSchema() (*js.Schema, error) { return f.schema.JSONSchema() }

// Models returns a field wrapping an ordered collection of nested-schema
// instances. Decode maps a raw sequence elementwise through the schema;
// element order is preserved and an absent sequence yields an empty slice.
func Models(s *modelo.Schema) *ModelListField { return &ModelListField{schema: s} }

// ModelListField converts between raw sequences of mappings and []*modelo.Model.
type ModelListField struct {
	schema  *modelo.Schema
	backRef string
}

// RelatedName configures the back-reference applied to every decoded element.
func (f *ModelListField) RelatedName(name string) *ModelListField {
	f.backRef = name
	return f
}

// BackRef reports the configured back-reference name.
func (f *ModelListField) BackRef() string { return f.backRef }

func (f *ModelListField) Decode(ctx context.Context, raw any) (any, error) {
	switch src := raw.(type) {
	case nil:
		return []*modelo.Model{}, nil
	case []*modelo.Model:
		out := make([]*modelo.Model, 0, len(src))
		for i, el := range src {
			if el == nil {
				out = append(out, nil)
				continue
			}
			if el.Schema() != f.schema {
				return nil, invalidType(el, "expected instance of "+f.schema.Name()+" at index "+strconv.Itoa(i))
			}
			out = append(out, el)
		}
		return out, nil
	case []any:
		out := make([]*modelo.Model, 0, len(src))
		for i, el := range src {
			ev, err := f.decodeElem(ctx, el)
			if err != nil {
				return nil, modelo.RebaseIssues("/"+strconv.Itoa(i), err)
			}
			out = append(out, ev)
		}
		return out, nil
	}
	return nil, invalidType(raw, "expected array")
}

func (f *ModelListField) decodeElem(ctx context.Context, el any) (*modelo.Model, error) {
	switch t := el.(type) {
	case nil:
		return nil, nil
	case *modelo.Model:
		if t == nil {
			return nil, nil
		}
		if t.Schema() != f.schema {
			return nil, invalidType(el, "expected instance of "+f.schema.Name())
		}
		return t, nil
	case map[string]any:
		return f.schema.FromDict(ctx, t)
	}
	return nil, invalidType(el, "expected mapping")
}

func (f *ModelListField) Encode(ctx context.Context, v any) (any, error) {
	switch src := v.(type) {
	case nil:
		return []any{}, nil
	case []*modelo.Model:
		out := make([]any, 0, len(src))
		for i, el := range src {
			if el == nil {
				out = append(out, nil)
				continue
			}
			d, err := el.ToDict(ctx)
			if err != nil {
				return nil, modelo.RebaseIssues("/"+strconv.Itoa(i), err)
			}
			out = append(out, d)
		}
		return out, nil
	}
	return nil, invalidType(v, "expected []*modelo.Model")
}

func (f *ModelListField) JSONSchema() (*js.Schema, error) {
	es, err := f.schema.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: es}, nil
}
