// Package ctybridge converts between cty values and modelo raw mappings so
// models can hydrate from HCL-decoded configuration objects and serialize
// back into expression-friendly values.
package ctybridge

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	modelo "github.com/norell/modelo"
	"github.com/norell/modelo/i18n"
)

// FromValue converts a cty value into the raw shape FromDict consumes:
// objects and maps become map[string]any, lists, tuples and sets become
// []any, strings, numbers and bools become native scalars. Whole numbers
// land as int64, everything else as float64. Null becomes nil; unknown
// values fail.
func FromValue(v cty.Value) (any, error) {
	return fromValue("/", v)
}

func fromValue(path string, v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, modelo.Issues{modelo.Issue{Path: path, Code: modelo.CodeInvalidType, Message: i18n.T(modelo.CodeInvalidType, nil), Hint: "unknown value"}}
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var i int64
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, modelo.Issues{modelo.Issue{Path: path, Code: modelo.CodeOverflow, Message: i18n.T(modelo.CodeOverflow, nil), Cause: err}}
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for i := 0; it.Next(); i++ {
			_, ev := it.Element()
			nv, err := fromValue(childPath(path, strconv.Itoa(i)), ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			kv, ev := it.Element()
			key := kv.AsString()
			nv, err := fromValue(childPath(path, key), ev)
			if err != nil {
				return nil, err
			}
			out[key] = nv
		}
		return out, nil
	}

	return nil, modelo.Issues{modelo.Issue{Path: path, Code: modelo.CodeInvalidType, Message: i18n.T(modelo.CodeInvalidType, nil), Hint: "unsupported cty type " + ty.FriendlyName()}}
}

// ToValue converts a native raw value into a cty value. Mappings become
// objects and sequences become tuples, so heterogeneous element types stay
// representable; scalars go through gocty's implied-type conversion.
func ToValue(v any) (cty.Value, error) {
	return toValue("/", v)
}

func toValue(path string, v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return t, nil
	case map[string]any:
		attrs := make(map[string]cty.Value, len(t))
		for k, vv := range t {
			cv, err := toValue(childPath(path, k), vv)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		elems := make([]cty.Value, 0, len(t))
		for i := range t {
			cv, err := toValue(childPath(path, strconv.Itoa(i)), t[i])
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, cv)
		}
		return cty.TupleVal(elems), nil
	case json.Number:
		cv, err := cty.ParseNumberVal(t.String())
		if err != nil {
			return cty.NilVal, toValueIssue(path, v, err)
		}
		return cv, nil
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, toValueIssue(path, v, err)
	}
	cv, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return cty.NilVal, toValueIssue(path, v, err)
	}
	return cv, nil
}

func toValueIssue(path string, got any, cause error) modelo.Issues {
	return modelo.Issues{modelo.Issue{Path: path, Code: modelo.CodeInvalidType, Message: i18n.T(modelo.CodeInvalidType, nil), Cause: cause, Params: map[string]any{"got": got}}}
}

// Decode hydrates an instance of s from a cty object or map value.
func Decode(ctx context.Context, s *modelo.Schema, v cty.Value) (*modelo.Model, error) {
	raw, err := FromValue(v)
	if err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, modelo.Issues{modelo.Issue{Path: "/", Code: modelo.CodeInvalidType, Message: i18n.T(modelo.CodeInvalidType, nil), Hint: "expected object value", Params: map[string]any{"got": raw}}}
	}
	return s.FromDict(ctx, obj)
}

// Encode serializes a model into a cty object value.
func Encode(ctx context.Context, m *modelo.Model) (cty.Value, error) {
	raw, err := m.ToDict(ctx)
	if err != nil {
		return cty.NilVal, err
	}
	return ToValue(raw)
}

func childPath(base, seg string) string {
	if base == "/" {
		return "/" + seg
	}
	return base + "/" + seg
}
