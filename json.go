package modelo

import (
	"bytes"
	"context"
	"strconv"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	json "github.com/goccy/go-json"

	"github.com/norell/modelo/i18n"
)

// FromJSON decodes a JSON object and hydrates an instance from it. Numbers
// survive as json.Number so large integers do not round through float64.
func (s *Schema) FromJSON(ctx context.Context, data []byte) (*Model, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{Issue{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected object", Params: map[string]any{"got": v}}}
	}
	return s.FromDict(ctx, obj)
}

// ToJSON serializes the instance as a JSON object whose keys follow
// declaration order, with extras after; nested instances emit recursively in
// their own order.
func (m *Model) ToJSON(ctx context.Context) ([]byte, error) {
	return m.ToJSONMode(ctx, EncodeCanonical)
}

// ToJSONMode is ToJSON with explicit output intent (see ToDictMode).
func (m *Model) ToJSONMode(ctx context.Context, mode EncodeMode) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.writeJSON(ctx, &buf, mode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToCanonicalJSON returns the RFC 8785 (JCS) canonical form of the
// serialized instance: sorted keys, normalized numbers, stable bytes for
// hashing and comparison.
func (m *Model) ToCanonicalJSON(ctx context.Context) ([]byte, error) {
	b, err := m.ToJSON(ctx)
	if err != nil {
		return nil, err
	}
	out, err := jsoncanonicalizer.Transform(b)
	if err != nil {
		return nil, IssuesFromError("/", err)
	}
	return out, nil
}

// writeJSON emits the object body. Maps cannot carry declaration order, so
// serialization iterates the declarations instead of a ToDict result.
func (m *Model) writeJSON(ctx context.Context, buf *bytes.Buffer, mode EncodeMode) error {
	buf.WriteByte('{')
	first := true
	writeOne := func(sp *FieldSpec) error {
		path := "/" + sp.Name
		if mode == EncodePreserve && m.omitPreserving(path) {
			return nil
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(sp.Key)
		if err != nil {
			return IssuesFromError(path, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		return m.writeJSONValue(ctx, buf, sp, path, mode)
	}
	for i := range m.schema.specs {
		if err := writeOne(&m.schema.specs[i]); err != nil {
			return err
		}
	}
	for i := range m.extras {
		if err := writeOne(&m.extras[i]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func (m *Model) writeJSONValue(ctx context.Context, buf *bytes.Buffer, sp *FieldSpec, path string, mode EncodeMode) error {
	switch t := m.values[sp.Name].(type) {
	case *Model:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		if err := t.writeJSON(ctx, buf, mode); err != nil {
			return RebaseIssues(path, err)
		}
		return nil
	case []*Model:
		buf.WriteByte('[')
		for i, c := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if c == nil {
				buf.WriteString("null")
				continue
			}
			if err := c.writeJSON(ctx, buf, mode); err != nil {
				return RebaseIssues(path+"/"+strconv.Itoa(i), err)
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		wire, err := sp.Field.Encode(ctx, t)
		if err != nil {
			return RebaseIssues(path, err)
		}
		vb, err := json.Marshal(wire)
		if err != nil {
			return IssuesFromError(path, err)
		}
		buf.Write(vb)
		return nil
	}
}
