package modelo

import (
	"context"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/norell/modelo/i18n"
)

// FromYAML decodes a YAML mapping and hydrates an instance from it. YAML may
// decode mappings as map[any]any; the tree is normalized to map[string]any
// first (non-string keys are dropped, matching JSON object semantics).
func (s *Schema) FromYAML(ctx context.Context, data []byte) (*Model, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	obj := yamlAnyToStringMap(v)
	if obj == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected mapping", Params: map[string]any{"got": v}}}
	}
	return s.FromDict(ctx, obj)
}

// ToYAML serializes the instance as a YAML mapping. Keys follow declaration
// order, with extras after; the document is built from yaml.Node so the order
// survives marshaling.
func (m *Model) ToYAML(ctx context.Context) ([]byte, error) {
	node, err := m.yamlNode(ctx)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, IssuesFromError("/", err)
	}
	return out, nil
}

func (m *Model) yamlNode(ctx context.Context) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	appendOne := func(sp *FieldSpec) error {
		path := "/" + sp.Name
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sp.Key}
		vn, err := m.yamlValueNode(ctx, sp, path)
		if err != nil {
			return err
		}
		n.Content = append(n.Content, kn, vn)
		return nil
	}
	for i := range m.schema.specs {
		if err := appendOne(&m.schema.specs[i]); err != nil {
			return nil, err
		}
	}
	for i := range m.extras {
		if err := appendOne(&m.extras[i]); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (m *Model) yamlValueNode(ctx context.Context, sp *FieldSpec, path string) (*yaml.Node, error) {
	switch t := m.values[sp.Name].(type) {
	case *Model:
		if t == nil {
			return yamlNullNode(), nil
		}
		vn, err := t.yamlNode(ctx)
		if err != nil {
			return nil, RebaseIssues(path, err)
		}
		return vn, nil
	case []*Model:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, c := range t {
			if c == nil {
				seq.Content = append(seq.Content, yamlNullNode())
				continue
			}
			cn, err := c.yamlNode(ctx)
			if err != nil {
				return nil, RebaseIssues(path+"/"+strconv.Itoa(i), err)
			}
			seq.Content = append(seq.Content, cn)
		}
		return seq, nil
	default:
		wire, err := sp.Field.Encode(ctx, t)
		if err != nil {
			return nil, RebaseIssues(path, err)
		}
		if wire == nil {
			return yamlNullNode(), nil
		}
		vn := &yaml.Node{}
		if err := vn.Encode(wire); err != nil {
			return nil, IssuesFromError(path, err)
		}
		return vn, nil
	}
}

func yamlNullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-map roots
// return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
