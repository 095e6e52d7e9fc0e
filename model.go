package modelo

import (
	"context"

	"github.com/norell/modelo/i18n"
)

// Model is one instance of a Schema: an ordered bag of converted values,
// presence metadata, and any instance-local extra fields. Conversions are
// pure; a Model is not safe for concurrent mutation.
type Model struct {
	schema     *Schema
	values     map[string]any
	presence   PresenceMap
	extras     []FieldSpec
	extraIndex map[string]int
	related    map[string]*Model
}

// Blank returns an empty instance. No presence is recorded; populate it with
// Set or AddField.
func (s *Schema) Blank() *Model {
	return &Model{
		schema:   s,
		values:   make(map[string]any, len(s.specs)),
		presence: PresenceMap{},
	}
}

// FromDict hydrates a new instance from a raw mapping. Every declared field
// is materialized: present values are decoded through their field, absent or
// null keys fall back to the declared default (decoded as well), and absent
// keys without a default yield the field's nil form. Unknown keys are
// ignored. The first conversion failure aborts the whole hydration; no
// partially hydrated instance is returned.
func (s *Schema) FromDict(ctx context.Context, raw map[string]any) (*Model, error) {
	m := s.Blank()
	m.presence["/"] = PresenceSeen
	for i := range s.specs {
		sp := &s.specs[i]
		rv, exists := raw[sp.Key]
		if err := m.hydrate(ctx, sp, rv, exists); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// hydrate runs the decode pipeline for one declaration and records presence.
func (m *Model) hydrate(ctx context.Context, sp *FieldSpec, raw any, exists bool) error {
	path := "/" + sp.Name
	var p Presence
	if exists {
		p |= PresenceSeen
		if raw == nil {
			p |= PresenceWasNull
		}
	}
	if raw == nil && sp.HasDefault {
		raw = sp.Default
		p |= PresenceDefaultApplied
	}
	v, err := sp.Field.Decode(ctx, raw)
	if err != nil {
		return RebaseIssues(path, err)
	}
	m.values[sp.Name] = v
	if p != 0 {
		m.presence[path] |= p
	}
	m.bindRelated(sp.Field, v)
	return nil
}

// backRef is probed on fields that register parent back-references.
type backRef interface{ BackRef() string }

func (m *Model) bindRelated(f Field, v any) {
	br, ok := f.(backRef)
	if !ok || br.BackRef() == "" {
		return
	}
	switch t := v.(type) {
	case *Model:
		t.setRelated(br.BackRef(), m)
	case []*Model:
		for _, c := range t {
			c.setRelated(br.BackRef(), m)
		}
	}
}

func (m *Model) setRelated(name string, parent *Model) {
	if m == nil {
		return
	}
	if m.related == nil {
		m.related = map[string]*Model{}
	}
	m.related[name] = parent
}

// Related returns the instance registered under name by an enclosing decode.
// Back-references never appear in serialized output.
func (m *Model) Related(name string) (*Model, bool) {
	p, ok := m.related[name]
	return p, ok
}

// Schema returns the declaring schema.
func (m *Model) Schema() *Schema { return m.schema }

// Get returns the stored value for name, or nil when the name is not
// declared. Stored values are always conversion results.
func (m *Model) Get(name string) any { return m.values[name] }

// Lookup returns the stored value and whether the name holds one.
func (m *Model) Lookup(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Set assigns a raw value to a declared (or instance-added) field, running
// the same decode pipeline as FromDict. Assigning a value the field already
// produced is a no-op re-coercion. Unknown names fail with unknown_key.
func (m *Model) Set(ctx context.Context, name string, raw any) error {
	sp := m.spec(name)
	if sp == nil {
		return Issues{Issue{Path: "/" + name, Code: CodeUnknownKey, Message: i18n.T(CodeUnknownKey, nil), Hint: "not declared on " + m.schema.name}}
	}
	return m.hydrate(ctx, sp, raw, true)
}

func (m *Model) spec(name string) *FieldSpec {
	if i, ok := m.schema.index[name]; ok {
		return &m.schema.specs[i]
	}
	if i, ok := m.extraIndex[name]; ok {
		return &m.extras[i]
	}
	return nil
}

// AddField declares an instance-local extra field and decodes raw into it.
// Extras serialize after the declared fields in insertion order. A name that
// collides with a declared or previously added field fails with
// duplicate_key; a failed conversion leaves the instance unchanged.
func (m *Model) AddField(ctx context.Context, name string, f Field, raw any) error {
	if name == "" {
		return Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "field name must not be empty"}}
	}
	if f == nil {
		return Issues{Issue{Path: "/" + name, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "nil field converter"}}
	}
	if m.spec(name) != nil {
		return Issues{Issue{Path: "/" + name, Code: CodeDuplicateKey, Message: i18n.T(CodeDuplicateKey, nil)}}
	}
	if m.extraIndex == nil {
		m.extraIndex = map[string]int{}
	}
	m.extraIndex[name] = len(m.extras)
	m.extras = append(m.extras, FieldSpec{Name: name, Key: name, Field: f})
	if err := m.hydrate(ctx, &m.extras[len(m.extras)-1], raw, true); err != nil {
		m.extras = m.extras[:len(m.extras)-1]
		delete(m.extraIndex, name)
		return err
	}
	return nil
}

// Extras returns the instance-local declarations in insertion order.
func (m *Model) Extras() []FieldSpec {
	out := make([]FieldSpec, len(m.extras))
	copy(out, m.extras)
	return out
}

// Presence returns a copy of the per-field presence flags.
func (m *Model) Presence() PresenceMap { return m.presence.clone() }

// ToDict serializes the instance to a raw mapping: every declared field
// encoded under its source key, extras after. The first encode failure
// aborts.
func (m *Model) ToDict(ctx context.Context) (map[string]any, error) {
	return m.ToDictMode(ctx, EncodeCanonical)
}

// ToDictMode serializes with explicit output intent. EncodePreserve omits
// fields that were never seen or assigned, and fields materialized only by
// defaults; explicit nulls stay null.
func (m *Model) ToDictMode(ctx context.Context, mode EncodeMode) (map[string]any, error) {
	out := make(map[string]any, len(m.schema.specs)+len(m.extras))
	for i := range m.schema.specs {
		if err := m.encodeInto(ctx, out, &m.schema.specs[i], mode); err != nil {
			return nil, err
		}
	}
	for i := range m.extras {
		if err := m.encodeInto(ctx, out, &m.extras[i], mode); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Model) encodeInto(ctx context.Context, out map[string]any, sp *FieldSpec, mode EncodeMode) error {
	path := "/" + sp.Name
	if mode == EncodePreserve && m.omitPreserving(path) {
		return nil
	}
	wire, err := sp.Field.Encode(ctx, m.values[sp.Name])
	if err != nil {
		return RebaseIssues(path, err)
	}
	out[sp.Key] = wire
	return nil
}

// omitPreserving reports whether preserving output drops the field: no
// presence at all, or materialized only by a default.
func (m *Model) omitPreserving(path string) bool {
	p := m.presence[path]
	if p == 0 {
		return true
	}
	return p&PresenceDefaultApplied != 0 && p&PresenceSeen == 0 && p&PresenceWasNull == 0
}
