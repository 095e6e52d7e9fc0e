package modelo

import (
	"github.com/norell/modelo/i18n"
	js "github.com/norell/modelo/jsonschema"
)

// FieldSpec is one declared field of a Schema.
type FieldSpec struct {
	Name       string // attribute name on the model
	Key        string // raw-mapping key; equals Name unless Source was used
	Field      Field
	Default    any // raw form; decoded on application
	HasDefault bool
}

// Builder assembles a Schema. Declarations keep their order: it drives every
// ordered iteration on the resulting models.
type Builder struct {
	name       string
	specs      []FieldSpec
	index      map[string]int
	baseCount  int             // declarations seeded by Extend
	overridden map[string]bool // seeded declarations replaced once
	iss        Issues
}

// FieldStep scopes option chaining to the declaration that created it.
type FieldStep struct {
	b   *Builder
	idx int // -1 when the declaration was rejected
}

// New starts a builder for a schema with the given name.
func New(name string) *Builder {
	b := &Builder{name: name, index: map[string]int{}}
	if name == "" {
		b.iss = AppendIssues(b.iss, Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "schema name must not be empty"})
	}
	return b
}

// Field declares a named field backed by the given converter.
func (b *Builder) Field(name string, f Field) *FieldStep {
	if name == "" {
		b.iss = AppendIssues(b.iss, Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "field name must not be empty"})
		return &FieldStep{b: b, idx: -1}
	}
	if f == nil {
		b.iss = AppendIssues(b.iss, Issue{Path: "/" + name, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "nil field converter"})
		return &FieldStep{b: b, idx: -1}
	}
	if i, dup := b.index[name]; dup {
		// A declaration seeded by Extend may be overridden once, in place.
		if i < b.baseCount && !b.overridden[name] {
			if b.overridden == nil {
				b.overridden = map[string]bool{}
			}
			b.overridden[name] = true
			b.specs[i] = FieldSpec{Name: name, Key: name, Field: f}
			return &FieldStep{b: b, idx: i}
		}
		b.iss = AppendIssues(b.iss, Issue{Path: "/" + name, Code: CodeDuplicateKey, Message: i18n.T(CodeDuplicateKey, nil), Hint: "field declared twice"})
		return &FieldStep{b: b, idx: -1}
	}
	b.index[name] = len(b.specs)
	b.specs = append(b.specs, FieldSpec{Name: name, Key: name, Field: f})
	return &FieldStep{b: b, idx: len(b.specs) - 1}
}

// Source sets the raw-mapping key consulted on hydration and written on
// serialization. The default source is the field name itself.
func (s *FieldStep) Source(key string) *FieldStep {
	if s.idx < 0 {
		return s
	}
	if key == "" {
		s.b.iss = AppendIssues(s.b.iss, Issue{Path: "/" + s.b.specs[s.idx].Name, Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "source key must not be empty"})
		return s
	}
	s.b.specs[s.idx].Key = key
	return s
}

// Default registers a raw default applied when the source key is absent or
// null. The default is decoded through the field so stored values are always
// conversion results.
func (s *FieldStep) Default(v any) *FieldStep {
	if s.idx < 0 {
		return s
	}
	s.b.specs[s.idx].Default = v
	s.b.specs[s.idx].HasDefault = true
	return s
}

func (s *FieldStep) Field(name string, f Field) *FieldStep { return s.b.Field(name, f) }
func (s *FieldStep) Build() (*Schema, error)               { return s.b.Build() }
func (s *FieldStep) MustBuild() *Schema                    { return s.b.MustBuild() }

// Build validates the declarations and returns a Schema.
func (b *Builder) Build() (*Schema, error) {
	if len(b.iss) > 0 {
		return nil, b.iss
	}
	specs := make([]FieldSpec, len(b.specs))
	copy(specs, b.specs)
	index := make(map[string]int, len(specs))
	for i, sp := range specs {
		index[sp.Name] = i
	}
	return &Schema{name: b.name, specs: specs, index: index}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Schema is an ordered set of field declarations. It is immutable once built
// and safe for concurrent use; instances made from it are not.
type Schema struct {
	name  string
	specs []FieldSpec
	index map[string]int
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns the declarations in declaration order.
func (s *Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Lookup returns the declaration for name.
func (s *Schema) Lookup(name string) (FieldSpec, bool) {
	if i, ok := s.index[name]; ok {
		return s.specs[i], true
	}
	return FieldSpec{}, false
}

// Extend seeds a new builder with this schema's declarations. Re-declaring a
// seeded field replaces it in place, keeping its position; everything else
// appends after the seeded declarations.
func (s *Schema) Extend(name string) *Builder {
	b := New(name)
	b.specs = make([]FieldSpec, len(s.specs))
	copy(b.specs, s.specs)
	for i, sp := range b.specs {
		b.index[sp.Name] = i
	}
	b.baseCount = len(b.specs)
	return b
}

// JSONSchema exports the schema as a JSON Schema object. Properties are keyed
// by source key; unknown keys stay tolerated, so additionalProperties is true.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(s.specs))
	for _, sp := range s.specs {
		fs, err := sp.Field.JSONSchema()
		if err != nil {
			return nil, err
		}
		if fs == nil {
			fs = &js.Schema{}
		}
		if sp.HasDefault {
			fs.Default = sp.Default
		}
		props[sp.Key] = fs
	}
	return &js.Schema{Type: "object", Properties: props, AdditionalProperties: true}, nil
}
