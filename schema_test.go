package modelo_test

import (
	"context"
	"testing"

	modelo "github.com/norell/modelo"
	"github.com/norell/modelo/field"
)

func TestBuilder_DeclarationOrder(t *testing.T) {
	sch := modelo.New("Person").
		Field("name", field.String()).
		Field("age", field.Int()).
		Field("score", field.Float()).
		MustBuild()

	specs := sch.Fields()
	want := []string{"name", "age", "score"}
	if len(specs) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(specs))
	}
	for i, w := range want {
		if specs[i].Name != w {
			t.Fatalf("field %d: want %q, got %q", i, w, specs[i].Name)
		}
	}
}

func TestBuilder_DuplicateField(t *testing.T) {
	_, err := modelo.New("Dup").
		Field("x", field.Int()).
		Field("x", field.String()).
		Build()
	if err == nil {
		t.Fatalf("expected error for duplicate field")
	}
	iss, ok := modelo.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != modelo.CodeDuplicateKey {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
}

func TestBuilder_RejectsBadDeclarations(t *testing.T) {
	if _, err := modelo.New("").Field("x", field.Int()).Build(); err == nil {
		t.Fatalf("expected error for empty schema name")
	}
	if _, err := modelo.New("S").Field("", field.Int()).Build(); err == nil {
		t.Fatalf("expected error for empty field name")
	}
	if _, err := modelo.New("S").Field("x", nil).Build(); err == nil {
		t.Fatalf("expected error for nil converter")
	}
}

func TestBuilder_MustBuildPanicsOnMisuse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustBuild to panic")
		}
	}()
	modelo.New("Bad").Field("x", field.Int()).Field("x", field.Int()).MustBuild()
}

func TestFieldStep_SourceAndDefault(t *testing.T) {
	ctx := context.Background()
	sch := modelo.New("Person").
		Field("dob", field.Date()).Source("date_of_birth").
		Field("score", field.Int()).Default(0).
		MustBuild()

	m, err := sch.FromDict(ctx, map[string]any{"date_of_birth": "1999-12-31"})
	if err != nil {
		t.Fatalf("from dict err: %v", err)
	}
	if m.Get("dob") == nil {
		t.Fatalf("expected dob read from source key")
	}
	if got := m.Get("score"); got != int64(0) {
		t.Fatalf("expected default 0, got %v", got)
	}

	out, err := m.ToDict(ctx)
	if err != nil {
		t.Fatalf("to dict err: %v", err)
	}
	if out["date_of_birth"] != "1999-12-31" {
		t.Fatalf("expected serialization under the source key, got %v", out)
	}
	if _, ok := out["dob"]; ok {
		t.Fatalf("attribute name must not leak into output: %v", out)
	}
}

func TestSchema_Lookup(t *testing.T) {
	sch := modelo.New("S").
		Field("a", field.String()).Source("aa").
		MustBuild()

	sp, ok := sch.Lookup("a")
	if !ok || sp.Key != "aa" {
		t.Fatalf("expected declaration with source key aa, got %+v ok=%v", sp, ok)
	}
	if _, ok := sch.Lookup("nope"); ok {
		t.Fatalf("expected miss for undeclared name")
	}
}

func TestSchema_ExtendOverridesInPlace(t *testing.T) {
	ctx := context.Background()
	base := modelo.New("Base").
		Field("id", field.Int()).
		Field("name", field.String()).
		MustBuild()

	child := base.Extend("Child").
		Field("name", field.Int()). // override keeps position two
		Field("extra", field.Bool()).
		MustBuild()

	specs := child.Fields()
	want := []string{"id", "name", "extra"}
	for i, w := range want {
		if specs[i].Name != w {
			t.Fatalf("field %d: want %q, got %q", i, w, specs[i].Name)
		}
	}

	// the override really is the new converter
	m, err := child.FromDict(ctx, map[string]any{"name": "7"})
	if err != nil {
		t.Fatalf("from dict err: %v", err)
	}
	if got := m.Get("name"); got != int64(7) {
		t.Fatalf("expected overridden int field, got %#v", got)
	}

	// the parent keeps its own declarations
	if sp, _ := base.Lookup("name"); sp.Field == nil {
		t.Fatalf("base schema lost its declaration")
	}
	if _, ok := base.Lookup("extra"); ok {
		t.Fatalf("base schema must not see child fields")
	}
}

func TestSchema_ExtendDoubleDeclareFails(t *testing.T) {
	base := modelo.New("Base").Field("a", field.String()).MustBuild()
	_, err := base.Extend("Child").
		Field("a", field.Int()).
		Field("a", field.Bool()). // second re-declare is a duplicate
		Build()
	if err == nil {
		t.Fatalf("expected duplicate_key on second override")
	}
}

func TestSchema_JSONSchemaExport(t *testing.T) {
	sch := modelo.New("Person").
		Field("name", field.String()).
		Field("age", field.Int()).Default(21).
		Field("born", field.Date()).Source("date_of_birth").
		Field("tags", field.List(field.String())).
		MustBuild()

	js, err := sch.JSONSchema()
	if err != nil {
		t.Fatalf("json schema err: %v", err)
	}
	if js.Type != "object" {
		t.Fatalf("expected object schema, got %q", js.Type)
	}
	if js.AdditionalProperties != true {
		t.Fatalf("unknown keys are tolerated, expected additionalProperties true")
	}
	if p := js.Properties["age"]; p == nil || p.Type != "integer" || p.Default != 21 {
		t.Fatalf("unexpected age property: %+v", p)
	}
	if p := js.Properties["date_of_birth"]; p == nil || p.Format != "date" {
		t.Fatalf("expected date format under the source key, got %+v", p)
	}
	if p := js.Properties["tags"]; p == nil || p.Type != "array" || p.Items == nil || p.Items.Type != "string" {
		t.Fatalf("unexpected tags property: %+v", p)
	}
}
