package modelo

import (
	"context"

	js "github.com/norell/modelo/jsonschema"
)

// Field converts values between their raw wire form and their typed native
// form. Decode takes whatever a JSON/YAML/cty parse produced (or a
// hand-written Go literal) and returns the native value; Encode takes a
// native value and returns a JSON-ready wire value.
//
// Implementations accept their own native type in Decode so re-assigning a
// converted value is a no-op, and they pass nil through untouched (collection
// fields yield an empty sequence instead). Defaults and source keys are
// schema concerns; a single Field value may back many declarations.
type Field interface {
	Decode(ctx context.Context, raw any) (any, error)
	Encode(ctx context.Context, v any) (any, error)
	JSONSchema() (*js.Schema, error)
}

// EncodeMode exposes canonical vs preserving output intent at call sites.
type EncodeMode int

const (
	// EncodeCanonical emits every declared field, materializing defaults
	// and nils.
	EncodeCanonical EncodeMode = iota
	// EncodePreserve emits only fields backed by presence: never-seen
	// fields and fields materialized purely by defaults are omitted,
	// explicit nulls stay null.
	EncodePreserve
)
