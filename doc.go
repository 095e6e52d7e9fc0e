package modelo

// Package modelo provides:
//
// - Declarative data models built from typed fields (Decode/Encode per field)
// - An ordered Schema builder with source keys and defaults
// - Model instances hydrated from raw mappings, JSON, YAML, or cty values
// - A stable error model via Issues (JSON Pointer, code, message)
// - Presence metadata and canonical vs preserving serialization
//
// Design policy:
// - Keep the contracts and the instance machinery in the root package.
// - Place field converters under field/, the message catalog under i18n/,
//   the export structs under jsonschema/, and config-value glue under
//   ctybridge/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	person := modelo.New("Person").
//		Field("name", field.String()).
//		Field("born", field.Date()).Source("date_of_birth").
//		MustBuild()
//
//	m, err := person.FromJSON(ctx, data)
//	out, err := m.ToDict(ctx)
