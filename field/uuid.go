package field

import (
	"context"

	"github.com/google/uuid"

	modelo "github.com/norell/modelo"
	"github.com/norell/modelo/i18n"
	js "github.com/norell/modelo/jsonschema"
)

// UUID returns a field that parses RFC 4122 strings into uuid.UUID and
// serializes back to the canonical lowercase form.
func UUID() modelo.Field { return uuidField{} }

type uuidField struct{}

func (uuidField) Decode(ctx context.Context, raw any) (any, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return t, nil
	case string:
		id, err := uuid.Parse(t)
		if err != nil {
			return nil, modelo.Issues{modelo.Issue{Path: "/", Code: modelo.CodeInvalidFormat, Message: i18n.T(modelo.CodeInvalidFormat, nil), Hint: "expected RFC 4122 UUID", Cause: err, Params: map[string]any{"got": t}}}
		}
		return id, nil
	}
	return nil, invalidType(raw, "expected UUID string")
}

func (uuidField) Encode(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return t.String(), nil
	}
	return nil, invalidType(v, "expected uuid.UUID")
}

func (uuidField) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "uuid"}, nil
}
