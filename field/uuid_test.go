package field_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	modelo "github.com/norell/modelo"
	"github.com/norell/modelo/field"
)

func TestUUIDField_ParseAndCanonicalForm(t *testing.T) {
	f := field.UUID()
	ctx := context.Background()

	// uppercase input canonicalizes to lowercase on the way out
	v, err := f.Decode(ctx, "6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	out, err := f.Encode(ctx, v)
	if err != nil || out != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf("expected canonical lowercase form, got %v err=%v", out, err)
	}

	// urn form is accepted by uuid.Parse
	v2, err := f.Decode(ctx, "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if err != nil || v2 != v {
		t.Fatalf("urn form must parse to the same id, got %v err=%v", v2, err)
	}

	_, err = f.Decode(ctx, "not-a-uuid")
	wantCode(t, err, modelo.CodeInvalidFormat)
	_, err = f.Decode(ctx, 42)
	wantCode(t, err, modelo.CodeInvalidType)
}

func TestUUIDField_NativePassthrough(t *testing.T) {
	f := field.UUID()
	ctx := context.Background()

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	v, err := f.Decode(ctx, id)
	if err != nil || v != id {
		t.Fatalf("uuid.UUID must pass through, got %v err=%v", v, err)
	}
	if v, err := f.Decode(ctx, nil); err != nil || v != nil {
		t.Fatalf("nil must pass through, got %v err=%v", v, err)
	}
	_, err = f.Encode(ctx, "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	wantCode(t, err, modelo.CodeInvalidType)
}
