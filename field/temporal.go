package field

import (
	"context"
	"time"

	modelo "github.com/norell/modelo"
	"github.com/norell/modelo/i18n"
	js "github.com/norell/modelo/jsonschema"
)

// Default parse layouts (Go reference-time layouts, not strftime).
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = time.RFC3339
)

// Date returns a field that parses calendar-date strings into time.Time.
func Date() *TemporalField { return &TemporalField{layout: DateLayout, format: "date"} }

// Time returns a field that parses wall-clock strings into time.Time.
func Time() *TemporalField { return &TemporalField{layout: TimeLayout, format: "time"} }

// DateTime returns a field that parses RFC 3339 timestamps into time.Time.
func DateTime() *TemporalField { return &TemporalField{layout: DateTimeLayout, format: "date-time"} }

// TemporalField converts between layout-formatted strings and time.Time.
// Parsing is strict: the whole input must match the layout.
type TemporalField struct {
	layout       string
	encodeLayout string // empty means layout
	format       string // JSON Schema format name
}

// Layout overrides the parse layout (and the output layout unless
// EncodeLayout is set).
func (f *TemporalField) Layout(layout string) *TemporalField {
	f.layout = layout
	return f
}

// EncodeLayout overrides only the serial output layout, so one shape can be
// read and another written.
func (f *TemporalField) EncodeLayout(layout string) *TemporalField {
	f.encodeLayout = layout
	return f
}

func (f *TemporalField) Decode(ctx context.Context, raw any) (any, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t, nil
	case string:
		ts, err := time.Parse(f.layout, t)
		if err != nil {
			return nil, modelo.Issues{modelo.Issue{Path: "/", Code: modelo.CodeInvalidFormat, Message: i18n.T(modelo.CodeInvalidFormat, nil), Hint: "expected layout " + f.layout, Cause: err, Params: map[string]any{"got": t}}}
		}
		return ts, nil
	}
	return nil, invalidType(raw, "expected "+f.format+" string")
}

func (f *TemporalField) Encode(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t.Format(f.outLayout()), nil
	}
	return nil, invalidType(v, "expected time.Time")
}

func (f *TemporalField) outLayout() string {
	if f.encodeLayout != "" {
		return f.encodeLayout
	}
	return f.layout
}

func (f *TemporalField) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: f.format}, nil
}
