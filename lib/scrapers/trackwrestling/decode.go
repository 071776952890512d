package trackwrestling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is the coercion policy for one positional field.
type FieldKind int

const (
	// FieldString passes the field through untouched.
	FieldString FieldKind = iota
	// FieldInt requires a base-10 integer.
	FieldInt
	// FieldToken coerces to an integer when it looks like one and passes the
	// raw text through otherwise.
	FieldToken
)

type Field struct {
	Name string
	Kind FieldKind
}

// Schema describes one payload: how fields are separated and what each
// position in a fixed-width record group means.
type Schema struct {
	Payload   string
	Separator string
	Fields    []Field
}

func (s Schema) Width() int {
	return len(s.Fields)
}

// Value is one decoded field.
type Value struct {
	Raw   string
	Int   int64
	Token Token
}

// Record is one decoded group of fields, Index is its position within the
// decode pass.
type Record struct {
	Index  int
	schema *Schema
	values []Value
}

func (r Record) field(name string) Value {
	for i, f := range r.schema.Fields {
		if f.Name == name {
			return r.values[i]
		}
	}
	panic(fmt.Sprintf("trackwrestling: schema %q has no field %q", r.schema.Payload, name))
}

func (r Record) String(name string) string {
	return r.field(name).Raw
}

func (r Record) Int(name string) int64 {
	return r.field(name).Int
}

func (r Record) Token(name string) Token {
	return r.field(name).Token
}

// Values returns the decoded fields in schema order.
func (r Record) Values() []Value {
	return r.values
}

// SplitGroups splits a raw payload into groups of exactly `width` fields.
//
// It fails with *EmptyPayloadError on "" and with *MalformedRecordError when
// the field count is not a multiple of width, a trailing partial group is
// never dropped.
func SplitGroups(payload, raw, sep string, width int) ([][]string, error) {
	if width <= 0 {
		return nil, fmt.Errorf("trackwrestling: invalid group width %d", width)
	}
	if raw == "" {
		return nil, &EmptyPayloadError{Payload: payload}
	}

	fields := strings.Split(raw, sep)
	if len(fields)%width != 0 {
		full := len(fields) / width
		return nil, &MalformedRecordError{
			Payload: payload,
			Record:  full,
			Reason: fmt.Sprintf(
				"%d fields is not a multiple of group width %d (%d left over)",
				len(fields), width, len(fields)%width,
			),
		}
	}

	groups := make([][]string, 0, len(fields)/width)
	for i := 0; i < len(fields); i += width {
		groups = append(groups, fields[i:i+width])
	}
	return groups, nil
}

// DecodeDelimited decodes raw into typed records according to schema.
//
// An empty payload decodes to zero records without an error. Any field count
// that is not a multiple of the schema width, or a field that fails its
// coercion policy, yields *MalformedRecordError.
func DecodeDelimited(raw string, schema Schema) ([]Record, error) {
	groups, err := SplitGroups(schema.Payload, raw, schema.Separator, schema.Width())
	var empty *EmptyPayloadError
	if errors.As(err, &empty) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(groups))
	for i, group := range groups {
		values := make([]Value, len(group))
		for j, text := range group {
			v, err := coerce(schema.Fields[j], text)
			if err != nil {
				return nil, &MalformedRecordError{
					Payload: schema.Payload,
					Record:  i,
					Field:   schema.Fields[j].Name,
					Reason:  err.Error(),
				}
			}
			values[j] = v
		}
		records[i] = Record{Index: i, schema: &schema, values: values}
	}
	return records, nil
}

func coerce(f Field, text string) (Value, error) {
	v := Value{Raw: text, Token: Token{Text: text}}
	switch f.Kind {
	case FieldInt:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("expected integer, got %q", text)
		}
		v.Int = n
		v.Token = Token{Text: text, Num: n, Numeric: true}
	case FieldToken:
		v.Token = ParseToken(strings.TrimSpace(text))
		v.Token.Text = text
		if v.Token.Numeric {
			v.Int = v.Token.Num
		}
	}
	return v, nil
}
