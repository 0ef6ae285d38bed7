package sidecar

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ValueKind classifies what a sidecar holds under a key.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueOther
)

func (k ValueKind) String() string {
	switch k {
	case ValueAbsent:
		return "absent"
	case ValueString:
		return "string"
	case ValueOther:
		return "other"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ValueKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "absent":
		*k = ValueAbsent
	case "string":
		*k = ValueString
	case "other":
		*k = ValueOther
	default:
		return fmt.Errorf("unknown value kind %q", text)
	}
	return nil
}

// FieldValue is the target field as found on disk. Raw holds the string
// contents for ValueString and the JSON text for ValueOther.
type FieldValue struct {
	Kind ValueKind `json:"kind"`
	Raw  string    `json:"raw,omitempty"`
}

func fieldValueOf(r gjson.Result) FieldValue {
	if !r.Exists() {
		return FieldValue{Kind: ValueAbsent}
	}
	if r.Type == gjson.String {
		return FieldValue{Kind: ValueString, Raw: r.Str}
	}
	return FieldValue{Kind: ValueOther, Raw: r.Raw}
}

// Direction returns the value as a Direction when it is a string in the
// accepted set. Non-string values are never coerced.
func (v FieldValue) Direction() (Direction, bool) {
	if v.Kind != ValueString {
		return "", false
	}
	return ParseDirection(v.Raw)
}

func (v FieldValue) String() string {
	switch v.Kind {
	case ValueAbsent:
		return "missing"
	case ValueString:
		return fmt.Sprintf("%q", v.Raw)
	default:
		return v.Raw
	}
}
