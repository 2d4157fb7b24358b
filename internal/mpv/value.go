package mpv

import (
	"encoding/json"
	"strconv"
)

// Kind identifies which variant a Value holds. The player reports
// heterogeneous JSON types per property, so values are modeled as a closed
// set of variants rather than an open any.
type Kind int

const (
	KindUnset Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is the last known value of an observed property.
// The zero Value is unset.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether the value holds actual data from the player.
func (v Value) IsSet() bool { return v.kind != KindUnset }

// String renders the value for display: numbers without scientific
// notation, booleans as true/false, unset as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// decodeValue converts a raw JSON property value into a Value.
// JSON null and shapes outside the closed variant set (arrays, objects)
// decode as unset.
func decodeValue(raw json.RawMessage) Value {
	if len(raw) == 0 {
		return Value{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return StringValue(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return NumberValue(f)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return BoolValue(b)
	}
	return Value{}
}
