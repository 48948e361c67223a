package geometry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindNull is the null variant. The zero Value is null.
	KindNull Kind = iota
	// KindNumber holds a finite float64.
	KindNumber
	// KindString holds a string.
	KindString
	// KindBool holds a boolean.
	KindBool
)

// Value is a scalar attribute value: number, string, boolean, or null.
// Only these four variants exist because they are the only types the graph
// interchange format can carry. Use the constructors below; the zero Value
// is the null variant.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Number returns a numeric Value. Non-finite inputs (NaN, ±Inf) are
// normalized to null so the value stays serializable.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, num: f}
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// FromAny converts a decoded JSON value (or any Go scalar) to a Value.
// Anything that is not representable - nil, NaN, infinities, or a
// non-scalar type - becomes null. This is the single sanitation point for
// attribute bags before serialization.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	default:
		return Null()
	}
}

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric value and true if the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the string value and true if the value is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Boolean returns the boolean value and true if the value is a bool.
func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// String implements fmt.Stringer for diagnostics and DOT labels.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// MarshalJSON encodes the value as its native JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON scalar into the matching variant.
// Arrays and objects are rejected; the wire format never contains them.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, bool, string, float64:
		*v = FromAny(raw)
		return nil
	default:
		return fmt.Errorf("attribute value must be a scalar, got %T", raw)
	}
}

// SanitizeAttrs converts a decoded property map into a Value map,
// normalizing every non-representable leaf to null.
func SanitizeAttrs(props map[string]any) map[string]Value {
	attrs := make(map[string]Value, len(props))
	for k, p := range props {
		attrs[k] = FromAny(p)
	}
	return attrs
}
