package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface representing the engine's wire-level value
// kinds. Only Null, String, Float, Bool, List, and Object implement it.
//
// The coercion layer produces only String and Float values; the remaining
// kinds exist because variable binding hands this layer arbitrary
// already-decoded wire values, and decode must be able to reject them by
// kind rather than crash.
type Value interface {
	wireValue() // Sealed - only these types implement it
}

// Null represents an absent value on the wire.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) wireValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a string-kind wire value.
type String string

func (String) wireValue() {}

// Float represents a number-kind wire value. The engine's numeric wire
// kind is an IEEE double; integers travel as floats with zero fraction.
type Float float64

func (Float) wireValue() {}

// Bool represents a boolean-kind wire value.
type Bool bool

func (Bool) wireValue() {}

// List represents an ordered list of wire values.
type List []Value

func (List) wireValue() {}

// Object represents an ordered map of string keys to wire values.
// Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) wireValue() {}

// NewString creates a String value.
func NewString(s string) String {
	return String(s)
}

// NewFloat creates a Float value.
func NewFloat(f float64) Float {
	return Float(f)
}

// NewBool creates a Bool value.
func NewBool(b bool) Bool {
	return Bool(b)
}

// NewList creates a List from values.
func NewList(vals ...Value) List {
	return List(vals)
}

// AsString inspects v as a string-kind value.
// Returns absence if v is any other kind.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsFloat inspects v as a number-kind value.
// Returns absence if v is any other kind.
func AsFloat(v Value) (float64, bool) {
	f, ok := v.(Float)
	return float64(f), ok
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 which produces a DIFFERENT order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering as
// required by RFC 8785 (Canonical JSON). Must use unicode/utf16.Encode for
// correct surrogate handling.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// ParseJSON decodes a JSON document into a Value. This is the entry point
// for wire values arriving from the engine's variable decoder (and the
// CLI): any JSON kind maps onto exactly one wire kind, numbers always
// onto Float.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}

	return fromJSONValue(raw)
}

// fromJSONValue recursively converts a decoded JSON value to a Value.
func fromJSONValue(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number out of float64 range: %s", val)
		}
		return Float(f), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			wv, err := fromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			list[i] = wv
		}
		return list, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			wv, err := fromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = wv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported JSON type: %T", v)
	}
}

// Kind returns a short kind name for diagnostics ("string", "float", ...).
func Kind(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case String:
		return "string"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case List:
		return "list"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
