// Package jsonx holds lenient JSON field types for third-party payloads
// whose field types drift between responses.
package jsonx

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Float accepts a JSON number, a numeric string, or null.
// Anything unparseable leaves it unset instead of failing the decode.
type Float struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Float) UnmarshalJSON(data []byte) error {
	*f = Float{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

// Ptr returns a pointer to the value, nil when unset
func (f Float) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// String accepts a JSON string, number or bool and keeps its text form.
type String string

// UnmarshalJSON implements json.Unmarshaler
func (s *String) UnmarshalJSON(data []byte) error {
	*s = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil
		}
		*s = String(v)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return nil
	}
	*s = String(data)
	return nil
}

// Bool accepts true/false, "true"/"false", 1/0 or null.
type Bool struct {
	Value bool
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (b *Bool) UnmarshalJSON(data []byte) error {
	*b = Bool{}
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return nil
	}
	b.Value, b.Valid = v, true
	return nil
}

// Ptr returns a pointer to the value, nil when unset
func (b Bool) Ptr() *bool {
	if !b.Valid {
		return nil
	}
	v := b.Value
	return &v
}
