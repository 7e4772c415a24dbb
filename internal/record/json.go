package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON writes r as an object whose keys follow Keys(). HTML
// characters are left unescaped, but json.Marshal escapes them again when
// it compacts the result; use EncodeIndent to keep them as written.
func (r Receipt) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, r.Get(key)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any object. Non-string values are kept as their JSON
// text so hand-edited numbers survive; null becomes the empty string.
func (r *Receipt) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Receipt{}
	for key, value := range raw {
		s, err := scalarString(value)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		r.Set(key, s)
	}
	return nil
}

func scalarString(value json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(value))
	switch {
	case trimmed == "null":
		return "", nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", err
		}
		return s, nil
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return "", fmt.Errorf("expected a scalar, got %s", trimmed)
	default:
		return trimmed, nil
	}
}

// writeString appends s as a JSON string without HTML escaping, so that
// non-ASCII text stays readable in the file.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// EncodeIndent renders v as two-space indented JSON with a trailing newline
// and without HTML escaping.
func EncodeIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
