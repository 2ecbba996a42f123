package jsonfile

import (
	"bytes"
	"encoding/json"
)

// Record is one stored document. The store is schema-agnostic; field-level
// typing lives in the domain layer above it.
type Record = map[string]any

// ToRecord flattens a typed value into a Record through its JSON form.
func ToRecord(v any) (Record, error) {
	b, err := marshalCompact(v)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// FromRecord decodes a Record into a typed value.
func FromRecord(rec Record, out any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// marshalCompact renders v on a single line with HTML escaping off, so URLs
// and markdown inside records survive byte-for-byte.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
