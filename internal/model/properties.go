package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Properties holds the free-form JSON attached to an entry (ingredient
// lists, option sets, ...). The value is kept as raw JSON and never
// interpreted, so any JSON document round-trips unchanged. Stored text that
// is not JSON is emitted as a JSON string.
type Properties []byte

var jsonNull = []byte("null")

func (p Properties) IsZero() bool {
	return len(p) == 0 || bytes.Equal(p, jsonNull)
}

func (p Properties) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return string(p), nil
}

func (p *Properties) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append(Properties(nil), v...)
	case string:
		*p = Properties(v)
	default:
		return fmt.Errorf("properties: unsupported scan type %T", src)
	}
	return nil
}

func (p Properties) MarshalJSON() ([]byte, error) {
	if p.IsZero() {
		return jsonNull, nil
	}
	if json.Valid(p) {
		return p, nil
	}
	return json.Marshal(string(p))
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*p = nil
		return nil
	}
	*p = append(Properties(nil), data...)
	return nil
}
