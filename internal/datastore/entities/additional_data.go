package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"maps"
)

// AdditionalData holds source columns that were not mapped to a known entry field.
// It is stored as a JSON object in a text column.
type AdditionalData map[string]string

// Value implements driver.Valuer. Empty maps are stored as NULL.
func (d AdditionalData) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(map[string]string(d))
	if err != nil {
		return nil, fmt.Errorf("encode additional data: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (d *AdditionalData) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*d = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported additional data type %T", value)
	}

	if len(raw) == 0 {
		*d = nil
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		// legacy payloads may hold non-string values
		var loose map[string]any
		if err2 := json.Unmarshal(raw, &loose); err2 != nil {
			return fmt.Errorf("decode additional data: %w", err)
		}
		m = make(map[string]string, len(loose))
		for k, v := range loose {
			m[k] = fmt.Sprint(v)
		}
	}
	*d = m
	return nil
}

// Clone returns a copy of the map.
func (d AdditionalData) Clone() AdditionalData {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}
