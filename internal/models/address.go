package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Address is a structured shipping/billing address. It is stored as a
// JSON blob but only the structured form crosses the service boundary.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsZero reports whether no address was supplied at all.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Value implements driver.Valuer so GORM persists the JSON encoding.
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode address: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner, decoding the stored JSON back into the
// structured form.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported address column type %T", value)
	}
	if len(raw) == 0 {
		*a = Address{}
		return nil
	}
	if err := json.Unmarshal(raw, a); err != nil {
		return fmt.Errorf("failed to decode address: %w", err)
	}
	return nil
}

// StringList is a list of strings (e.g. image URIs) stored as JSON text.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported string list column type %T", value)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	if err := json.Unmarshal(raw, l); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	return nil
}
