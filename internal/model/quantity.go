package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Quantity is a loosely typed numeric listing field. Listing documents carry
// prices and room counts as JSON numbers, numeric strings ("45000") or
// suffixed strings ("5+"); Quantity keeps the raw text and coerces on demand.
type Quantity string

// Q builds a Quantity from a number or string literal
func Q(v interface{}) Quantity {
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return Quantity(s)
}

// String returns the raw text
func (q Quantity) String() string {
	return string(q)
}

// IsZero reports whether the field was absent
func (q Quantity) IsZero() bool {
	return strings.TrimSpace(string(q)) == ""
}

// Float coerces the quantity to a finite number. ok is false for absent,
// non-numeric, NaN or infinite values.
func (q Quantity) Float() (f float64, ok bool) {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// TrimPlus returns the raw text without any "+" suffix, e.g. "5+" -> "5"
func (q Quantity) TrimPlus() string {
	return strings.Replace(strings.TrimSpace(string(q)), "+", "", 1)
}

// UnmarshalJSON accepts a JSON number, string or null
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a number or string: %w", err)
	}
	*q = Quantity(n.String())
	return nil
}

// MarshalJSON writes plain numbers as JSON numbers and everything else as a
// string, so "45000" round-trips as 45000 and "5+" stays "5+"
func (q Quantity) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return []byte("null"), nil
	}
	if _, ok := q.Float(); ok && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(string(q))
}

// Value implements driver.Valuer interface
func (q Quantity) Value() (driver.Value, error) {
	if q.IsZero() {
		return nil, nil
	}
	return string(q), nil
}

// Scan implements sql.Scanner interface
func (q *Quantity) Scan(value interface{}) error {
	if value == nil {
		*q = ""
		return nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("cannot scan %T into Quantity: %w", value, err)
	}
	*q = Quantity(s)
	return nil
}
