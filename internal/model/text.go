package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/spf13/cast"
)

// Text is an optional listing text column. NULL scans as the empty string,
// which every filter treats as "not provided".
type Text string

// String returns the raw text
func (t Text) String() string {
	return string(t)
}

// Value implements driver.Valuer interface
func (t Text) Value() (driver.Value, error) {
	if t == "" {
		return nil, nil
	}
	return string(t), nil
}

// Scan implements sql.Scanner interface
func (t *Text) Scan(value interface{}) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("cannot scan %T into Text: %w", value, err)
	}
	*t = Text(s)
	return nil
}
