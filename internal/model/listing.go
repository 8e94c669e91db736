package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Listing represents a rental property listing
type Listing struct {
	ID          string    `json:"id" db:"id"`
	Title       Text      `json:"title" db:"title"`
	Location    Text      `json:"location" db:"location"`
	Type        Text      `json:"type" db:"type"`
	Price       Quantity  `json:"price" db:"price"`
	Bedrooms    Quantity  `json:"bedrooms" db:"bedrooms"`
	Bathrooms   Quantity  `json:"bathrooms" db:"bathrooms"`
	Amenities   JSONArray `json:"amenities" db:"amenities"`
	Description Text      `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONArray", value)
	}
}
