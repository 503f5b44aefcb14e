package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LineItems is a JSONB-backed slice of line items.
type LineItems []LineItem

// Value implements driver.Valuer so line-item buckets persist as JSONB.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *LineItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for LineItems: %T", src)
	}
}
