package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// Floats is a float array column. Postgres returns array literals such as
// {1,2.5}; on SQLite the column is TEXT holding either that literal or a
// JSON array.
type Floats []float64

func (f *Floats) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		return f.parse(v)
	case string:
		return f.parse([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Floats", src)
	}
}

func (f *Floats) parse(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var out []float64
		if err := json.Unmarshal(b, &out); err != nil {
			return fmt.Errorf("parse JSON array: %w", err)
		}
		*f = out
		return nil
	}

	var arr pq.Float64Array
	if err := arr.Scan(b); err != nil {
		return fmt.Errorf("parse array literal: %w", err)
	}
	*f = Floats(arr)
	return nil
}

// Value writes the Postgres array literal form, which both drivers accept.
func (f Floats) Value() (driver.Value, error) {
	return pq.Float64Array(f).Value()
}
