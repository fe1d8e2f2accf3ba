package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DueDate accepts either a calendar date ("2006-01-02") or an RFC 3339 timestamp.
type DueDate struct {
	time.Time
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("due_date must be a string: %w", err)
	}

	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}

	return fmt.Errorf("due_date %q is not a date", raw)
}

// Ptr returns nil for a nil or zero DueDate.
func (d *DueDate) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
