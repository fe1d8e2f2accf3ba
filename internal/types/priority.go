package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Priority accepts a JSON number or a numeric string. Anything else, including
// fractional numbers, decodes to 0, which ValidPriority rejects.
type Priority int

func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = 0
	switch v := raw.(type) {
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt32 && v <= math.MaxInt32 {
			*p = Priority(v)
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32); err == nil {
			*p = Priority(n)
		}
	}
	return nil
}

// Ptr returns nil when no priority was sent.
func (p *Priority) Ptr() *int {
	if p == nil {
		return nil
	}
	v := int(*p)
	return &v
}
