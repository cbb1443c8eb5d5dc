package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a float64 that decodes leniently from JSON. Catalog exports
// carry numbers, numeric strings, null and markers such as "n/a" in the
// same column; anything that is not a finite number decodes to 0.
type Number float64

// Float returns n as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

// Positive reports whether n is a finite value strictly greater than zero.
func (n Number) Positive() bool {
	f := float64(n)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(ParseFloat(s))
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// ParseFloat converts a spreadsheet cell to a float. Empty cells, "n/a",
// "None" and anything unparsable become 0.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "n/a", "none", "nan":
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
