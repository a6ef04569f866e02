package models

import (
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary or rating value as returned by the backend. The API is
// not consistent about typing: the same field may arrive as a JSON number, a
// numeric string, null, or be absent entirely. Every numeric field funnels
// through this type so that no NaN or Inf ever reaches state or display.
type Amount float64

// UnmarshalJSON accepts numbers, numeric strings, and null. Anything that
// does not parse to a finite float becomes zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	s = strings.Trim(s, `"`)

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', 2, 64)), nil
}

// Float64 returns the underlying value, always finite.
func (a Amount) Float64() float64 {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Display renders the value with two decimal places, e.g. "12.50".
func (a Amount) Display() string {
	return strconv.FormatFloat(a.Float64(), 'f', 2, 64)
}
