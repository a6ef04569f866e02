package models

import (
	"bytes"
	"encoding/json"
)

// List tolerates both shapes the backend uses for collections: a bare JSON
// array, or the {count,next,previous,results} pagination envelope. Paged is
// true only for the latter.
type List[T any] struct {
	Count    int
	Next     *string
	Previous *string
	Results  []T

	Paged bool
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &l.Results)
	}

	var envelope struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []T     `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	l.Count = envelope.Count
	l.Next = envelope.Next
	l.Previous = envelope.Previous
	l.Results = envelope.Results
	l.Paged = true
	return nil
}

// Pagination returns the envelope metadata.
func (l *List[T]) Pagination() Pagination {
	return Pagination{Count: l.Count, Next: l.Next, Previous: l.Previous}
}
