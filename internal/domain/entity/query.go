package entity

import (
	"errors"
	"strings"
)

var ErrEmptyQuery = errors.New("query is empty")

// NormalizeQuery trims surrounding whitespace and rejects queries with nothing left.
func NormalizeQuery(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}
