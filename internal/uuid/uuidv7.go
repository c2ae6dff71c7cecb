// Package uuid wraps google/uuid for the ids used as transaction primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a UUIDv7. The leading 48 bits are the Unix millisecond timestamp,
// so ids sort in creation order, which the ledger relies on as a tiebreaker
// for transactions inserted within the same clock tick.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and canonicalizes a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}
