// Package pager implements cursor pagination for list endpoints.
package pager

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

const (
	defaultSize = 20
	maxSize     = 250
)

// Size clamps a requested page size into [1, 250], defaulting to 20.
func Size(size uint64) uint64 {
	if size < 1 {
		return defaultSize
	}
	if size > maxSize {
		return maxSize
	}

	return size
}

// Cursor marks the position of the last row of a page. Records are listed
// newest first, so the next page is everything created before Time.
type Cursor struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
}

// EncodeCursor encodes the cursor as a URL-safe base64 page token.
func EncodeCursor(c *Cursor) string {
	j, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(j)
}

// DecodeCursor decodes a page token produced by EncodeCursor.
func DecodeCursor(s string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
