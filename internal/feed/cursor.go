package feed

import (
	"strconv"
	"time"
)

// EncodeCursor serializes a post's creation timestamp as an opaque cursor:
// the millisecond epoch value in decimal.
func EncodeCursor(createdAt time.Time) string {
	return strconv.FormatInt(createdAt.UnixMilli(), 10)
}

// DecodeCursor parses a cursor back into a time bound. Malformed cursors
// decode as (zero, false) and the caller starts from the newest post;
// leniency here is deliberate, not a validation gate.
func DecodeCursor(cursor string) (time.Time, bool) {
	if cursor == "" {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis).UTC(), true
}
