// Package timestamp provides epoch-millisecond timestamp handling.
//
// Milliseconds since the Unix epoch (UTC) are the canonical wire form of every
// Date value served by the API, and the precision MongoDB stores dates at.
// Unlike a "zero means unset" convention, 0 is a valid instant here
// (1970-01-01T00:00:00Z): a Date field always carries a real time.
//
// Usage Examples:
//
//	// Current time at storage precision
//	now := timestamp.Now()
//
//	// Wire conversion
//	ms := timestamp.ToUnixMs(now)
//	t := timestamp.FromUnixMs(ms)
//
//	// Decode a JSON-decoded variable value
//	t, ok := timestamp.FromNumber(float64(1673785845123))
package timestamp

import (
	"encoding/json"
	"math"
	"time"
)

// Now returns the current UTC time truncated to millisecond precision.
func Now() time.Time {
	return Truncate(time.Now())
}

// Truncate drops sub-millisecond precision and normalizes to UTC.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// ToUnixMs converts a time.Time to Unix milliseconds.
func ToUnixMs(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMs converts Unix milliseconds to a UTC time.Time.
func FromUnixMs(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FromNumber converts an integer-valued number to a time.Time.
// Supports the integer kinds, float64/float32 without a fractional part
// (encoding/json decodes every number as float64) and json.Number.
// Returns false for any other input, including strings.
func FromNumber(input any) (time.Time, bool) {
	switch v := input.(type) {
	case int:
		return FromUnixMs(int64(v)), true
	case int32:
		return FromUnixMs(int64(v)), true
	case int64:
		return FromUnixMs(v), true
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return FromUnixMs(ms), true
	default:
		return time.Time{}, false
	}
}

func fromFloat(v float64) (time.Time, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return time.Time{}, false
	}
	if v > math.MaxInt64 || v < math.MinInt64 {
		return time.Time{}, false
	}
	return FromUnixMs(int64(v)), true
}

// Format renders a time as RFC3339 with millisecond precision for logs.
func Format(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
