package timestamp

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

var (
	testTime   = time.Date(2023, 1, 15, 12, 30, 45, 123000000, time.UTC)
	testTimeMs = int64(1673785845123)
)

func TestNow(t *testing.T) {
	before := time.Now().Add(-time.Millisecond)
	ts := Now()
	after := time.Now()

	if ts.Before(before) || ts.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", ts, before, after)
	}
	if ts.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("Now() should be truncated to milliseconds, got %v", ts)
	}
	if ts.Location() != time.UTC {
		t.Errorf("Now() should be UTC, got %v", ts.Location())
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
	}{
		{"exact milliseconds", testTime},
		{"unix epoch", time.Unix(0, 0).UTC()},
		{"before epoch", time.Date(1969, 7, 20, 20, 17, 40, 0, time.UTC)},
		{"non-UTC zone", time.Date(2024, 2, 29, 8, 0, 0, 5000000, time.FixedZone("X", 3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromUnixMs(ToUnixMs(tt.input))
			if !got.Equal(tt.input) {
				t.Errorf("round trip of %v gave %v", tt.input, got)
			}
		})
	}
}

func TestToUnixMs(t *testing.T) {
	if got := ToUnixMs(testTime); got != testTimeMs {
		t.Errorf("ToUnixMs = %d, expected %d", got, testTimeMs)
	}
	if got := ToUnixMs(time.Unix(0, 0)); got != 0 {
		t.Errorf("epoch should be 0, got %d", got)
	}
}

func TestTruncate(t *testing.T) {
	in := time.Date(2023, 1, 15, 12, 30, 45, 123456789, time.UTC)
	if got := Truncate(in); !got.Equal(testTime) {
		t.Errorf("Truncate = %v, expected %v", got, testTime)
	}
}

func TestFromNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		wantOK bool
	}{
		{"int", int(testTimeMs), true},
		{"int64", testTimeMs, true},
		{"float64 integral", float64(testTimeMs), true},
		{"json.Number", json.Number("1673785845123"), true},
		{"float64 fractional", 1.5, false},
		{"NaN", math.NaN(), false},
		{"json.Number fractional", json.Number("1.5"), false},
		{"string", "1673785845123", false},
		{"nil", nil, false},
		{"bool", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("FromNumber(%v) ok = %v, expected %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(testTime) {
				t.Errorf("FromNumber(%v) = %v, expected %v", tt.input, got, testTime)
			}
		})
	}
}

func TestFromNumberEpoch(t *testing.T) {
	got, ok := FromNumber(int64(0))
	if !ok || !got.Equal(time.Unix(0, 0)) {
		t.Errorf("0 must decode to the epoch, got %v (%v)", got, ok)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(testTime); got != "2023-01-15T12:30:45.123Z" {
		t.Errorf("Format = %s", got)
	}
}
