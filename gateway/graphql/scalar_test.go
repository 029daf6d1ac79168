package graphql

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateScalar_Serialize(t *testing.T) {
	at := time.Date(2024, 6, 10, 8, 30, 15, 123_000_000, time.UTC)
	assert.Equal(t, int64(1718008215123), serializeDate(at))
	assert.Equal(t, int64(1718008215123), serializeDate(&at))

	var nilTime *time.Time
	assert.Nil(t, serializeDate(nilTime))
	assert.Nil(t, serializeDate("2024-06-10"))
}

func TestDateScalar_ParseValue(t *testing.T) {
	want := time.UnixMilli(1718008215123).UTC()

	tests := []struct {
		name  string
		input interface{}
		want  interface{}
	}{
		{"int", 1718008215123, want},
		{"int64", int64(1718008215123), want},
		{"json float", float64(1718008215123), want},
		{"json number", json.Number("1718008215123"), want},
		{"epoch", 0, time.UnixMilli(0).UTC()},
		{"fraction", 1.5, nil},
		{"string", "1718008215123", nil},
		{"bool", true, nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDateValue(tt.input))
		})
	}
}

func TestDateScalar_ParseLiteral(t *testing.T) {
	got := parseDateLiteral(&ast.IntValue{Kind: "IntValue", Value: "1718008215123"})
	assert.Equal(t, time.UnixMilli(1718008215123).UTC(), got)

	assert.Nil(t, parseDateLiteral(&ast.StringValue{Kind: "StringValue", Value: "2024-06-10"}))
	assert.Nil(t, parseDateLiteral(&ast.FloatValue{Kind: "FloatValue", Value: "1.5"}))
	assert.Nil(t, parseDateLiteral(&ast.BooleanValue{Kind: "BooleanValue", Value: true}))
	assert.Nil(t, parseDateLiteral(&ast.IntValue{Kind: "IntValue", Value: "99999999999999999999"}))
}

func TestDateScalar_RoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC),
		time.UnixMilli(0).UTC(),
		time.UnixMilli(-86_400_000).UTC(),
	}

	for _, at := range instants {
		wire := serializeDate(at)
		decoded := parseDateValue(wire)
		require.NotNil(t, decoded, at)
		assert.True(t, at.Equal(decoded.(time.Time)), "round trip of %v gave %v", at, decoded)

		literal := parseDateLiteral(&ast.IntValue{Value: strconv.FormatInt(wire.(int64), 10)})
		require.NotNil(t, literal)
		assert.True(t, at.Equal(literal.(time.Time)))
	}
}
