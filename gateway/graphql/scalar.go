package graphql

import (
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/ayush9goyal/graphql-k8s-demo/pkg/timestamp"
)

// DateScalar encodes instants as integer epoch milliseconds
var DateScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:         "Date",
	Description:  "Custom Date scalar type",
	Serialize:    serializeDate,
	ParseValue:   parseDateValue,
	ParseLiteral: parseDateLiteral,
})

func serializeDate(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		return timestamp.ToUnixMs(v)
	case *time.Time:
		if v == nil {
			return nil
		}
		return timestamp.ToUnixMs(*v)
	default:
		return nil
	}
}

func parseDateValue(value interface{}) interface{} {
	t, ok := timestamp.FromNumber(value)
	if !ok {
		return nil
	}
	return t
}

// parseDateLiteral accepts Int literals only; every other kind is null
func parseDateLiteral(valueAST ast.Value) interface{} {
	v, ok := valueAST.(*ast.IntValue)
	if !ok {
		return nil
	}
	ms, err := strconv.ParseInt(v.Value, 10, 64)
	if err != nil {
		return nil
	}
	return timestamp.FromUnixMs(ms)
}
