package graphql

import (
	"github.com/graphql-go/graphql"
)

// queryFields is the Query dispatch table
func queryFields(backend Backend, t *types) graphql.Fields {
	return graphql.Fields{
		"users": {
			Type: graphql.NewList(graphql.NewNonNull(t.user)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				users, err := backend.Users(p.Context)
				if err != nil {
					return nil, mapError(err, "users")
				}
				return users, nil
			},
		},
		"products": {
			Type: graphql.NewList(graphql.NewNonNull(t.product)),
			Args: graphql.FieldConfigArgument{
				"categoryId": {Type: graphql.ID},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				products, err := backend.Products(p.Context, optionalString(p.Args, "categoryId"))
				if err != nil {
					return nil, mapError(err, "products")
				}
				return products, nil
			},
		},
		"orders": {
			Type: graphql.NewList(graphql.NewNonNull(t.order)),
			Args: graphql.FieldConfigArgument{
				"userId": {Type: graphql.ID},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				orders, err := backend.Orders(p.Context, optionalString(p.Args, "userId"))
				if err != nil {
					return nil, mapError(err, "orders")
				}
				return orders, nil
			},
		},
		"reviews": {
			Type: graphql.NewList(graphql.NewNonNull(t.review)),
			Args: graphql.FieldConfigArgument{
				"productId": {Type: graphql.ID},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				reviews, err := backend.Reviews(p.Context, optionalString(p.Args, "productId"))
				if err != nil {
					return nil, mapError(err, "reviews")
				}
				return reviews, nil
			},
		},
	}
}

// optionalString returns the named argument, or nil when it was omitted or null
func optionalString(args map[string]interface{}, name string) *string {
	v, ok := args[name].(string)
	if !ok {
		return nil
	}
	return &v
}
