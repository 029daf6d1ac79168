package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/ayush9goyal/graphql-k8s-demo/commerce"
)

// mutationFields is the Mutation dispatch table
func mutationFields(backend Backend, t *types) graphql.Fields {
	return graphql.Fields{
		"addUser": {
			Type: t.user,
			Args: graphql.FieldConfigArgument{
				"name":     {Type: graphql.NewNonNull(graphql.String)},
				"email":    {Type: graphql.NewNonNull(graphql.String)},
				"password": {Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				user, err := backend.AddUser(p.Context, commerce.NewUser{
					Name:     stringArg(p.Args, "name"),
					Email:    stringArg(p.Args, "email"),
					Password: stringArg(p.Args, "password"),
				})
				if err != nil {
					return nil, mapError(err, "addUser")
				}
				return user, nil
			},
		},
		"addCategory": {
			Type: t.category,
			Args: graphql.FieldConfigArgument{
				"name": {Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				category, err := backend.AddCategory(p.Context, stringArg(p.Args, "name"))
				if err != nil {
					return nil, mapError(err, "addCategory")
				}
				return category, nil
			},
		},
		"addProduct": {
			Type: t.product,
			Args: graphql.FieldConfigArgument{
				"name":        {Type: graphql.NewNonNull(graphql.String)},
				"description": {Type: graphql.String},
				"price":       {Type: graphql.NewNonNull(graphql.Float)},
				"categoryId":  {Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				price, _ := p.Args["price"].(float64)
				product, err := backend.AddProduct(p.Context, commerce.NewProduct{
					Name:        stringArg(p.Args, "name"),
					Description: optionalString(p.Args, "description"),
					Price:       price,
					CategoryID:  stringArg(p.Args, "categoryId"),
				})
				if err != nil {
					return nil, mapError(err, "addProduct")
				}
				return product, nil
			},
		},
		"createOrder": {
			Type: t.order,
			Args: graphql.FieldConfigArgument{
				"userId": {Type: graphql.NewNonNull(graphql.ID)},
				"items":  {Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.orderItemInput)))},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				order, err := backend.CreateOrder(p.Context, stringArg(p.Args, "userId"), orderItems(p.Args["items"]))
				if err != nil {
					return nil, mapError(err, "createOrder")
				}
				return order, nil
			},
		},
		"addReview": {
			Type: t.review,
			Args: graphql.FieldConfigArgument{
				"productId": {Type: graphql.NewNonNull(graphql.ID)},
				"userId":    {Type: graphql.NewNonNull(graphql.ID)},
				"rating":    {Type: graphql.NewNonNull(graphql.Int)},
				"comment":   {Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				rating, _ := p.Args["rating"].(int)
				review, err := backend.AddReview(p.Context, commerce.NewReview{
					ProductID: stringArg(p.Args, "productId"),
					UserID:    stringArg(p.Args, "userId"),
					Rating:    rating,
					Comment:   optionalString(p.Args, "comment"),
				})
				if err != nil {
					return nil, mapError(err, "addReview")
				}
				return review, nil
			},
		},
	}
}

func stringArg(args map[string]interface{}, name string) string {
	v, _ := args[name].(string)
	return v
}

// orderItems converts the coerced OrderItemInput list
func orderItems(raw interface{}) []commerce.OrderItemInput {
	list, _ := raw.([]interface{})
	items := make([]commerce.OrderItemInput, 0, len(list))
	for _, entry := range list {
		fields, _ := entry.(map[string]interface{})
		item := commerce.OrderItemInput{ProductID: stringArg(fields, "productId")}
		if quantity, ok := fields["quantity"].(int); ok {
			item.Quantity = &quantity
		}
		items = append(items, item)
	}
	return items
}
