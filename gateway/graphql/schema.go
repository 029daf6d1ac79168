package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush9goyal/graphql-k8s-demo/commerce"
	"github.com/ayush9goyal/graphql-k8s-demo/errors"
	"github.com/ayush9goyal/graphql-k8s-demo/model"
)

// Backend is what the schema's resolvers call. commerce.Service implements it.
type Backend interface {
	Users(ctx context.Context) ([]*model.User, error)
	Products(ctx context.Context, categoryID *string) ([]*model.Product, error)
	Orders(ctx context.Context, userID *string) ([]*model.Order, error)
	Reviews(ctx context.Context, productID *string) ([]*model.Review, error)

	ProductReviews(ctx context.Context, productID primitive.ObjectID) ([]*model.Review, error)
	User(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	Product(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	Category(ctx context.Context, id primitive.ObjectID) (*model.Category, error)

	AddUser(ctx context.Context, in commerce.NewUser) (*model.User, error)
	AddCategory(ctx context.Context, name string) (*model.Category, error)
	AddProduct(ctx context.Context, in commerce.NewProduct) (*model.Product, error)
	CreateOrder(ctx context.Context, userID string, items []commerce.OrderItemInput) (*model.Order, error)
	AddReview(ctx context.Context, in commerce.NewReview) (*model.Review, error)
}

var _ Backend = (*commerce.Service)(nil)

// types holds the schema's object types. Product and Review refer to each
// other, so their fields are thunks over this struct.
type types struct {
	user           *graphql.Object
	category       *graphql.Object
	product        *graphql.Object
	orderItem      *graphql.Object
	order          *graphql.Object
	review         *graphql.Object
	orderItemInput *graphql.InputObject
}

// NewSchema builds the executable schema over backend
func NewSchema(backend Backend) (graphql.Schema, error) {
	t := newTypes(backend)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields(backend, t),
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutationFields(backend, t),
		}),
	})
	if err != nil {
		return graphql.Schema{}, errors.WrapFatal(err, "graphql", "NewSchema", "build schema")
	}
	return schema, nil
}

func newTypes(backend Backend) *types {
	t := &types{}

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        idField(),
			"name":      {Type: graphql.NewNonNull(graphql.String)},
			"email":     {Type: graphql.NewNonNull(graphql.String)},
			"createdAt": {Type: graphql.NewNonNull(DateScalar)},
		},
	})

	t.category = graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   idField(),
			"name": {Type: graphql.NewNonNull(graphql.String)},
		},
	})

	t.product = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          idField(),
				"name":        {Type: graphql.NewNonNull(graphql.String)},
				"description": {Type: graphql.String},
				"price":       {Type: graphql.NewNonNull(graphql.Float)},
				"category":    {Type: t.category, Resolve: resolveProductCategory(backend)},
				"reviews":     {Type: graphql.NewList(t.review), Resolve: resolveProductReviews(backend)},
			}
		}),
	})

	t.review = graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":        idField(),
				"product":   {Type: graphql.NewNonNull(t.product), Resolve: resolveReviewProduct(backend)},
				"user":      {Type: graphql.NewNonNull(t.user), Resolve: resolveReviewUser(backend)},
				"rating":    {Type: graphql.NewNonNull(graphql.Int)},
				"comment":   {Type: graphql.String},
				"createdAt": {Type: graphql.NewNonNull(DateScalar)},
			}
		}),
	})

	t.orderItem = graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: graphql.Fields{
			"product":  {Type: graphql.NewNonNull(t.product), Resolve: resolveOrderItemProduct(backend)},
			"quantity": {Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	t.order = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":       idField(),
			"user":     {Type: graphql.NewNonNull(t.user), Resolve: resolveOrderUser(backend)},
			"items":    {Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.orderItem)))},
			"total":    {Type: graphql.NewNonNull(graphql.Float)},
			"placedAt": {Type: graphql.NewNonNull(DateScalar)},
		},
	})

	t.orderItemInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderItemInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"productId": {Type: graphql.NewNonNull(graphql.ID)},
			"quantity":  {Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	return t
}

// idField exposes a document's ObjectID as hex
func idField() *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.ID),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			doc, ok := p.Source.(model.Document)
			if !ok {
				return nil, nil
			}
			return doc.DocumentID().Hex(), nil
		},
	}
}
