package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush9goyal/graphql-k8s-demo/model"
)

// Filter is either empty (match everything) or a single equality constraint
// on one reference field.
type Filter struct {
	Field string
	Value primitive.ObjectID
}

// All matches every document
func All() Filter {
	return Filter{}
}

// Eq matches documents whose reference field equals id
func Eq(field string, id primitive.ObjectID) Filter {
	return Filter{Field: field, Value: id}
}

// EqOptional returns Eq when id is set and All otherwise
func EqOptional(field string, id *primitive.ObjectID) Filter {
	if id == nil {
		return All()
	}
	return Eq(field, *id)
}

// IsEmpty reports whether the filter matches everything
func (f Filter) IsEmpty() bool {
	return f.Field == ""
}

// Matches evaluates the filter against a document in memory
func (f Filter) Matches(doc model.Document) bool {
	if f.IsEmpty() {
		return true
	}
	ref, ok := doc.Reference(f.Field)
	return ok && ref == f.Value
}

// Collection is the gateway contract for one document collection.
// T is a pointer type such as *model.User.
type Collection[T model.Document] interface {
	// Name returns the collection name
	Name() string

	// Create assigns a new identifier, applies creation defaults and inserts doc.
	// Fails with a transient error when the backend is unavailable.
	Create(ctx context.Context, doc T) error

	// FindByID returns the matching document, or the nil T when there is none.
	FindByID(ctx context.Context, id primitive.ObjectID) (T, error)

	// FindByIDs returns the documents among ids that exist, in no particular order.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error)

	// FindMany returns the documents matching filter in insertion order.
	FindMany(ctx context.Context, filter Filter) ([]T, error)
}

// Store is the persistence gateway: five collections over one shared connection.
type Store interface {
	Users() Collection[*model.User]
	Categories() Collection[*model.Category]
	Products() Collection[*model.Product]
	Orders() Collection[*model.Order]
	Reviews() Collection[*model.Review]

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases the connection. The Store must not be used afterwards.
	Close(ctx context.Context) error
}
