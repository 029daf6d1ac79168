package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names
const (
	CollectionUsers      = "users"
	CollectionCategories = "categories"
	CollectionProducts   = "products"
	CollectionOrders     = "orders"
	CollectionReviews    = "reviews"
)

// Reference field names, as stored
const (
	FieldCategory = "category"
	FieldUser     = "user"
	FieldProduct  = "product"
)

// Document is implemented by every stored type.
type Document interface {
	DocumentID() primitive.ObjectID
	SetDocumentID(id primitive.ObjectID)
	// Prepare applies creation defaults. now is already at storage precision.
	Prepare(now time.Time)
	// Reference returns the identifier stored in a top-level reference field.
	Reference(field string) (primitive.ObjectID, bool)
}

var (
	_ Document = (*User)(nil)
	_ Document = (*Category)(nil)
	_ Document = (*Product)(nil)
	_ Document = (*Order)(nil)
	_ Document = (*Review)(nil)
)
