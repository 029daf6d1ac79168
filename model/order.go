package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderLine is an embedded order item. It keeps the product reference and the
// quantity but not the unit price paid.
type OrderLine struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`

	// ProductDoc is set when the product has been populated.
	ProductDoc *Product `bson:"-" json:"-"`
}

// Order is a placed order. Total is computed once, from the product prices
// current at creation, and never recomputed.
type Order struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Items    []OrderLine        `bson:"items" json:"items"`
	Total    float64            `bson:"total" json:"total"`
	PlacedAt time.Time          `bson:"placedAt" json:"placedAt"`
}

func (o *Order) DocumentID() primitive.ObjectID      { return o.ID }
func (o *Order) SetDocumentID(id primitive.ObjectID) { o.ID = id }

func (o *Order) Prepare(now time.Time) {
	if o.PlacedAt.IsZero() {
		o.PlacedAt = now
	}
	// items is required: store an empty array, never null
	if o.Items == nil {
		o.Items = []OrderLine{}
	}
}

func (o *Order) Reference(field string) (primitive.ObjectID, bool) {
	if field == FieldUser {
		return o.User, true
	}
	return primitive.NilObjectID, false
}
