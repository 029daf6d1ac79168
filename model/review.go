package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's rating of a product. Rating has no enforced bounds.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product   primitive.ObjectID `bson:"product" json:"product"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   *string            `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (r *Review) DocumentID() primitive.ObjectID      { return r.ID }
func (r *Review) SetDocumentID(id primitive.ObjectID) { r.ID = id }

func (r *Review) Prepare(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
}

func (r *Review) Reference(field string) (primitive.ObjectID, bool) {
	switch field {
	case FieldProduct:
		return r.Product, true
	case FieldUser:
		return r.User, true
	default:
		return primitive.NilObjectID, false
	}
}
