package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}

func (c *Category) DocumentID() primitive.ObjectID      { return c.ID }
func (c *Category) SetDocumentID(id primitive.ObjectID) { c.ID = id }
func (c *Category) Prepare(time.Time)                   {}

func (c *Category) Reference(string) (primitive.ObjectID, bool) {
	return primitive.NilObjectID, false
}
