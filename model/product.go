package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a sellable item. Price is the current price; orders snapshot it
// into their total at creation time only.
type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description *string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64             `bson:"price" json:"price"`
	Category    *primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`

	// CategoryDoc is set when the category has been populated.
	CategoryDoc *Category `bson:"-" json:"-"`
}

func (p *Product) DocumentID() primitive.ObjectID      { return p.ID }
func (p *Product) SetDocumentID(id primitive.ObjectID) { p.ID = id }
func (p *Product) Prepare(time.Time)                   {}

func (p *Product) Reference(field string) (primitive.ObjectID, bool) {
	if field == FieldCategory && p.Category != nil {
		return *p.Category, true
	}
	return primitive.NilObjectID, false
}
