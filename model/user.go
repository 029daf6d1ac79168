package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered customer.
//
// PasswordHash holds the password exactly as submitted; it is never hashed.
// It is excluded from JSON so it cannot leak through events or logs.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u *User) DocumentID() primitive.ObjectID      { return u.ID }
func (u *User) SetDocumentID(id primitive.ObjectID) { u.ID = id }

func (u *User) Prepare(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
}

func (u *User) Reference(string) (primitive.ObjectID, bool) {
	return primitive.NilObjectID, false
}
