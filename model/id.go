package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
)

// ParseID parses a client supplied identifier. Anything other than a
// 24-digit hex ObjectID is rejected as invalid input.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, errors.WrapInvalid(
			fmt.Errorf("%w: %q", errors.ErrInvalidID, s), "model", "ParseID", "parse identifier")
	}
	return id, nil
}

// ParseOptionalID parses an optional identifier argument. A nil input yields nil.
func ParseOptionalID(s *string) (*primitive.ObjectID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := ParseID(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
