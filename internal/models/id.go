package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a new 24-character hex identifier in the ObjectID format the
// storefront clients already use.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id has the ObjectID hex format.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
