// Package ids validates and generates document identifiers. Every store
// backend uses the same 24 character hexadecimal format so that a venue
// identifier can be checked before any lookup is attempted.
package ids

import "go.mongodb.org/mongo-driver/bson/primitive"

// Valid reports whether s is a well-formed document identifier.
func Valid(s string) bool {
	return primitive.IsValidObjectID(s)
}

// New returns a fresh identifier.
func New() string {
	return primitive.NewObjectID().Hex()
}
