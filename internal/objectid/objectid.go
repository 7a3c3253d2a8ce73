// Package objectid validates and generates entity identifiers. Identifiers
// follow the ObjectID convention: 12 bytes rendered as 24 hex characters.
package objectid

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Length is the number of characters in a well-formed identifier
const Length = 24

// IsValid reports whether s is a well-formed identifier. Only the lowercase
// rendering produced by New is accepted, since that is the form the store
// keys on.
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// New returns a fresh identifier
func New() string {
	return primitive.NewObjectID().Hex()
}
