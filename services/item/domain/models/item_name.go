package models

import "strings"

// ItemName is the caller-supplied label of an item. Any string is a valid
// name, including the empty one; the opt-in strict rules live in the domain
// services package.
type ItemName string

// MaxItemNameLength is the longest name strict validation accepts.
const MaxItemNameLength = 255

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}

// IsBlank reports whether the name is empty or whitespace only.
func (n ItemName) IsBlank() bool {
	return strings.TrimSpace(string(n)) == ""
}
