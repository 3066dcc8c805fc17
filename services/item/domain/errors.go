package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists indicates an insert collided with an existing primary key.
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrInvalidItemName indicates the item name violates the active name rules.
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrInvalidItemValue indicates the item value is not a finite number.
	ErrInvalidItemValue = errors.New("invalid item value")
)
