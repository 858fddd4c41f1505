package entry

import "errors"

var (
	ErrEntryNotFound      = errors.New("entry not found")
	ErrInvalidMenuID      = errors.New("menu id must be a positive integer")
	ErrInvalidInput       = errors.New("invalid entry input")
	ErrParentMenuMismatch = errors.New("parent entry belongs to a different menu")
	ErrCyclicParent       = errors.New("entry cannot be nested under itself or its descendants")
)
