package todo

import "errors"

// Domain errors for the todo package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, todo.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a todo id does not exist.
	ErrNotFound = errors.New("todo: not found")

	// ErrInvalidTitle is returned when a title is missing, empty or only whitespace.
	ErrInvalidTitle = errors.New("todo: title is required")
)
