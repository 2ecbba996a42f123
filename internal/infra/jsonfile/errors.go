package jsonfile

import "errors"

// ErrNotFound indicates no record carries the requested identifier value.
var ErrNotFound = errors.New("record not found")

// ErrConflict indicates a create collided with an existing identifier value.
var ErrConflict = errors.New("record already exists")

// ErrNoUpdates indicates an update was requested with an empty attribute set.
var ErrNoUpdates = errors.New("no attributes to update")
