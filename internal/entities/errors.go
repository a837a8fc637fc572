package entities

import "errors"

var (
	// ErrDuplicate is returned by stores when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
)
