package ident

import (
	"github.com/google/uuid"
)

// New returns an opaque identifier that is unique for all practical
// purposes within one process lifetime.
func New() string {
	return uuid.New().String()
}
