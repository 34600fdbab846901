// Package store is the query layer over the relational records. All
// lookups that can miss return ErrNotFound; gorm's sentinel never leaks
// past this package.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no matching record exists. Ownership
// mismatches on mutations surface as this same error: callers must not be
// able to tell "not yours" apart from "does not exist".
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
