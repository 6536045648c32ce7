package catalog

import "errors"

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrInvalidBook   = errors.New("invalid book data")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
