package borrow

import "errors"

var (
	ErrRequestNotFound = errors.New("borrow request not found")
	ErrBookUnavailable = errors.New("book is not available for borrowing")
	ErrInvalidStatus   = errors.New("invalid request status")
	ErrInvalidDuration = errors.New("borrow duration must be between 1 and 30 days")
	ErrInvalidContact  = errors.New("missing borrower contact details")
)
