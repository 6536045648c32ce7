package account

import "errors"

var (
	ErrNotFound           = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("account already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid user data")
)
