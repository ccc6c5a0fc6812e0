package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongProvider      = errors.New("account signs in with google")
	ErrInvalidToken       = errors.New("invalid google token")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("operation not allowed")
	ErrAlreadyHandled     = errors.New("already handled")
)

// Both wrap ErrInvalidCredentials; handlers pick the message by which one.
var (
	ErrUnknownUser   = fmt.Errorf("%w: user not found", ErrInvalidCredentials)
	ErrWrongPassword = fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
)
