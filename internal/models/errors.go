package models

import "errors"

var (
	// ErrValidation covers malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately conflated so accounts cannot be enumerated.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is returned for any missing, malformed, expired or
	// badly signed bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers both a missing resource and one owned by another user.
	ErrNotFound = errors.New("not found")
)
