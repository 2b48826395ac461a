package services

import "errors"

var (
	// ErrInvalidInput is returned when a required field is missing or unusable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
