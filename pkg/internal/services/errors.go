package services

import "errors"

var (
	// ErrUnauthorized covers both a missing caller and a caller without the required membership or role.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	// ErrInvalidRequest is a well-formed request the current state refuses, such as a wrong join code.
	ErrInvalidRequest = errors.New("invalid request")
)
