package services

import "errors"

// Failure kinds surfaced by the services. Handlers map these onto HTTP
// status codes; anything not matching one of them is an internal failure and
// its detail stays out of the response body.
var (
	// ErrInvalidInput marks input rejected before any store access.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login failures do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned for missing, malformed, or forged tokens.
	ErrInvalidToken = errors.New("invalid token")
)
