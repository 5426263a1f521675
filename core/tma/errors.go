package tma

import "errors"

var (
	// ErrInvalidSignature is returned when the computed HMAC digest does not
	// match the hash field of the init data.
	ErrInvalidSignature = errors.New("invalid init data signature")
	// ErrMalformedToken is returned when the init data cannot be parsed or a
	// required field is missing.
	ErrMalformedToken = errors.New("malformed init data")
	// ErrExpiredToken is returned when auth_date is older than the configured
	// maximum age.
	ErrExpiredToken = errors.New("init data expired")
)
