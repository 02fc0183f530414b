package jwt

import "errors"

var (
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrMalformedToken       = errors.New("malformed token")
	ErrSignatureInvalid     = errors.New("invalid signature")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)
