package idsite

import (
	"errors"
	"fmt"

	"github.com/hashicorp/stormpath/apierror"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrMissingToken     = errors.New("response token is missing")
)

// Service error codes for callback token validation failures.  Consumers
// branch on these codes, so they are part of the documented contract.
const (
	// CodeTokenInvalid is returned when a callback token is expired or
	// otherwise unusable.
	CodeTokenInvalid = 10011

	// CodeTokenIssuedAtAfterNow is returned for issued-at failures, and for
	// audience mismatches (see below).
	CodeTokenIssuedAtAfterNow = 10012
)

// The service reuses its issued-at wording for audience mismatches.  That
// pairing is surprising but documented, and consumers match on the exact
// text, so it is preserved verbatim here.
const (
	msgTokenInvalid        = "Token is invalid"
	devMsgIssuedAtAfterNow = "Token is invalid because the issued at time (iat) is after the current time"
	devMsgTokenExpired     = "Token is no longer valid because it has expired"
)

// TokenError is a callback token claim-validation failure.  It carries the
// service-defined code and message pair for the first check that failed.
type TokenError struct {
	Code             int
	Message          string
	DeveloperMessage string
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func errIssuedAtAfterNow() *TokenError {
	return &TokenError{
		Code:             CodeTokenIssuedAtAfterNow,
		Message:          msgTokenInvalid,
		DeveloperMessage: devMsgIssuedAtAfterNow,
	}
}

func errTokenExpired() *TokenError {
	return &TokenError{
		Code:             CodeTokenInvalid,
		Message:          msgTokenInvalid,
		DeveloperMessage: devMsgTokenExpired,
	}
}

func errTokenInvalid() *TokenError {
	return &TokenError{
		Code:             CodeTokenInvalid,
		Message:          msgTokenInvalid,
		DeveloperMessage: msgTokenInvalid,
	}
}

// errInvalidCallbackURI mirrors the error the service itself returns for a
// bad cb_uri, so the local pre-flight rejection is indistinguishable from the
// remote one.
func errInvalidCallbackURI() *apierror.Error {
	return apierror.New(
		400,
		400,
		"The specified callback URI (cb_uri) is not valid",
		"The specified callback URI (cb_uri) is not valid. Make sure the callback URI specified in your ID Site configuration matches the value specified.",
	)
}
