// Package apierror provides the error type returned for failed requests to
// the identity management service.  Every non-2xx response is normalized into
// an *Error carrying the service's status, code, message and developer
// message, so callers can branch on stable fields instead of message text.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTransport marks a network-level failure (dial, TLS, timeout,
// cancellation) from the underlying HTTP client: the request never produced
// a service response to classify.  It is wrapped alongside the original
// cause, so errors.Is(err, ErrTransport) distinguishes the transport kind
// while the cause stays unwrappable.
var ErrTransport = errors.New("transport failure")

// Error represents an error returned by the identity management service, or
// synthesized from a response the service's error envelope could not be
// parsed from.  It is a terminal value: nothing in this SDK retries a request
// that produced an Error.
type Error struct {
	// Status is the HTTP status of the response.
	Status int `json:"status"`

	// Code is the service-defined numeric error code.  When the response
	// body carried no recognizable envelope, Code equals Status.
	Code int `json:"code"`

	// Message is the end-user facing message.
	Message string `json:"message"`

	// DeveloperMessage is the developer facing message.
	DeveloperMessage string `json:"developerMessage"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d, code %d)", e.Message, e.Status, e.Code)
}

// New creates an *Error from its parts.
func New(status, code int, message, developerMessage string) *Error {
	return &Error{
		Status:           status,
		Code:             code,
		Message:          message,
		DeveloperMessage: developerMessage,
	}
}

// Parse decodes the service's error envelope from a response body.  If the
// body is not the envelope shape, a generic error is synthesized from the
// HTTP status so callers always receive the same error type.
func Parse(httpStatus int, body []byte) *Error {
	var e Error
	if err := json.Unmarshal(body, &e); err != nil || (e.Code == 0 && e.Message == "") {
		return &Error{
			Status:  httpStatus,
			Code:    httpStatus,
			Message: "unknown error",
		}
	}
	if e.Status == 0 {
		e.Status = httpStatus
	}
	return &e
}

// FromResponse reads, closes and parses a failed response's body.  It must
// only be called for responses with a status >= 400.
func FromResponse(resp *http.Response) *Error {
	if resp == nil {
		return &Error{Status: 0, Code: 0, Message: "unknown error"}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Status:  resp.StatusCode,
			Code:    resp.StatusCode,
			Message: "unknown error",
		}
	}
	return Parse(resp.StatusCode, body)
}
