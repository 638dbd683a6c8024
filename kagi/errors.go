package kagi

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned by NewClient when no API token is given.
var ErrMissingToken = errors.New("kagi: api token is required")

// RequestError reports a failed API call: either the request never
// completed, or the service answered with a non-success status. When the
// service supplied an error payload, its first entry is carried in Code
// and Message.
type RequestError struct {
	// Endpoint is the API path the call was made against, e.g. "/v0/fastgpt".
	Endpoint string
	// Status is the HTTP status code, or 0 if the request never completed.
	Status int
	// Code is the service-reported error code, if any.
	Code int
	// Message is the service-reported error message, if any.
	Message string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("kagi: error calling %s: %v", e.Endpoint, e.Err)
	case e.Message != "":
		return fmt.Sprintf("kagi: error calling %s: %s (status %d, code %d)", e.Endpoint, e.Message, e.Status, e.Code)
	default:
		return fmt.Sprintf("kagi: error calling %s: unexpected status %d", e.Endpoint, e.Status)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// ValidationError reports a request that failed client-side checks. No
// HTTP call is made when one is returned.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("kagi: invalid request: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ParseError reports a response body that does not match the shape the
// API documents. Path locates the offending field, e.g. "meta.ms".
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("kagi: invalid response: %s: %s", e.Path, e.Reason)
}
