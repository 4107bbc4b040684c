package relay

import (
	"errors"
	"fmt"
)

// ErrUnsupportedContentType is returned by the codec registry when no codec
// handles a media type.
var ErrUnsupportedContentType = errors.New("relay: unsupported content type")

// URLParseError reports a URI that cannot be parsed or resolved against the base URL
type URLParseError struct {
	URL string
	Err error
}

func (e *URLParseError) Error() string {
	return fmt.Sprintf("relay: invalid url %q: %v", e.URL, e.Err)
}

func (e *URLParseError) Unwrap() error { return e.Err }

// RequestBuildError reports a failure assembling the outgoing request
type RequestBuildError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestBuildError) Error() string {
	return fmt.Sprintf("relay: build %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestBuildError) Unwrap() error { return e.Err }

// ToContentError reports a request body that could not be encoded
type ToContentError struct {
	ContentType string
	Err         error
}

func (e *ToContentError) Error() string {
	return fmt.Sprintf("relay: encode body as %s: %v", e.ContentType, e.Err)
}

func (e *ToContentError) Unwrap() error { return e.Err }

// TransportError reports a failure sending the request or reading the response
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedStatusError carries a response whose status differs from the expected one
type UnexpectedStatusError struct {
	Expected int
	Actual   int
	Response *RawResponse
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("relay: unexpected status code: expected %d, got %d", e.Expected, e.Actual)
}

// UnexpectedContentTypeError carries a response whose Content-Type is missing or does not match
type UnexpectedContentTypeError struct {
	Expected string
	Actual   string
	Response *RawResponse
}

func (e *UnexpectedContentTypeError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("relay: unexpected content type: expected %s, got none", e.Expected)
	}
	return fmt.Sprintf("relay: unexpected content type: expected %s, got %s", e.Expected, e.Actual)
}

// FromContentError reports a response body that could not be decoded or failed validation
type FromContentError struct {
	ContentType string
	Err         error
	Response    *RawResponse
}

func (e *FromContentError) Error() string {
	return fmt.Sprintf("relay: decode %s body: %v", e.ContentType, e.Err)
}

func (e *FromContentError) Unwrap() error { return e.Err }

// IsUnexpected reports whether err carries a response that failed the
// status or content type check. The response is returned when it does.
func IsUnexpected(err error) (*RawResponse, bool) {
	var status *UnexpectedStatusError
	if errors.As(err, &status) {
		return status.Response, true
	}
	var contentType *UnexpectedContentTypeError
	if errors.As(err, &contentType) {
		return contentType.Response, true
	}
	return nil, false
}
