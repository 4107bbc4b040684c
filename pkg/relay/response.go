package relay

import "net/http"

// Empty is the payload of methods that only return error. Its body is never decoded.
type Empty struct{}

// RawResponse is a fully read HTTP response
type RawResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Request    *http.Request
}

// Cookies parses the Set-Cookie headers of the response
func (r *RawResponse) Cookies() []*http.Cookie {
	return (&http.Response{Header: r.Header}).Cookies()
}

// Response is the typed result of a generated client method
type Response[T any] struct {
	StatusCode int
	Header     http.Header
	Body       T
	Raw        *RawResponse
}

// Cookies parses the Set-Cookie headers of the response
func (r *Response[T]) Cookies() []*http.Cookie {
	return (&http.Response{Header: r.Header}).Cookies()
}

// CookieMap returns the response cookies keyed by name; a later cookie wins over an earlier one
func (r *Response[T]) CookieMap() map[string]*http.Cookie {
	cookies := r.Cookies()
	m := make(map[string]*http.Cookie, len(cookies))
	for _, c := range cookies {
		m[c.Name] = c
	}
	return m
}
