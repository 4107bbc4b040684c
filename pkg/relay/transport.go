package relay

import "net/http"

// Transport sends one request and returns one response. *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a function to Transport
type TransportFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req)
func (f TransportFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RequestInitializer mutates every outgoing request before header bindings are applied
type RequestInitializer func(req *http.Request) error
