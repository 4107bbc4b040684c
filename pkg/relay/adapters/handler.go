// Package adapters provides in-process relay transports that dispatch calls
// straight into a web framework's router instead of over the network.
package adapters

import (
	"net/http"
	"net/http/httptest"

	"github.com/toyz/relay/pkg/relay"
)

// HandlerTransport serves requests with an http.Handler and records the response
type HandlerTransport struct {
	handler http.Handler
	name    string
}

var _ relay.Transport = (*HandlerTransport)(nil)

// NewHandlerTransport creates a transport for any http.Handler
func NewHandlerTransport(h http.Handler) *HandlerTransport {
	return &HandlerTransport{handler: h, name: "net/http"}
}

// Do implements relay.Transport
func (t *HandlerTransport) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, serverRequest(req))
	res := rec.Result()
	res.Request = req
	return res, nil
}

// Name returns the framework the transport dispatches into
func (t *HandlerTransport) Name() string {
	return t.name
}

// serverRequest turns an outgoing client request into what a server would see
func serverRequest(req *http.Request) *http.Request {
	in := req.Clone(req.Context())
	if in.Body == nil {
		in.Body = http.NoBody
	}
	in.RequestURI = req.URL.RequestURI()
	if in.Host == "" {
		in.Host = req.URL.Host
	}
	in.RemoteAddr = "192.0.2.1:1234"
	return in
}
