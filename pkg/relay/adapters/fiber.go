package adapters

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/toyz/relay/pkg/relay"
)

// FiberTransport dispatches calls into a Fiber app through app.Test, which
// runs the fasthttp handler without a listener.
type FiberTransport struct {
	app     *fiber.App
	timeout int
}

var _ relay.Transport = (*FiberTransport)(nil)

// NewFiberTransport creates a transport for app. A timeout of -1 disables the
// per-request deadline; otherwise it is in milliseconds.
func NewFiberTransport(app *fiber.App, timeout int) *FiberTransport {
	return &FiberTransport{app: app, timeout: timeout}
}

// Do implements relay.Transport
func (t *FiberTransport) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	res, err := t.app.Test(serverRequest(req), t.timeout)
	if err != nil {
		return nil, err
	}
	res.Request = req
	return res, nil
}

// Name returns the framework the transport dispatches into
func (t *FiberTransport) Name() string {
	return "Fiber"
}
