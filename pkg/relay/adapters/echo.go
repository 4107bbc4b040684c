package adapters

import "github.com/labstack/echo/v4"

// NewEchoTransport dispatches calls into an Echo instance
func NewEchoTransport(e *echo.Echo) *HandlerTransport {
	return &HandlerTransport{handler: e, name: "Echo"}
}
