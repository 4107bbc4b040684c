package adapters

import "github.com/gin-gonic/gin"

// NewGinTransport dispatches calls into a Gin engine
func NewGinTransport(g *gin.Engine) *HandlerTransport {
	return &HandlerTransport{handler: g, name: "Gin"}
}
