package adapters

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/relay/pkg/relay"
)

type account struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Token string `json:"token,omitempty"`
}

func echoApp() relay.Transport {
	e := echo.New()
	e.GET("/accounts/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, account{
			ID:    c.Param("id"),
			Owner: c.QueryParam("owner"),
			Token: c.Request().Header.Get("X-Token"),
		})
	})
	e.POST("/accounts", func(c echo.Context) error {
		var in account
		if err := c.Bind(&in); err != nil {
			return err
		}
		in.ID = "new"
		return c.JSON(http.StatusCreated, in)
	})
	return NewEchoTransport(e)
}

func ginApp() relay.Transport {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/accounts/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, account{
			ID:    c.Param("id"),
			Owner: c.Query("owner"),
			Token: c.GetHeader("X-Token"),
		})
	})
	g.POST("/accounts", func(c *gin.Context) {
		var in account
		if err := c.ShouldBindJSON(&in); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		in.ID = "new"
		c.JSON(http.StatusCreated, in)
	})
	return NewGinTransport(g)
}

func fiberApp() relay.Transport {
	app := fiber.New()
	app.Get("/accounts/:id", func(c *fiber.Ctx) error {
		return c.JSON(account{
			ID:    c.Params("id"),
			Owner: c.Query("owner"),
			Token: c.Get("X-Token"),
		})
	})
	app.Post("/accounts", func(c *fiber.Ctx) error {
		var in account
		if err := c.BodyParser(&in); err != nil {
			return err
		}
		in.ID = "new"
		return c.Status(http.StatusCreated).JSON(in)
	})
	return NewFiberTransport(app, -1)
}

func TestTransports(t *testing.T) {
	tests := []struct {
		name      string
		transport func() relay.Transport
	}{
		{"Echo", echoApp},
		{"Gin", ginApp},
		{"Fiber", fiberApp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := tt.transport()
			assert.Equal(t, tt.name, transport.(interface{ Name() string }).Name())

			c, err := relay.New(relay.WithBaseURL("http://relay.test"), relay.WithTransport(transport))
			require.NoError(t, err)

			got, err := relay.Invoke[account](context.Background(), c, relay.Call{
				Method:  http.MethodGet,
				URL:     "/accounts/42?owner=ann",
				Headers: []relay.Header{{Name: "X-Token", Value: "t0"}},
			})
			require.NoError(t, err)
			assert.Equal(t, account{ID: "42", Owner: "ann", Token: "t0"}, got.Body)

			created, err := relay.Invoke[account](context.Background(), c, relay.Call{
				Method:  http.MethodPost,
				URL:     "/accounts",
				Body:    account{Owner: "bob"},
				HasBody: true,
				Expect:  relay.Expect{Status: http.StatusCreated},
			})
			require.NoError(t, err)
			assert.Equal(t, account{ID: "new", Owner: "bob"}, created.Body)

			_, err = relay.Invoke[account](context.Background(), c, relay.Call{Method: http.MethodGet, URL: "/nowhere"})
			var statusErr *relay.UnexpectedStatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusNotFound, statusErr.Actual)
		})
	}
}

func TestHandlerTransportHonoursCancelledContext(t *testing.T) {
	called := false
	tr := NewHandlerTransport(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	assert.Equal(t, "net/http", tr.Name())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://relay.test/", nil)
	require.NoError(t, err)

	_, err = tr.Do(req)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
