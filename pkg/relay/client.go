// Package relay is the runtime used by generated HTTP clients. A Client holds
// immutable configuration; Invoke performs one annotated call.
package relay

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Config holds everything a call reads. It is copied into the Client and
// never modified afterwards.
type Config struct {
	// BaseURL every call URI is resolved against. Without it call URIs must be absolute.
	BaseURL *url.URL

	// Transport sends requests (default: http.DefaultClient)
	Transport Transport

	// Codecs encode request bodies and decode response bodies (default: DefaultCodecs())
	Codecs *Codecs

	// MimeMatcher checks the response Content-Type (default: DefaultMimeMatcher)
	MimeMatcher MimeMatcher

	// RequestContentType is used when a method declares none (default: application/json)
	RequestContentType string

	// ResponseContentType is expected when a method declares none (default: application/json)
	ResponseContentType string

	// Logger receives one debug record per call and a warning per failure (default: discard)
	Logger *slog.Logger

	// Initializers run on every request before header bindings
	Initializers []RequestInitializer

	// Validator checks decoded struct payloads when set
	Validator *validator.Validate

	// MaxBodySize limits how many response bytes are read; 0 means no limit
	MaxBodySize int64
}

// Option configures a Client
type Option func(*Config) error

// Client is the immutable runtime shared by generated clients
type Client struct {
	cfg Config
}

// New creates a Client from the defaults and the given options
func New(opts ...Option) (*Client, error) {
	cfg := Config{
		Transport:           http.DefaultClient,
		Codecs:              DefaultCodecs(),
		MimeMatcher:         DefaultMimeMatcher,
		RequestContentType:  ApplicationJSON,
		ResponseContentType: ApplicationJSON,
		Logger:              slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	cfg.Initializers = slices.Clip(cfg.Initializers)
	return &Client{cfg: cfg}, nil
}

// MustNew is like New but panics on error
func MustNew(opts ...Option) *Client {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns a copy of the client configuration
func (c *Client) Config() Config {
	cfg := c.cfg
	cfg.Initializers = slices.Clone(c.cfg.Initializers)
	return cfg
}

// WithBaseURL sets the base URL call URIs are resolved against
func WithBaseURL(raw string) Option {
	return func(cfg *Config) error {
		u, err := url.Parse(raw)
		if err != nil {
			return &URLParseError{URL: raw, Err: err}
		}
		if !u.IsAbs() {
			return &URLParseError{URL: raw, Err: fmt.Errorf("base url must be absolute")}
		}
		cfg.BaseURL = u
		return nil
	}
}

// WithTransport sets the transport requests are sent through
func WithTransport(t Transport) Option {
	return func(cfg *Config) error {
		if t == nil {
			return fmt.Errorf("relay: nil transport")
		}
		cfg.Transport = t
		return nil
	}
}

// WithCodecs replaces the codec registry
func WithCodecs(codecs *Codecs) Option {
	return func(cfg *Config) error {
		if codecs == nil {
			return fmt.Errorf("relay: nil codec registry")
		}
		cfg.Codecs = codecs
		return nil
	}
}

// WithCodec registers an extra codec on a private copy of the current registry
func WithCodec(codec Codec, mediaTypes ...string) Option {
	return func(cfg *Config) error {
		cfg.Codecs = cfg.Codecs.Clone()
		cfg.Codecs.Register(codec, mediaTypes...)
		return nil
	}
}

// WithMimeMatcher replaces the response Content-Type check
func WithMimeMatcher(m MimeMatcher) Option {
	return func(cfg *Config) error {
		if m == nil {
			return fmt.Errorf("relay: nil mime matcher")
		}
		cfg.MimeMatcher = m
		return nil
	}
}

// WithRequestContentType sets the default request body media type
func WithRequestContentType(contentType string) Option {
	return func(cfg *Config) error {
		if _, err := ParseMediaType(contentType); err != nil {
			return fmt.Errorf("relay: request content type: %w", err)
		}
		cfg.RequestContentType = contentType
		return nil
	}
}

// WithResponseContentType sets the default expected response media type
func WithResponseContentType(contentType string) Option {
	return func(cfg *Config) error {
		if _, err := ParseMediaType(contentType); err != nil {
			return fmt.Errorf("relay: response content type: %w", err)
		}
		cfg.ResponseContentType = contentType
		return nil
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) error {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		cfg.Logger = logger
		return nil
	}
}

// WithRequestInitializer appends a request initializer
func WithRequestInitializer(initializer RequestInitializer) Option {
	return func(cfg *Config) error {
		cfg.Initializers = append(cfg.Initializers, initializer)
		return nil
	}
}

// WithRequestID sets a random UUID in header on requests that do not carry one
// already. An empty header name means X-Request-Id.
func WithRequestID(header string) Option {
	if header == "" {
		header = HeaderRequestID
	}
	return WithRequestInitializer(func(req *http.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, uuid.NewString())
		}
		return nil
	})
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) Option {
	return WithRequestInitializer(func(req *http.Request) error {
		req.Header.Set(HeaderUserAgent, userAgent)
		return nil
	})
}

// WithValidation validates decoded struct payloads. A nil validator creates
// one with required struct validation enabled.
func WithValidation(v *validator.Validate) Option {
	return func(cfg *Config) error {
		if v == nil {
			v = validator.New(validator.WithRequiredStructEnabled())
		}
		cfg.Validator = v
		return nil
	}
}

// WithMaxBodySize limits the response body size; larger bodies fail with a TransportError
func WithMaxBodySize(n int64) Option {
	return func(cfg *Config) error {
		if n < 0 {
			return fmt.Errorf("relay: negative max body size %d", n)
		}
		cfg.MaxBodySize = n
		return nil
	}
}
