package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"
)

// Header is one header binding of a call, in declaration order
type Header struct {
	Name  string
	Value any
}

// Expect is the response a call accepts
type Expect struct {
	Status      int    // 0 means 200
	ContentType string // empty means Config.ResponseContentType
}

// Call is the fully bound description of one request, built by generated code
type Call struct {
	Method      string
	URL         string // rendered URI template, resolved against Config.BaseURL
	ContentType string // empty means Config.RequestContentType
	Headers     []Header
	Body        any
	HasBody     bool
	Expect      Expect
}

// Invoke performs call and decodes the response body into T. Each step is
// terminal on failure: resolve the URL, encode the body, build the request,
// dispatch it, check the status, check the Content-Type, decode.
//
// The body is decoded with the codec of the response's own Content-Type once
// it has matched the expected one, so wildcard expectations and +suffix types
// pick the codec the server actually used.
func Invoke[T any](ctx context.Context, c *Client, call Call) (resp *Response[T], err error) {
	cfg := &c.cfg
	start := time.Now()

	requestType := call.ContentType
	if requestType == "" {
		requestType = cfg.RequestContentType
	}
	expectedType := call.Expect.ContentType
	if expectedType == "" {
		expectedType = cfg.ResponseContentType
	}
	expectedStatus := call.Expect.Status
	if expectedStatus == 0 {
		expectedStatus = http.StatusOK
	}

	defer func() {
		if err != nil {
			cfg.Logger.WarnContext(ctx, "relay call failed",
				"method", call.Method,
				"url", call.URL,
				"duration", time.Since(start),
				"error", err)
		}
	}()

	target, err := c.resolve(call.URL)
	if err != nil {
		return nil, err
	}

	req, err := c.buildRequest(ctx, call, target, requestType)
	if err != nil {
		return nil, err
	}

	raw, err := c.dispatch(req)
	if err != nil {
		return nil, err
	}

	cfg.Logger.DebugContext(ctx, "relay call",
		"method", req.Method,
		"url", target,
		"status", raw.StatusCode,
		"duration", time.Since(start))

	if raw.StatusCode != expectedStatus {
		return nil, &UnexpectedStatusError{Expected: expectedStatus, Actual: raw.StatusCode, Response: raw}
	}

	actualType := raw.Header.Get(HeaderContentType)
	if actualType == "" || !cfg.MimeMatcher(expectedType, actualType) {
		return nil, &UnexpectedContentTypeError{Expected: expectedType, Actual: actualType, Response: raw}
	}

	resp = &Response[T]{StatusCode: raw.StatusCode, Header: raw.Header, Raw: raw}
	if _, empty := any(&resp.Body).(*Empty); empty {
		return resp, nil
	}

	if err := cfg.Codecs.Decode(actualType, raw.Body, &resp.Body); err != nil {
		return nil, &FromContentError{ContentType: actualType, Err: err, Response: raw}
	}
	if err := c.validate(resp.Body); err != nil {
		return nil, &FromContentError{ContentType: actualType, Err: err, Response: raw}
	}
	return resp, nil
}

func (c *Client) resolve(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", &URLParseError{URL: raw, Err: err}
	}
	if c.cfg.BaseURL == nil {
		if !ref.IsAbs() {
			return "", &URLParseError{URL: raw, Err: errors.New("relative url without a base url")}
		}
		return ref.String(), nil
	}
	return c.cfg.BaseURL.ResolveReference(ref).String(), nil
}

func (c *Client) buildRequest(ctx context.Context, call Call, target, contentType string) (*http.Request, error) {
	var body io.Reader
	if call.HasBody {
		data, err := c.cfg.Codecs.Encode(contentType, call.Body)
		if err != nil {
			return nil, &ToContentError{ContentType: contentType, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return nil, &RequestBuildError{Method: call.Method, URL: target, Err: err}
	}

	for _, initialize := range c.cfg.Initializers {
		if err := initialize(req); err != nil {
			return nil, &RequestBuildError{Method: call.Method, URL: target, Err: err}
		}
	}
	for _, h := range call.Headers {
		req.Header.Add(h.Name, FormatValue(h.Value))
	}
	if call.HasBody {
		req.Header.Set(HeaderContentType, contentType)
	}
	return req, nil
}

// dispatch sends req and reads the whole body, which is part of the transport step
func (c *Client) dispatch(req *http.Request) (*RawResponse, error) {
	res, err := c.cfg.Transport.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer res.Body.Close()

	var reader io.Reader = res.Body
	if c.cfg.MaxBodySize > 0 {
		reader = io.LimitReader(res.Body, c.cfg.MaxBodySize+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	if c.cfg.MaxBodySize > 0 && int64(len(body)) > c.cfg.MaxBodySize {
		return nil, &TransportError{
			Method: req.Method,
			URL:    req.URL.String(),
			Err:    fmt.Errorf("response body exceeds %d bytes", c.cfg.MaxBodySize),
		}
	}

	return &RawResponse{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Header:     res.Header,
		Body:       body,
		Request:    req,
	}, nil
}

// validate runs the configured validator on struct payloads
func (c *Client) validate(payload any) error {
	if c.cfg.Validator == nil {
		return nil
	}
	rv := reflect.ValueOf(payload)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return c.cfg.Validator.Struct(rv.Interface())
}
