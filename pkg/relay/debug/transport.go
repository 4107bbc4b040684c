// Package debug provides a relay transport that writes every request as a
// curl command and every response as a raw HTTP dump.
package debug

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"sync"
	"sync/atomic"

	"github.com/toyz/relay/pkg/relay"
	"moul.io/http2curl"
)

// Transport wraps another relay.Transport and logs the traffic through it
type Transport struct {
	next relay.Transport
	mu   sync.Mutex
	out  io.Writer
	n    atomic.Uint64
}

// New wraps next. A nil next means http.DefaultClient.
func New(next relay.Transport, out io.Writer) *Transport {
	if next == nil {
		next = http.DefaultClient
	}
	return &Transport{next: next, out: out}
}

// Do implements relay.Transport
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	n := t.n.Add(1)

	curl, err := http2curl.GetCurlCommand(req)
	if err != nil {
		return nil, fmt.Errorf("curl command for request %d: %w", n, err)
	}
	if err := t.printf("=== client request %d ===\n$ %s\n=== end of client request %d ===\n", n, curl, n); err != nil {
		return nil, err
	}

	res, err := t.next.Do(req)
	if err != nil {
		_ = t.printf("=== transport error %d ===\n%v\n=== end of transport error %d ===\n", n, err, n)
		return nil, err
	}

	dump, err := httputil.DumpResponse(res, true)
	if err != nil {
		res.Body.Close()
		return nil, fmt.Errorf("dump response %d: %w", n, err)
	}
	if err := t.printf("=== server response %d ===\n%s\n=== end of server response %d ===\n", n, dump, n); err != nil {
		res.Body.Close()
		return nil, err
	}
	return res, nil
}

// CloseIdleConnections forwards to the wrapped transport when it supports it
func (t *Transport) CloseIdleConnections() {
	if c, ok := t.next.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}

func (t *Transport) printf(format string, args ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintf(t.out, format, args...); err != nil {
		return fmt.Errorf("debug log: %w", err)
	}
	return nil
}
