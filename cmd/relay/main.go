// Command relay generates HTTP client implementations for Go interfaces
// annotated with //relay:: comments.
//
// Usage:
//
//	relay generate [flags] [directories...]
//	relay clean [flags] [directories...]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/toyz/relay/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
