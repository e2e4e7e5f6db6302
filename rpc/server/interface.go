package server

import (
	"context"
	"net"
)

// IRPCServer is the interface of the network daemon that serves RPC calls
// over accepted connections.
type IRPCServer interface {
	// Serve binds the configured endpoint and serves calls until Shutdown is
	// called or the listener fails. It blocks for the lifetime of the server
	// and returns nil after a clean shutdown.
	Serve() error
	// Shutdown stops accepting new connections, closes the open ones and
	// waits for the serve goroutines to drain, bounded by ctx.
	Shutdown(ctx context.Context) error
	// Addr returns the bound listen address, or nil before Serve bound it.
	// Useful when listening on an ephemeral port.
	Addr() net.Addr
}
