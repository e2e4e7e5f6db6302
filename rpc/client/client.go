package client

import (
	"context"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/transport"
	"golang.org/x/sync/semaphore"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// --------------------------------------------------------------------------
// Synchronous Client
// --------------------------------------------------------------------------

// RPCClient makes a single client transport safe for concurrent use. The
// mutex is held for the full round trip of a call, so concurrent goroutines
// serialize whole calls in arrival order and never interleave on the wire.
type RPCClient struct {
	mu        sync.Mutex
	transport transport.IRPCClientTransport

	// conn and timeout are only set when the client owns its connection (Dial)
	conn    net.Conn
	timeout time.Duration
}

// NewRPCClient wraps the given transport. The caller keeps ownership of the
// underlying channel, Close on such a client does nothing.
func NewRPCClient(t transport.IRPCClientTransport) *RPCClient {
	return &RPCClient{transport: t}
}

// Call performs one complete call round trip: BeginCall, AddParam for every
// given parameter in order, Finalize, ReadResponse. result must be a non-nil
// pointer to the method's result type.
func (c *RPCClient) Call(id common.MethodIdentifier, params []Param, result interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Bound the full round trip when the client owns the connection and a
	// timeout is configured. A failure here surfaces on the next read or
	// write anyway, so it is not checked separately.
	if c.conn != nil && c.timeout > 0 {
		_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
	}

	tx, err := c.transport.BeginCall(id)
	if err != nil {
		return err
	}

	for _, p := range params {
		if err := c.transport.AddParam(tx, p.Name, p.Value); err != nil {
			return err
		}
	}

	fs, err := c.transport.Finalize(tx)
	if err != nil {
		return err
	}

	return c.transport.ReadResponse(fs, result)
}

// Close closes the underlying connection if the client owns one (Dial). For
// clients wrapping a caller-provided transport it does nothing.
func (c *RPCClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	return err
}

// --------------------------------------------------------------------------
// Context-Aware Client
// --------------------------------------------------------------------------

// AsyncRPCClient is the context-aware counterpart of RPCClient. Calls queue
// on a weighted semaphore instead of a mutex, so waiting for a free call slot
// is itself cancelable.
//
// Abandoning a call mid-flight (the context ends while request or response
// bytes are in motion) leaves the underlying channel at an unknown position.
// The client then marks itself broken and fails every further call with kind
// IllegalState; the only remaining useful operation is Close.
type AsyncRPCClient struct {
	sem       *semaphore.Weighted
	transport transport.IRPCAsyncClientTransport
	broken    atomic.Bool

	// conn is only set when the client owns its connection (DialAsync)
	conn net.Conn
}

// NewAsyncRPCClient wraps the given transport. The caller keeps ownership of
// the underlying channel, Close on such a client does nothing.
func NewAsyncRPCClient(t transport.IRPCAsyncClientTransport) *AsyncRPCClient {
	return &AsyncRPCClient{
		sem:       semaphore.NewWeighted(1),
		transport: t,
	}
}

// CallContext performs one complete call round trip under the given context
// (docu see RPCClient.Call). Cancellation while still waiting for the call
// slot is harmless, cancellation mid-call abandons the call and breaks the
// client.
func (c *AsyncRPCClient) CallContext(ctx context.Context, id common.MethodIdentifier, params []Param, result interface{}) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		// Nothing was transmitted for this call, the client stays usable
		return common.NewRPCErrorWithCause(common.Other, "call abandoned", err)
	}
	defer c.sem.Release(1)

	if c.broken.Load() {
		return common.NewRPCError(common.IllegalState, "client is broken after an abandoned call")
	}

	err := c.invoke(ctx, id, params, result)
	if err != nil && ctx.Err() != nil {
		// The call may have been cut loose with bytes in motion, the channel
		// position is unknown from here on
		c.broken.Store(true)
		Logger.Warningf("call %s abandoned, client is now broken", id)
	}
	return err
}

// invoke runs the four transport operations of one call under ctx.
func (c *AsyncRPCClient) invoke(ctx context.Context, id common.MethodIdentifier, params []Param, result interface{}) error {
	tx, err := c.transport.BeginCallContext(ctx, id)
	if err != nil {
		return err
	}

	for _, p := range params {
		if err := c.transport.AddParamContext(ctx, tx, p.Name, p.Value); err != nil {
			return err
		}
	}

	fs, err := c.transport.FinalizeContext(ctx, tx)
	if err != nil {
		return err
	}

	return c.transport.ReadResponseContext(ctx, fs, result)
}

// Broken reports whether the client was broken by an abandoned call.
func (c *AsyncRPCClient) Broken() bool {
	return c.broken.Load()
}

// Close closes the underlying connection if the client owns one (DialAsync).
// Closing also unblocks the background goroutine of an abandoned call.
func (c *AsyncRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
