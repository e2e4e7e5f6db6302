package transport

import (
	"context"
	"github.com/ValentinKolb/dRPC/rpc/common"
)

// --------------------------------------------------------------------------
// Call State
// --------------------------------------------------------------------------

// TXState is the opaque call state a client transport hands out in BeginCall
// and consumes in AddParam and Finalize. Each transport asserts its own
// concrete state type and fails with kind IllegalState when given a foreign
// or already-consumed value. A state value is valid for exactly one call and
// must never be reused.
type TXState interface{}

// FinalState is the opaque state returned by Finalize and consumed by
// ReadResponse. Like TXState it is valid for exactly one call.
type FinalState interface{}

// RXState is the opaque call state a server transport hands out in
// BeginReceive and consumes in ReadParam. Valid for exactly one call.
type RXState interface{}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the client side of an RPC codec.
//
// The operations of one call must be invoked strictly in order: BeginCall,
// AddParam once per parameter in declared order, Finalize, ReadResponse.
// Every operation may perform blocking I/O. A transport instance carries at
// most one call at a time; concurrent use goes through the client.RPCClient
// wrapper, never through the raw transport.
type IRPCClientTransport interface {
	// BeginCall starts a new call for the given method. Depending on the
	// codec this may already transmit bytes or only set up call state.
	BeginCall(id common.MethodIdentifier) (TXState, error)
	// AddParam appends one parameter to the call. Codecs that identify
	// parameters by position may ignore the name.
	AddParam(tx TXState, name string, value interface{}) error
	// Finalize seals the request. When it returns, all request bytes are on
	// the wire or reliably scheduled for transmission.
	Finalize(tx TXState) (FinalState, error)
	// ReadResponse blocks until the full response arrived and deserializes
	// it into target, which must be a non-nil pointer.
	ReadResponse(fs FinalState, target interface{}) error
}

// IRPCAsyncClientTransport mirrors IRPCClientTransport with context-aware
// operations. Each operation observes cancellation and deadline of its
// context and returns promptly when the context ends. An abandoned call
// leaves the underlying channel in an undefined position: the transport must
// not be used for further calls afterwards (the client.AsyncRPCClient wrapper
// enforces this by marking itself broken).
type IRPCAsyncClientTransport interface {
	// BeginCallContext starts a new call (docu see IRPCClientTransport)
	BeginCallContext(ctx context.Context, id common.MethodIdentifier) (TXState, error)
	// AddParamContext appends one parameter (docu see IRPCClientTransport)
	AddParamContext(ctx context.Context, tx TXState, name string, value interface{}) error
	// FinalizeContext seals the request (docu see IRPCClientTransport)
	FinalizeContext(ctx context.Context, tx TXState) (FinalState, error)
	// ReadResponseContext reads the response (docu see IRPCClientTransport)
	ReadResponseContext(ctx context.Context, fs FinalState, target interface{}) error
}

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// IRPCServerTransport is the interface for the server side of an RPC codec.
//
// The operations of one call must be invoked strictly in order: BeginReceive,
// ReadParam once per parameter in declared order, SendResponse exactly once.
// SendResponse must be called even when the invoked method implementation
// returned an application error: that error is serialized as the response
// payload, it is not a transport fault. A transport instance serves calls
// strictly sequentially.
type IRPCServerTransport interface {
	// BeginReceive blocks until one complete call is available and returns
	// the identity of the requested method. The identifier may be partial:
	// positional codecs recover only the index, named codecs only the name.
	// Fails with kind TransportEOF when the peer closed the channel with no
	// further call pending.
	BeginReceive() (common.PartialMethodIdentifier, RXState, error)
	// ReadParam reads the next parameter into target, which must be a
	// non-nil pointer. The name is a lookup key for named codecs and a pure
	// hint for positional ones, which track an implicit cursor instead.
	ReadParam(rx RXState, name string, target interface{}) error
	// SendResponse serializes value and transmits it as the response of the
	// call currently being served.
	SendResponse(value interface{}) error
}

// --------------------------------------------------------------------------
// Context Helper
// --------------------------------------------------------------------------

// DoWithContext runs fn on its own goroutine and waits for its completion or
// for ctx to end, whichever happens first. When the context ends first the
// call is abandoned: fn keeps running in the background, its result is
// discarded, and the context error is returned wrapped in kind Other. The
// caller owns the consequence that the underlying channel is now in an
// undefined position.
func DoWithContext(ctx context.Context, fn func() error) error {
	_, err := DoValueWithContext(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoValueWithContext is DoWithContext for functions that also produce a
// value. The value travels through the completion channel, so an abandoned
// fn can never race with the caller.
func DoValueWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, common.NewRPCErrorWithCause(common.Other, "call abandoned", err)
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, common.NewRPCErrorWithCause(common.Other, "call abandoned", ctx.Err())
	}
}
