package framed

import (
	"bytes"
	"context"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/serializer"
	"github.com/ValentinKolb/dRPC/rpc/transport"
	"io"
)

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// ClientTransport is the client side of the framed codec. It accumulates the
// call payload in memory and transmits it as a single frame at Finalize, so
// nothing touches the channel before the request is complete.
type ClientTransport struct {
	ch           io.ReadWriter
	serializer   serializer.IRPCSerializer
	maxFrameSize uint32
}

// NewClientTransport creates a framed client transport over ch bound to the
// compact positional binary serializer.
func NewClientTransport(ch io.ReadWriter) *ClientTransport {
	return NewClientTransportWithSerializer(ch, serializer.NewBinarySerializer())
}

// NewClientTransportWithSerializer creates a framed client transport using
// the given serializer for the frame payloads. The framing itself stays
// byte-identical regardless of the serializer.
func NewClientTransportWithSerializer(ch io.ReadWriter, s serializer.IRPCSerializer) *ClientTransport {
	return &ClientTransport{ch: ch, serializer: s, maxFrameSize: DefaultMaxFrameSize}
}

// clientCallState accumulates one call's request payload.
type clientCallState struct {
	t      *ClientTransport
	buf    bytes.Buffer
	enc    serializer.IEncoder
	sealed bool
}

// clientFinalState marks a transmitted request whose response is pending.
type clientFinalState struct {
	t        *ClientTransport
	consumed bool
}

// txState validates and unpacks a TXState handed back by the caller.
func (t *ClientTransport) txState(tx transport.TXState) (*clientCallState, error) {
	state, ok := tx.(*clientCallState)
	if !ok || state.t != t {
		return nil, common.NewRPCError(common.IllegalState, "foreign or missing call state")
	}
	if state.sealed {
		return nil, common.NewRPCError(common.IllegalState, "call state was already finalized")
	}
	return state, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *ClientTransport) BeginCall(id common.MethodIdentifier) (transport.TXState, error) {
	state := &clientCallState{t: t}
	state.enc = t.serializer.NewEncoder(&state.buf)

	// the method index leads the payload, parameters follow positionally
	if err := state.enc.Encode(id.Index); err != nil {
		return nil, common.Errorf(common.SerializationError, "failed to encode method index for %s: %w", id, err)
	}
	return state, nil
}

func (t *ClientTransport) AddParam(tx transport.TXState, name string, value interface{}) error {
	state, err := t.txState(tx)
	if err != nil {
		return err
	}
	if err := state.enc.Encode(value); err != nil {
		return common.Errorf(common.SerializationError, "failed to encode param %q: %w", name, err)
	}
	return nil
}

func (t *ClientTransport) Finalize(tx transport.TXState) (transport.FinalState, error) {
	state, err := t.txState(tx)
	if err != nil {
		return nil, err
	}
	state.sealed = true

	if err := writeFrame(t.ch, state.buf.Bytes()); err != nil {
		return nil, common.NewRPCErrorWithCause(common.TransportError, "failed to write request frame", err)
	}
	Logger.Debugf("sent request frame (%d bytes payload)", state.buf.Len())
	return &clientFinalState{t: t}, nil
}

func (t *ClientTransport) ReadResponse(fs transport.FinalState, target interface{}) error {
	state, ok := fs.(*clientFinalState)
	if !ok || state.t != t {
		return common.NewRPCError(common.IllegalState, "foreign or missing final state")
	}
	if state.consumed {
		return common.NewRPCError(common.IllegalState, "response was already read")
	}
	state.consumed = true

	payload, err := readFrame(t.ch, t.maxFrameSize)
	if err != nil {
		return err
	}
	if err := t.serializer.NewDecoder(bytes.NewReader(payload)).Decode(target); err != nil {
		return common.NewRPCErrorWithCause(common.SerializationError, "failed to decode response", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCAsyncClientTransport)
// --------------------------------------------------------------------------

func (t *ClientTransport) BeginCallContext(ctx context.Context, id common.MethodIdentifier) (transport.TXState, error) {
	return transport.DoValueWithContext(ctx, func() (transport.TXState, error) {
		return t.BeginCall(id)
	})
}

func (t *ClientTransport) AddParamContext(ctx context.Context, tx transport.TXState, name string, value interface{}) error {
	return transport.DoWithContext(ctx, func() error {
		return t.AddParam(tx, name, value)
	})
}

func (t *ClientTransport) FinalizeContext(ctx context.Context, tx transport.TXState) (transport.FinalState, error) {
	return transport.DoValueWithContext(ctx, func() (transport.FinalState, error) {
		return t.Finalize(tx)
	})
}

func (t *ClientTransport) ReadResponseContext(ctx context.Context, fs transport.FinalState, target interface{}) error {
	return transport.DoWithContext(ctx, func() error {
		return t.ReadResponse(fs, target)
	})
}
