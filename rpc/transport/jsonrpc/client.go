package jsonrpc

import (
	"context"
	"encoding/json"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/transport"
	"github.com/google/uuid"
	"io"
)

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// ClientTransport is the client side of the textual envelope codec. It
// collects parameters by name and transmits them as one JSON-RPC style
// request object at Finalize.
type ClientTransport struct {
	ch  io.ReadWriter
	dec *json.Decoder
}

// NewClientTransport creates an envelope client transport over ch.
func NewClientTransport(ch io.ReadWriter) *ClientTransport {
	return &ClientTransport{ch: ch, dec: json.NewDecoder(ch)}
}

// clientCallState collects one call's named parameters.
type clientCallState struct {
	t      *ClientTransport
	method string
	params map[string]json.RawMessage
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
	return &clientCallState{
		t:      t,
		method: id.Name,
		params: make(map[string]json.RawMessage),
	}, nil
}

func (t *ClientTransport) AddParam(tx transport.TXState, name string, value interface{}) error {
	state, err := t.txState(tx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return common.Errorf(common.SerializationError, "failed to encode param %q: %w", name, err)
	}
	state.params[name] = raw
	return nil
}

func (t *ClientTransport) Finalize(tx transport.TXState) (transport.FinalState, error) {
	state, err := t.txState(tx)
	if err != nil {
		return nil, err
	}
	state.sealed = true

	env := requestEnvelope{
		Version: jsonrpcVersion,
		Method:  state.method,
		Params:  state.params,
		ID:      uuid.NewString(),
	}
	if err := writeValue(t.ch, env, "request envelope"); err != nil {
		return nil, err
	}
	Logger.Debugf("sent request %q (id %s, %d params)", env.Method, env.ID, len(env.Params))
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

	if err := t.dec.Decode(target); err != nil {
		return mapDecodeErr(err, "response")
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
