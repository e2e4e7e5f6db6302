package jsonrpc

import (
	"encoding/json"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/transport"
	"io"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerTransport is the server side of the textual envelope codec. It reads
// one request envelope per call and looks parameters up by name, so extra or
// reordered fields in the params object are tolerated.
type ServerTransport struct {
	ch  io.ReadWriter
	dec *json.Decoder
}

// NewServerTransport creates an envelope server transport over ch.
func NewServerTransport(ch io.ReadWriter) *ServerTransport {
	return &ServerTransport{ch: ch, dec: json.NewDecoder(ch)}
}

// serverCallState holds one call's named parameters.
type serverCallState struct {
	t      *ServerTransport
	params map[string]json.RawMessage
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *ServerTransport) BeginReceive() (common.PartialMethodIdentifier, transport.RXState, error) {
	var env requestEnvelope
	if err := t.dec.Decode(&env); err != nil {
		return common.PartialMethodIdentifier{}, nil, mapDecodeErr(err, "request envelope")
	}
	Logger.Debugf("received request %q (id %s, %d params)", env.Method, env.ID, len(env.Params))

	return common.MethodByName(env.Method), &serverCallState{t: t, params: env.Params}, nil
}

func (t *ServerTransport) ReadParam(rx transport.RXState, name string, target interface{}) error {
	state, ok := rx.(*serverCallState)
	if !ok || state.t != t {
		return common.NewRPCError(common.IllegalState, "foreign or missing call state")
	}

	raw, ok := state.params[name]
	if !ok {
		return common.Errorf(common.SerializationError, "request is missing param %q", name)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return common.Errorf(common.SerializationError, "failed to decode param %q: %w", name, err)
	}
	return nil
}

func (t *ServerTransport) SendResponse(value interface{}) error {
	return writeValue(t.ch, value, "response")
}
