package framed

import (
	"bytes"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/serializer"
	"github.com/ValentinKolb/dRPC/rpc/transport"
	"io"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerTransport is the server side of the framed codec. BeginReceive reads
// exactly one frame and decodes the leading method index; parameters decode
// incrementally from the rest of the payload.
type ServerTransport struct {
	ch           io.ReadWriter
	serializer   serializer.IRPCSerializer
	maxFrameSize uint32
}

// NewServerTransport creates a framed server transport over ch bound to the
// compact positional binary serializer.
func NewServerTransport(ch io.ReadWriter) *ServerTransport {
	return NewServerTransportWithSerializer(ch, serializer.NewBinarySerializer())
}

// NewServerTransportWithSerializer creates a framed server transport using
// the given serializer for the frame payloads.
func NewServerTransportWithSerializer(ch io.ReadWriter, s serializer.IRPCSerializer) *ServerTransport {
	return &ServerTransport{ch: ch, serializer: s, maxFrameSize: DefaultMaxFrameSize}
}

// serverCallState decodes one call's parameters from the received payload.
type serverCallState struct {
	t   *ServerTransport
	dec serializer.IDecoder
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *ServerTransport) BeginReceive() (common.PartialMethodIdentifier, transport.RXState, error) {
	payload, err := readFrame(t.ch, t.maxFrameSize)
	if err != nil {
		return common.PartialMethodIdentifier{}, nil, err
	}
	Logger.Debugf("received request frame (%d bytes payload)", len(payload))

	// the payload was fully delivered, so from here on every failure is a
	// serialization fault, never an EOF
	dec := t.serializer.NewDecoder(bytes.NewReader(payload))
	var index uint32
	if err := dec.Decode(&index); err != nil {
		return common.PartialMethodIdentifier{}, nil, common.NewRPCErrorWithCause(common.SerializationError, "failed to decode method index", err)
	}

	return common.MethodByIndex(index), &serverCallState{t: t, dec: dec}, nil
}

func (t *ServerTransport) ReadParam(rx transport.RXState, name string, target interface{}) error {
	state, ok := rx.(*serverCallState)
	if !ok || state.t != t {
		return common.NewRPCError(common.IllegalState, "foreign or missing call state")
	}
	if err := state.dec.Decode(target); err != nil {
		return common.Errorf(common.SerializationError, "failed to decode param %q: %w", name, err)
	}
	return nil
}

func (t *ServerTransport) SendResponse(value interface{}) error {
	var buf bytes.Buffer
	if err := t.serializer.NewEncoder(&buf).Encode(value); err != nil {
		return common.NewRPCErrorWithCause(common.SerializationError, "failed to encode response", err)
	}
	if err := writeFrame(t.ch, buf.Bytes()); err != nil {
		return common.NewRPCErrorWithCause(common.TransportError, "failed to write response frame", err)
	}
	return nil
}
