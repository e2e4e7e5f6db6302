package jsonrpc

import (
	"encoding/json"
	"errors"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"io"
)

// Logger is the package level logger
var Logger = logger.GetLogger("transport")

// jsonrpcVersion is stamped into every outgoing request envelope. Incoming
// envelopes are not checked against it.
const jsonrpcVersion = "2.0"

// requestEnvelope is the on-wire shape of one call. Parameters travel keyed
// by name in an unordered object; the response travels as a bare value with
// no envelope at all.
type requestEnvelope struct {
	Version string                     `json:"jsonrpc"`
	Method  string                     `json:"method"`
	Params  map[string]json.RawMessage `json:"params"`
	ID      string                     `json:"id"`
}

// writeValue marshals v and writes it as one newline-terminated JSON text.
// The newline keeps consecutive bare values (numbers in particular) apart on
// the stream.
func writeValue(w io.Writer, v interface{}, what string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return common.Errorf(common.SerializationError, "failed to encode %s: %w", what, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return common.Errorf(common.TransportError, "failed to write %s: %w", what, err)
	}
	return nil
}

// mapDecodeErr classifies an error returned by the streaming json decoder.
// EOF, clean or mid-value, means the peer closed the channel; malformed or
// mistyped JSON is a serialization fault; everything else is a channel fault.
func mapDecodeErr(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return common.Errorf(common.TransportEOF, "channel closed while reading %s: %w", what, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var targetErr *json.InvalidUnmarshalError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &targetErr) {
		return common.Errorf(common.SerializationError, "malformed %s: %w", what, err)
	}

	return common.Errorf(common.TransportError, "failed to read %s: %w", what, err)
}
