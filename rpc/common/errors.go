package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Error Kind Definition
// --------------------------------------------------------------------------

// RPCErrorKind classifies a protocol or transport level failure.
type RPCErrorKind uint32

const (
	// Other is the catch-all kind and the zero value.
	Other RPCErrorKind = iota
	// SerializationError indicates an encode or decode failure.
	SerializationError
	// UnknownMethod indicates the server could not resolve a method
	// identifier to a registered handler.
	UnknownMethod
	// TransportError indicates a channel-level I/O fault. It is raised only
	// by concrete transports, never by protocol-neutral code.
	TransportError
	// TransportEOF indicates the peer closed the channel. It is kept apart
	// from TransportError so callers can tell a clean disconnect from a
	// corrupt stream.
	TransportEOF
	// IllegalState indicates an internal invariant violation, e.g. reading a
	// parameter before beginning a call or reusing consumed call state.
	IllegalState
)

// String returns the string representation of an RPCErrorKind.
func (k RPCErrorKind) String() string {
	switch k {
	case SerializationError:
		return "serializationError"
	case UnknownMethod:
		return "unknownMethod"
	case TransportError:
		return "transportError"
	case TransportEOF:
		return "transportEOF"
	case IllegalState:
		return "illegalState"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for RPCErrorKind.
// This allows the kind to be serialized as a string in JSON.
func (k RPCErrorKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for RPCErrorKind.
// This allows the kind to be deserialized from a string in JSON.
func (k *RPCErrorKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "serializationError":
		*k = SerializationError
	case "unknownMethod":
		*k = UnknownMethod
	case "transportError":
		*k = TransportError
	case "transportEOF":
		*k = TransportEOF
	case "illegalState":
		*k = IllegalState
	case "other":
		*k = Other
	default:
		return fmt.Errorf("unknown error kind: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Generic Error
// --------------------------------------------------------------------------

// maxCauseDepth caps how many levels of an error chain are projected into a
// GenericError chain. Cyclic Unwrap implementations are cut off here.
const maxCauseDepth = 32

// GenericError is a serialization-safe, lossy projection of an arbitrary
// error: it keeps the message text and the causal chain depth but loses the
// concrete type. It is the only form in which application error details and
// RPCError causes cross the wire.
type GenericError struct {
	Description string        `json:"description"`
	Cause       *GenericError `json:"cause,omitempty"`
}

// NewGenericError creates a GenericError with the given description and no
// cause.
func NewGenericError(description string) *GenericError {
	return &GenericError{Description: description}
}

// ToGenericError projects an arbitrary error chain into a GenericError chain
// by walking errors.Unwrap. Returns nil for a nil error. An error that
// already is a *GenericError is returned as-is.
func ToGenericError(err error) *GenericError {
	return toGenericError(err, 0)
}

func toGenericError(err error, depth int) *GenericError {
	if err == nil {
		return nil
	}
	if g, ok := err.(*GenericError); ok {
		return g
	}

	desc := err.Error()

	// Stop descending once the depth cap is reached. The remaining chain
	// text is still part of desc, only the structure is lost.
	next := errors.Unwrap(err)
	if next == nil || depth >= maxCauseDepth {
		return &GenericError{Description: desc}
	}

	// Errors wrapped via fmt.Errorf("...: %w", next) repeat the cause text
	// in their own message. Trim it so each level holds only its own part.
	desc = strings.TrimSuffix(desc, ": "+next.Error())

	return &GenericError{
		Description: desc,
		Cause:       toGenericError(next, depth+1),
	}
}

// Error implements the error interface. The full cause chain is joined with
// ": " like errors wrapped via fmt.Errorf.
func (e *GenericError) Error() string {
	if e.Cause != nil {
		return e.Description + ": " + e.Cause.Error()
	}
	return e.Description
}

// Unwrap returns the next error in the cause chain, or nil.
func (e *GenericError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// --------------------------------------------------------------------------
// RPC Error
// --------------------------------------------------------------------------

// RPCError is the sole type allowed to represent a protocol or transport
// level failure. It is serializable and may cross the wire as an ordinary
// value; application errors are NOT RPCErrors, they travel as the call's
// result payload instead.
type RPCError struct {
	Kind    RPCErrorKind  `json:"kind"`
	Message string        `json:"message"`
	Cause   *GenericError `json:"cause,omitempty"`

	// cause holds the original error for local errors.Is/errors.As support.
	// It never crosses the wire; deserialized RPCErrors only carry Cause.
	cause error
}

// NewRPCError creates an RPCError with the given kind and message.
func NewRPCError(kind RPCErrorKind, message string) *RPCError {
	return &RPCError{Kind: kind, Message: message}
}

// NewRPCErrorWithCause creates an RPCError wrapping an underlying error. The
// cause is kept both as the original error (for errors.Is/errors.As) and as
// its GenericError projection (for serialization).
func NewRPCErrorWithCause(kind RPCErrorKind, message string, cause error) *RPCError {
	return &RPCError{
		Kind:    kind,
		Message: message,
		Cause:   ToGenericError(cause),
		cause:   cause,
	}
}

// Errorf creates an RPCError with a formatted message. An %w verb wraps the
// argument as the error's cause, like fmt.Errorf.
func Errorf(kind RPCErrorKind, format string, args ...interface{}) *RPCError {
	err := fmt.Errorf(format, args...)
	if cause := errors.Unwrap(err); cause != nil {
		return &RPCError{
			Kind:    kind,
			Message: strings.TrimSuffix(err.Error(), ": "+cause.Error()),
			Cause:   ToGenericError(cause),
			cause:   cause,
		}
	}
	return &RPCError{Kind: kind, Message: err.Error()}
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause. For locally created errors this is
// the original error value, for deserialized ones the GenericError chain.
func (e *RPCError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	if e.Cause != nil {
		return e.Cause
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// KindOf returns the kind of err if it is (or wraps) an *RPCError and Other
// otherwise. A nil error also reports Other.
func KindOf(err error) RPCErrorKind {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Kind
	}
	return Other
}

// IsKind reports whether err is (or wraps) an *RPCError of the given kind.
func IsKind(err error, kind RPCErrorKind) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Kind == kind
}
