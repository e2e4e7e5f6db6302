package serializer

import "io"

// IEncoder writes values to the stream it was created for. Consecutive
// Encode calls concatenate self-delimiting encodings, so a decoder created
// for the same stream reads them back in order.
type IEncoder interface {
	// Encode appends the encoding of v to the underlying writer.
	// It returns an error if v cannot be encoded or the write fails.
	Encode(v interface{}) error
}

// IDecoder reads values from the stream it was created for, in the order
// they were encoded.
type IDecoder interface {
	// Decode reads the next value from the underlying reader into v,
	// which must be a non-nil pointer.
	Decode(v interface{}) error
}

// IRPCSerializer is the interface for all value serializers. A serializer
// produces per-payload streaming codecs: one encoder/decoder pair lives for
// exactly one payload (one call or one response), which keeps every format
// self-contained per payload regardless of internal stream state.
type IRPCSerializer interface {
	// GetName returns the name of the serialization format
	// (e.g. "binary", "json", "gob")
	GetName() string
	// NewEncoder creates an encoder writing to w
	NewEncoder(w io.Writer) IEncoder
	// NewDecoder creates a decoder reading from r
	NewDecoder(r io.Reader) IDecoder
}
