// Package serializer provides value serialization capabilities for the RPC
// system. It defines a common streaming interface and multiple implementations
// for encoding and decoding the values exchanged between client and server.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different performance characteristics
//   - Supporting incremental encoding of one value at a time, so transports can
//     append call parameters to a stream as they arrive
//   - Minimizing memory allocations and processing overhead
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must
//     satisfy. It acts as a factory for encoder/decoder pairs bound to a
//     payload stream.
//
//   - IEncoder / IDecoder: Streaming interfaces for writing and reading a
//     sequence of values. A fresh pair is created per payload, so each payload
//     stays self-contained and re-decodable on its own.
//
//   - binarySerializerImpl: Custom binary format implementation optimized for
//     speed and space efficiency. Encodes values positionally without field
//     names or type tags, resulting in compact data that must be decoded in
//     the exact order and with the exact types it was encoded with.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding,
//     offering good compatibility with Go's type system but with larger
//     serialized sizes.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, useful for
//     debugging or interoperability with other systems, but with lower
//     performance.
//
// Performance Characteristics (based on benchmarks across various value types):
//
//   - Binary: Delivers superior performance with the smallest payload size.
//     Recommended for production use between Go endpoints under the same
//     module version, since the positional format carries no schema.
//
//   - JSON: Offers acceptable performance with moderate payload sizes. Provides
//     human-readable output beneficial for debugging and system integration
//     scenarios.
//
//   - GOB: Performs worse than the other implementations with consistently
//     larger payload sizes, since every payload re-transmits type definitions.
//     Useful mainly when encoding types the binary format does not support.
//
// Thread Safety:
//
//	Serializer factories are stateless and safe for concurrent use. The
//	encoders and decoders they create are bound to a single stream and must
//	be confined to one goroutine.
//
// Usage:
//
//	Serializers are typically created once and reused throughout the application:
//
//	  s := serializer.NewBinarySerializer()
//	  var buf bytes.Buffer
//	  enc := s.NewEncoder(&buf)
//	  err := enc.Encode(value)
//	  // ... send buf.Bytes() ...
//	  dec := s.NewDecoder(bytes.NewReader(payload))
//	  err = dec.Decode(&received)
package serializer
