// Package rpc provides a transport-layer framework for remote procedure
// calls. It carries method identifiers, named parameters and results across
// a connection, while the caller keeps its own typed adapters on top.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including error kinds, the Result union, configuration structures, and
//     logging.
//
//   - channel: Dialing, listening and socket tuning for the supported
//     networks (TCP, Unix sockets).
//
//   - serializer: Value serialization with multiple format options (Binary,
//     JSON, GOB) used by the framed wire codec.
//
//   - transport: The client and server transport contracts plus the wire
//     codecs implementing them (length-prefixed binary framing, JSON-RPC
//     style envelopes).
//
//   - client: RPC client implementations, both the blocking and the
//     context-aware asynchronous variant, plus codec and dial helpers.
//
//   - server: Dispatching of received calls to registered handlers, the
//     serve loops, and the network daemon with its Prometheus metrics.
package rpc
