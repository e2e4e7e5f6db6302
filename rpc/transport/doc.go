// Package transport defines the interfaces and abstractions for RPC
// communication. It provides the common contract that all codec
// implementations must fulfill, enabling protocol-agnostic calls over any
// byte channel.
//
// The package focuses on:
//   - Defining the stateful client call sequence (BeginCall, AddParam,
//     Finalize, ReadResponse) and its server mirror (BeginReceive, ReadParam,
//     SendResponse)
//   - Keeping call state opaque so each codec owns its own wire layout
//   - Supporting both blocking and context-aware client operation
//
// Key Components:
//
//   - IRPCClientTransport: Interface for the client side of a codec. One
//     instance carries one call at a time; cross-goroutine sharing goes
//     through the wrappers in rpc/client.
//
//   - IRPCAsyncClientTransport: The same operation set with a leading
//     context.Context per operation, for cancellation and deadlines.
//
//   - IRPCServerTransport: Interface for the server side of a codec,
//     consumed by the dispatch and serve loops in rpc/server.
//
//   - TXState / FinalState / RXState: Opaque per-call state tokens. Codecs
//     type-assert their own concrete state and reject foreign values.
//
// Implementations live in the subpackages transport/framed (length-prefixed
// binary frames) and transport/jsonrpc (JSON-RPC style textual envelopes).
package transport
