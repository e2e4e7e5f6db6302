// Package jsonrpc implements the textual envelope RPC codec. Requests travel
// as JSON-RPC style objects, responses as bare JSON values, both delimited by
// the balanced-structure tracking of the streaming JSON decoder rather than
// by length framing.
//
// Wire format:
//
//	Request  = {"jsonrpc":"2.0","method":"<name>","params":{"<name>":<value>,...},"id":"<uuid>"}
//	Response = <value>
//
// The request/response asymmetry (enveloped request, bare response) is part
// of the pinned wire contract. The id is a fresh UUID per call and is not
// echoed back; calls on one channel correlate strictly by order. Parameters
// are looked up by name, so a server tolerates reordered or additional fields
// but fails with SerializationError naming the field when a required
// parameter is missing.
//
// Key Components:
//
//   - ClientTransport: Implements transport.IRPCClientTransport and
//     transport.IRPCAsyncClientTransport. Parameters are collected in the
//     call state and written as one envelope at Finalize.
//
//   - ServerTransport: Implements transport.IRPCServerTransport. One
//     envelope is consumed per BeginReceive.
//
// Error mapping on the read path: EOF, clean or mid-value, maps to
// TransportEOF; malformed or mistyped JSON maps to SerializationError; other
// channel faults map to TransportError.
//
// Transport instances are not safe for concurrent use. Concurrent callers
// share a transport through the wrappers in rpc/client.
package jsonrpc
