// Package framed implements the binary framed RPC codec. Every request and
// every response travels as one self-describing frame, so a reader can always
// tell where a message starts, how long it is, and whether the stream is
// still in sync.
//
// Wire format:
//
//	Frame            = magic "dRPC/1" (6 bytes) || length (uint32 LE) || payload
//	Call payload     = encoded method index (uint32) || encoded params in declared order
//	Response payload = encoded result value
//
// The payload encoding is pluggable via serializer.IRPCSerializer and
// defaults to the compact positional binary format. Since the payload carries
// no field names, parameters are identified purely by position: the server
// must read them back in the exact order the client wrote them.
//
// Key Components:
//
//   - ClientTransport: Implements transport.IRPCClientTransport and
//     transport.IRPCAsyncClientTransport. The request payload is buffered in
//     the call state and hits the channel as a single frame at Finalize.
//
//   - ServerTransport: Implements transport.IRPCServerTransport. BeginReceive
//     reads one complete frame; ReadParam decodes from the delivered payload
//     and therefore reports corrupt input as SerializationError, never as an
//     EOF.
//
// Error mapping on the read path: EOF while expecting the frame header or
// payload bytes means the peer closed the channel and maps to TransportEOF;
// a wrong magic tag, an oversized declared length, or any decode failure
// inside a delivered payload maps to SerializationError.
//
// Transport instances are not safe for concurrent use. Concurrent callers
// share a transport through the wrappers in rpc/client.
package framed
