// Package client provides concurrency-safe RPC clients on top of the
// transport layer. It wraps a single client transport so multiple goroutines
// can share one connection, and offers generic helpers for decoding call
// results into typed values.
//
// The package focuses on:
//   - Serializing concurrent calls onto one transport, whole calls never
//     interleave on the wire
//   - Context-aware calling with cancellation support
//   - Type-safe result decoding via generics
//
// Key Components:
//
//   - RPCClient: Synchronous client. A mutex is held for the full round trip
//     of each call, so concurrent callers queue in arrival order.
//
//   - AsyncRPCClient: Context-aware client. Calls queue on a cancelable
//     semaphore. A call abandoned mid-flight permanently breaks the client
//     because the channel position is unknown afterwards; further calls fail
//     with kind IllegalState.
//
//   - Call / CallResult and their Context variants: Generic helpers that
//     decode the response into a typed value. The Result variants unpack the
//     common.Result union so remote application errors surface as ordinary
//     Go errors.
//
//   - Dial / DialAsync: Connect to a server via common.ClientConfig and
//     return a ready-to-use client owning the connection.
//
// Usage Example:
//
//	// Configure and connect
//	config := common.ClientConfig{
//		Network:  "tcp",
//		Endpoint: "localhost:5000",
//		Codec:    common.CodecFramed,
//		Channel:  common.DefaultChannelConfig(),
//	}
//	c, _ := client.Dial(config)
//	defer c.Close()
//
//	// Call a remote method directly ...
//	sum, _ := client.CallResult[int32](c, demo.MethodAdd,
//		client.P("a", int32(1)), client.P("b", int32(2)))
//
//	// ... or through a typed adapter
//	svc := client.NewDemoClient(c)
//	sum, _ = svc.Add(1, 2)
//
// Thread Safety:
//
//	All clients in this package are thread-safe and can be used concurrently
//	from multiple goroutines without additional synchronization. The raw
//	transports are not; always go through a client when sharing a connection.
package client
