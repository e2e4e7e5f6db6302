// Package server implements the server side of the RPC core: method
// dispatch, serve loops over a single server transport, and a network daemon
// that serves many connections concurrently.
//
// The package focuses on:
//   - Resolving incoming calls to handlers, whether the codec recovered the
//     method index or the method name
//   - Serve loops for exactly one call, for a conditional number of calls and
//     for the lifetime of a connection
//   - A TCP/Unix daemon with connection tracking, Prometheus metrics and
//     graceful shutdown
//
// Key Components:
//
//   - Dispatcher: Immutable mapping from method index/name to Handler, built
//     once via NewDispatcher from the ordered method list of a service.
//
//   - ServeSingleCall / ServeUntil / Serve: Serve loops over one server
//     transport. They serve calls strictly sequentially; concurrency across
//     clients comes from one transport per connection.
//
//   - NewRPCServer: Factory function creating the network daemon for a
//     common.ServerConfig and a dispatcher. The daemon accepts connections,
//     tunes them (see the channel package) and runs Serve on each.
//
//   - NewDemoDispatcher: Dispatcher for the demo.IDemoService reference
//     service; shows the handler shape any real service follows.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//		Network:  "tcp",
//		Endpoint: "0.0.0.0:5000",
//		Codec:    common.CodecFramed,
//		Channel:  common.DefaultChannelConfig(),
//	}
//
//	// Create and start the daemon
//	s, err := server.NewRPCServer(config, server.NewDemoDispatcher(demo.NewDemoService()))
//	if err != nil {
//		log.Fatalf("Server error: %v", err)
//	}
//	if err := s.Serve(); err != nil {
//		log.Fatalf("Server error: %v", err)
//	}
//
// Error Semantics:
//
//	Application errors returned by a service implementation are sent as the
//	call's response payload (common.Result union) and do not disturb the
//	connection. Transport faults and unknown methods abort the serve loop of
//	the affected connection; an unknown method is never answered, the peer
//	observes the closed connection instead.
//
// Thread Safety:
//
//	The Dispatcher is immutable and safe for concurrent use. A single server
//	transport serves calls strictly sequentially; the daemon achieves
//	concurrency by running one serve loop per connection. Serve should be
//	called only once per daemon.
package server
