// Package channel provides the duplex byte channels that carry RPC traffic.
// It is a thin convenience layer over the net package: the codecs in
// rpc/transport only ever see an io.ReadWriter and never depend on anything
// in here.
//
// The package focuses on:
//   - Dialing and listening on TCP and Unix domain sockets with one entry
//     point each
//   - Applying the socket tuning from common.ChannelConfig (buffer sizes,
//     TCP keep-alive, NoDelay, linger, connect timeout)
//   - Cleaning up stale Unix socket files before binding
//
// Key Components:
//
//   - Dial: Opens and tunes a client connection for "tcp" or "unix".
//
//   - Listen: Creates a listener; accept loops tune each accepted connection
//     via Tune.
//
//   - Tune: Applies the configured socket options to a single connection,
//     skipping options the connection type does not support.
package channel
