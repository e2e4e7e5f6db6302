// Package common provides the core data structures shared by every layer of
// the RPC framework. It defines the error model, method identity, the
// serializable result union, configuration structures, and the logging setup
// used by all other packages.
//
// The package focuses on:
//   - The wire-safe error model (RPCError, GenericError) used for all
//     protocol and transport level failures
//   - Method identity (MethodIdentifier, PartialMethodIdentifier) used to
//     address remote operations by index, by name, or both
//   - The generic Result type carrying an application method's success value
//     or application error as one serializable payload
//   - Configuration structures for byte channels, clients and servers
//   - Custom logging implementation integrated with Dragonboat
//
// Key Components:
//
//   - RPCError: The sole type that represents protocol/transport failure.
//     Carries a kind (SerializationError, UnknownMethod, TransportError,
//     TransportEOF, IllegalState, Other), a message and an optional
//     serializable cause chain. Implements the error interface and supports
//     errors.Is/errors.As against the original cause.
//
//   - GenericError: A serialization-safe, lossy projection of an arbitrary Go
//     error chain. Keeps message text and causal depth, loses the concrete
//     type. Used both as the cause chain of RPCError and as the failure arm
//     of Result.
//
//   - MethodIdentifier: A method's stable identity, assigned once per method
//     in declaration order starting at index 0 and never recomputed at
//     runtime. PartialMethodIdentifier is the one-sided form a server
//     transport recovers from the wire (name or index, depending on codec).
//
//   - Result: Generic success/failure union written as a call's response
//     payload. The wire format makes no distinction between the two arms.
//
//   - ChannelConfig/ClientConfig/ServerConfig: Configuration for byte channel
//     tuning and for the client and server components built on top of it.
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging system while providing consistent formatting across the
//     application.
package common
