// Package cmd implements the command-line interface for the dRPC framework.
// It provides a hierarchical command structure with operations for running
// the demo server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Command for starting the dRPC demo server
//   - call: Commands for one-shot calls against a running server (add, describe, echo, fail)
//   - bench: Round-trip benchmark against a running server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See drpc -help for a list of all commands.
package cmd
