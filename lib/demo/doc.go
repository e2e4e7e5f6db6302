// Package demo declares the reference service used to exercise the RPC core
// end to end: a minimal four-method contract plus its in-memory
// implementation. The client-side adapter (rpc/client) and the server-side
// dispatcher (rpc/server) for this contract show the full wiring pattern any
// service built on the core follows.
//
// Method indexes are assigned in declaration order and fixed in this package,
// so both adapters resolve methods identically whether the codec transmits
// the index or the name.
package demo
