package server

import (
	"github.com/ValentinKolb/dRPC/rpc/transport"
)

// --------------------------------------------------------------------------
// Serve Loops
// --------------------------------------------------------------------------

// ServeSingleCall receives exactly one call on t and serves it through d.
//
// A failure is returned as is: kind TransportEOF means the peer hung up
// before sending another call, kind UnknownMethod means the call named an
// unregistered method. In the latter case no response is transmitted; the
// error stays local to the server and the caller of this function decides
// whether the connection survives (the daemon closes it).
func ServeSingleCall(t transport.IRPCServerTransport, d *Dispatcher) error {
	id, rx, err := t.BeginReceive()
	if err != nil {
		return err
	}

	idx, err := d.Resolve(id)
	if err != nil {
		return err
	}

	return d.methods[idx].Handler(t, rx)
}

// ServeUntil serves calls on t in a loop while cond() holds. The condition is
// checked between calls only, a call in progress is never interrupted.
// Returns nil when the condition ended the loop, otherwise the error of the
// failed iteration.
func ServeUntil(t transport.IRPCServerTransport, d *Dispatcher, cond func() bool) error {
	for cond() {
		if err := ServeSingleCall(t, d); err != nil {
			return err
		}
	}
	return nil
}

// Serve serves calls on t until an iteration fails. The canonical return is
// kind TransportEOF once the peer disconnects cleanly.
func Serve(t transport.IRPCServerTransport, d *Dispatcher) error {
	for {
		if err := ServeSingleCall(t, d); err != nil {
			return err
		}
	}
}
