package server

import (
	"fmt"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/transport"
)

// --------------------------------------------------------------------------
// Method Dispatch
// --------------------------------------------------------------------------

// Handler serves one call of one method: it reads the declared parameters in
// order via ReadParam, invokes the implementation and transmits the outcome
// via SendResponse. A handler must send exactly one response, application
// errors included (wrapped in a common.Result union); a returned error means
// the call could not complete at the transport level.
type Handler func(t transport.IRPCServerTransport, rx transport.RXState) error

// Method binds a method name to its handler. The position of a Method in the
// dispatcher's method list is its wire index.
type Method struct {
	Name    string
	Handler Handler
}

// Dispatcher resolves partial method identifiers (index or name, depending on
// what the codec recovered from the wire) to handlers. It is immutable after
// construction and safe for concurrent use by any number of serve loops.
type Dispatcher struct {
	methods []Method
	byName  map[string]uint32
}

// NewDispatcher creates a dispatcher for the given methods. The slice order
// defines the method indexes and must match the declaration order used by
// the clients. Panics on a duplicate name since that is a programming error,
// not a runtime condition.
func NewDispatcher(methods []Method) *Dispatcher {
	byName := make(map[string]uint32, len(methods))
	for i, m := range methods {
		if _, ok := byName[m.Name]; ok {
			panic(fmt.Sprintf("duplicate method name %q", m.Name))
		}
		byName[m.Name] = uint32(i)
	}

	return &Dispatcher{
		methods: methods,
		byName:  byName,
	}
}

// Resolve maps a partial identifier to a method index. Fails with kind
// UnknownMethod when nothing is registered under the index or name.
func (d *Dispatcher) Resolve(id common.PartialMethodIdentifier) (uint32, error) {
	if id.HasIndex {
		if int(id.Index) >= len(d.methods) {
			return 0, common.Errorf(common.UnknownMethod, "no method with index %d", id.Index)
		}
		return id.Index, nil
	}

	idx, ok := d.byName[id.Name]
	if !ok {
		return 0, common.Errorf(common.UnknownMethod, "no method named %q", id.Name)
	}
	return idx, nil
}
