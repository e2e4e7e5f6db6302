package demo

import (
	"github.com/ValentinKolb/dRPC/rpc/common"
)

// IDemoService is the reference service contract used to exercise the RPC
// core. Adapters for it live in rpc/client and rpc/server; any real service
// follows the same shape.
type IDemoService interface {
	// Add returns the sum of a and b.
	Add(a, b int32) (int32, error)
	// Describe renders subject and value into a human-readable sentence.
	Describe(subject string, value int32) (string, error)
	// Echo returns the payload unchanged.
	Echo(payload []byte) ([]byte, error)
	// Fail always returns an application error carrying exactly the given
	// message.
	Fail(message string) error
}

// Method identifiers, assigned in the declaration order of IDemoService.
// Client and server adapters must both derive their wiring from these values
// so that index-based and name-based codecs resolve identically.
var (
	MethodAdd      = common.NewMethodIdentifier("add", 0)
	MethodDescribe = common.NewMethodIdentifier("describe", 1)
	MethodEcho     = common.NewMethodIdentifier("echo", 2)
	MethodFail     = common.NewMethodIdentifier("fail", 3)
)

// Methods returns all method identifiers in declaration order.
func Methods() []common.MethodIdentifier {
	return []common.MethodIdentifier{MethodAdd, MethodDescribe, MethodEcho, MethodFail}
}
