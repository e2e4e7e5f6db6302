package server

import (
	"github.com/ValentinKolb/dRPC/lib/demo"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/transport"
)

// NewDemoDispatcher builds the dispatcher for the demo.IDemoService
// interface. Every handler reads the declared parameters in order, invokes
// svc and answers with a common.Result union, so application errors travel
// as the response payload and never terminate the connection.
func NewDemoDispatcher(svc demo.IDemoService) *Dispatcher {
	return NewDispatcher([]Method{
		{Name: demo.MethodAdd.Name, Handler: handleAdd(svc)},
		{Name: demo.MethodDescribe.Name, Handler: handleDescribe(svc)},
		{Name: demo.MethodEcho.Name, Handler: handleEcho(svc)},
		{Name: demo.MethodFail.Name, Handler: handleFail(svc)},
	})
}

// --------------------------------------------------------------------------
// Handlers (one per method, docu see the demo package in interface.go)
// --------------------------------------------------------------------------

func handleAdd(svc demo.IDemoService) Handler {
	return func(t transport.IRPCServerTransport, rx transport.RXState) error {
		var a, b int32
		if err := t.ReadParam(rx, "a", &a); err != nil {
			return err
		}
		if err := t.ReadParam(rx, "b", &b); err != nil {
			return err
		}

		sum, err := svc.Add(a, b)
		if err != nil {
			return t.SendResponse(common.Fail[int32](err))
		}
		return t.SendResponse(common.Ok(sum))
	}
}

func handleDescribe(svc demo.IDemoService) Handler {
	return func(t transport.IRPCServerTransport, rx transport.RXState) error {
		var subject string
		var value int32
		if err := t.ReadParam(rx, "subject", &subject); err != nil {
			return err
		}
		if err := t.ReadParam(rx, "value", &value); err != nil {
			return err
		}

		text, err := svc.Describe(subject, value)
		if err != nil {
			return t.SendResponse(common.Fail[string](err))
		}
		return t.SendResponse(common.Ok(text))
	}
}

func handleEcho(svc demo.IDemoService) Handler {
	return func(t transport.IRPCServerTransport, rx transport.RXState) error {
		var payload []byte
		if err := t.ReadParam(rx, "payload", &payload); err != nil {
			return err
		}

		echoed, err := svc.Echo(payload)
		if err != nil {
			return t.SendResponse(common.Fail[[]byte](err))
		}
		return t.SendResponse(common.Ok(echoed))
	}
}

func handleFail(svc demo.IDemoService) Handler {
	return func(t transport.IRPCServerTransport, rx transport.RXState) error {
		var message string
		if err := t.ReadParam(rx, "message", &message); err != nil {
			return err
		}

		// The union carries a bool since gob cannot encode a value type
		// without exported fields
		if err := svc.Fail(message); err != nil {
			return t.SendResponse(common.Fail[bool](err))
		}
		return t.SendResponse(common.Ok(true))
	}
}
