package client

import (
	"github.com/ValentinKolb/dRPC/lib/demo"
)

// NewDemoClient wraps an RPC client into the demo.IDemoService interface.
// Every method performs one remote call; application errors returned by the
// remote implementation surface unchanged as the method's error.
func NewDemoClient(c *RPCClient) demo.IDemoService {
	return &demoClient{client: c}
}

type demoClient struct {
	client *RPCClient
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the demo package in interface.go)
// --------------------------------------------------------------------------

func (d *demoClient) Add(a, b int32) (int32, error) {
	return CallResult[int32](d.client, demo.MethodAdd, P("a", a), P("b", b))
}

func (d *demoClient) Describe(subject string, value int32) (string, error) {
	return CallResult[string](d.client, demo.MethodDescribe, P("subject", subject), P("value", value))
}

func (d *demoClient) Echo(payload []byte) ([]byte, error) {
	return CallResult[[]byte](d.client, demo.MethodEcho, P("payload", payload))
}

func (d *demoClient) Fail(message string) error {
	_, err := CallResult[bool](d.client, demo.MethodFail, P("message", message))
	return err
}
