package client

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/dRPC/rpc/channel"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/serializer"
	"github.com/ValentinKolb/dRPC/rpc/transport"
	"github.com/ValentinKolb/dRPC/rpc/transport/framed"
	"github.com/ValentinKolb/dRPC/rpc/transport/jsonrpc"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"net"
	"time"
)

var (
	Logger = logger.GetLogger("client")
)

// --------------------------------------------------------------------------
// Call Parameters
// --------------------------------------------------------------------------

// Param is one named call parameter. Parameters must be passed in the order
// the method declares them: named codecs transmit the name, positional codecs
// rely on the order alone.
type Param struct {
	Name  string
	Value interface{}
}

// P is a shorthand constructor for Param.
func P(name string, value interface{}) Param {
	return Param{Name: name, Value: value}
}

// --------------------------------------------------------------------------
// Codec Factory
// --------------------------------------------------------------------------

// fullClientTransport is satisfied by every built-in codec: each offers both
// the blocking and the context-aware call surface.
type fullClientTransport interface {
	transport.IRPCClientTransport
	transport.IRPCAsyncClientTransport
}

// newCodecClientTransport creates the client side of the named codec over the
// given byte channel. The empty name selects the default framed codec.
func newCodecClientTransport(codec string, ch io.ReadWriter) (fullClientTransport, error) {
	switch codec {
	case "", common.CodecFramed:
		return framed.NewClientTransport(ch), nil
	case common.CodecFramedJSON:
		return framed.NewClientTransportWithSerializer(ch, serializer.NewJSONSerializer()), nil
	case common.CodecFramedGOB:
		return framed.NewClientTransportWithSerializer(ch, serializer.NewGOBSerializer()), nil
	case common.CodecJSONRPC:
		return jsonrpc.NewClientTransport(ch), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (supported: %s, %s, %s, %s)",
			codec, common.CodecFramed, common.CodecFramedJSON, common.CodecFramedGOB, common.CodecJSONRPC)
	}
}

// NewCodecClientTransport creates the client side of the named codec over the
// given byte channel (valid names see the common.Codec* constants).
func NewCodecClientTransport(codec string, ch io.ReadWriter) (transport.IRPCClientTransport, error) {
	return newCodecClientTransport(codec, ch)
}

// NewCodecAsyncClientTransport is NewCodecClientTransport for the
// context-aware call surface.
func NewCodecAsyncClientTransport(codec string, ch io.ReadWriter) (transport.IRPCAsyncClientTransport, error) {
	return newCodecClientTransport(codec, ch)
}

// --------------------------------------------------------------------------
// Dialing
// --------------------------------------------------------------------------

// Dial connects to an RPC server and returns a synchronous client owning the
// connection. The caller must Close the client when done. The configured
// timeout bounds each full call round trip.
func Dial(config common.ClientConfig) (*RPCClient, error) {
	conn, t, err := dialTransport(config)
	if err != nil {
		return nil, err
	}

	c := NewRPCClient(t)
	c.conn = conn
	c.timeout = time.Duration(config.TimeoutSecond) * time.Second
	return c, nil
}

// DialAsync connects to an RPC server and returns a context-aware client
// owning the connection. Call deadlines come from the per-call contexts, the
// configured timeout is not used.
func DialAsync(config common.ClientConfig) (*AsyncRPCClient, error) {
	conn, t, err := dialTransport(config)
	if err != nil {
		return nil, err
	}

	c := NewAsyncRPCClient(t)
	c.conn = conn
	return c, nil
}

// dialTransport opens the configured channel and sets up the codec on it.
func dialTransport(config common.ClientConfig) (net.Conn, fullClientTransport, error) {
	conn, err := channel.Dial(config.Network, config.Endpoint, config.Channel)
	if err != nil {
		return nil, nil, err
	}

	t, err := newCodecClientTransport(config.Codec, conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return conn, t, nil
}

// --------------------------------------------------------------------------
// Generic Call Helpers
// --------------------------------------------------------------------------

// Call performs one call round trip and returns the decoded response value.
func Call[T any](c *RPCClient, id common.MethodIdentifier, params ...Param) (T, error) {
	var result T
	err := c.Call(id, params, &result)
	return result, err
}

// CallResult performs one call round trip for a method answering with a
// common.Result[T] union and unpacks it, so remote application errors surface
// as ordinary Go errors.
func CallResult[T any](c *RPCClient, id common.MethodIdentifier, params ...Param) (T, error) {
	res, err := Call[common.Result[T]](c, id, params...)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Unpack()
}

// CallContext is Call for the context-aware client.
func CallContext[T any](ctx context.Context, c *AsyncRPCClient, id common.MethodIdentifier, params ...Param) (T, error) {
	var result T
	err := c.CallContext(ctx, id, params, &result)
	return result, err
}

// CallResultContext is CallResult for the context-aware client.
func CallResultContext[T any](ctx context.Context, c *AsyncRPCClient, id common.MethodIdentifier, params ...Param) (T, error) {
	res, err := CallContext[common.Result[T]](ctx, c, id, params...)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Unpack()
}
