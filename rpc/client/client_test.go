package client

import (
	"bytes"
	"context"
	"errors"
	"github.com/ValentinKolb/dRPC/lib/demo"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/server"
	"github.com/ValentinKolb/dRPC/rpc/transport/framed"
	"net"
	"sync"
	"testing"
	"time"
)

// startDemoServer serves the demo service on the far end of an in-memory
// pipe and returns the client end. The serve goroutine exits when either end
// closes.
func startDemoServer(t *testing.T, codec string) net.Conn {
	t.Helper()

	cliConn, srvConn := net.Pipe()
	st, err := server.NewCodecServerTransport(codec, srvConn)
	if err != nil {
		t.Fatalf("failed to create server transport: %v", err)
	}

	go func() {
		_ = server.Serve(st, server.NewDemoDispatcher(demo.NewDemoService()))
		_ = srvConn.Close()
	}()

	t.Cleanup(func() { _ = cliConn.Close() })
	return cliConn
}

func TestDemoAdapterAllCodecs(t *testing.T) {
	codecs := []string{
		common.CodecFramed,
		common.CodecFramedJSON,
		common.CodecFramedGOB,
		common.CodecJSONRPC,
	}

	for _, codec := range codecs {
		t.Run(codec, func(t *testing.T) {
			conn := startDemoServer(t, codec)

			ct, err := NewCodecClientTransport(codec, conn)
			if err != nil {
				t.Fatalf("failed to create client transport: %v", err)
			}
			svc := NewDemoClient(NewRPCClient(ct))

			if got, err := svc.Describe("the answer", 42); err != nil || got != "the answer is 42" {
				t.Errorf("describe: expected %q, got %q (err %v)", "the answer is 42", got, err)
			}
			if sum, err := svc.Add(40, 2); err != nil || sum != 42 {
				t.Errorf("add: expected 42, got %d (err %v)", sum, err)
			}
			payload := []byte{0x00, 0x10, 0xFE}
			if echoed, err := svc.Echo(payload); err != nil || !bytes.Equal(echoed, payload) {
				t.Errorf("echo: expected %v, got %v (err %v)", payload, echoed, err)
			}
			if err := svc.Fail("iamerror"); err == nil || err.Error() != "iamerror" {
				t.Errorf("fail: expected application error %q, got %v", "iamerror", err)
			}
		})
	}
}

func TestConcurrentCallers(t *testing.T) {
	conn := startDemoServer(t, common.CodecFramed)
	c := NewRPCClient(framed.NewClientTransport(conn))

	const goroutines = 8
	const callsEach = 25

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < callsEach; i++ {
				a, b := int32(g*100+i), int32(i*3)
				sum, err := CallResult[int32](c, demo.MethodAdd, P("a", a), P("b", b))
				if err != nil {
					t.Errorf("goroutine %d call %d failed: %v", g, i, err)
					return
				}
				if sum != a+b {
					t.Errorf("goroutine %d call %d: expected %d, got %d", g, i, a+b, sum)
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestAsyncClientRoundTrip(t *testing.T) {
	conn := startDemoServer(t, common.CodecFramed)
	c := NewAsyncRPCClient(framed.NewClientTransport(conn))

	got, err := CallResultContext[string](context.Background(), c, demo.MethodDescribe,
		P("subject", "the answer"), P("value", int32(42)))
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	if got != "the answer is 42" {
		t.Errorf("expected %q, got %q", "the answer is 42", got)
	}
	if c.Broken() {
		t.Error("client must not be broken after a completed call")
	}
}

func TestAsyncClientAbandonBreaks(t *testing.T) {
	// Nobody reads the server end, so the request write blocks until the
	// context expires.
	cliConn, srvConn := net.Pipe()
	defer cliConn.Close()
	defer srvConn.Close()

	c := NewAsyncRPCClient(framed.NewClientTransport(cliConn))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out string
	err := c.CallContext(ctx, demo.MethodDescribe,
		[]Param{P("subject", "x"), P("value", int32(1))}, &out)
	if err == nil {
		t.Fatal("expected the call to be abandoned")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the deadline error in the chain, got %v", err)
	}
	if !c.Broken() {
		t.Fatal("expected the client to be broken after the abandoned call")
	}

	// Every further call must be rejected without touching the wire
	err = c.CallContext(context.Background(), demo.MethodAdd,
		[]Param{P("a", int32(1)), P("b", int32(2))}, new(int32))
	if !common.IsKind(err, common.IllegalState) {
		t.Fatalf("expected kind illegalState, got %v", err)
	}
}

func TestAsyncClientCancelWhileWaiting(t *testing.T) {
	conn := startDemoServer(t, common.CodecFramed)
	c := NewAsyncRPCClient(framed.NewClientTransport(conn))

	// A context that is already dead fails in the semaphore, before any
	// bytes move, so the client stays usable.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.CallContext(ctx, demo.MethodAdd,
		[]Param{P("a", int32(1)), P("b", int32(2))}, new(common.Result[int32]))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the cancellation in the chain, got %v", err)
	}
	if c.Broken() {
		t.Fatal("client must stay usable when nothing was transmitted")
	}

	sum, err := CallResultContext[int32](context.Background(), c, demo.MethodAdd,
		P("a", int32(40)), P("b", int32(2)))
	if err != nil || sum != 42 {
		t.Fatalf("expected the client to still work, got %d (err %v)", sum, err)
	}
}

func TestUnknownCodecRejected(t *testing.T) {
	if _, err := NewCodecClientTransport("morse", &bytes.Buffer{}); err == nil {
		t.Fatal("expected an error for an unknown codec")
	}
	if _, err := NewCodecAsyncClientTransport("morse", &bytes.Buffer{}); err == nil {
		t.Fatal("expected an error for an unknown codec")
	}
}

func TestDialTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		st, err := server.NewCodecServerTransport(common.CodecFramed, conn)
		if err != nil {
			return
		}
		_ = server.Serve(st, server.NewDemoDispatcher(demo.NewDemoService()))
		_ = conn.Close()
	}()

	c, err := Dial(common.ClientConfig{
		Network:       "tcp",
		Endpoint:      ln.Addr().String(),
		Codec:         common.CodecFramed,
		TimeoutSecond: 5,
		Channel:       common.DefaultChannelConfig(),
	})
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	svc := NewDemoClient(c)
	if got, err := svc.Describe("the answer", 42); err != nil || got != "the answer is 42" {
		t.Errorf("describe: expected %q, got %q (err %v)", "the answer is 42", got, err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}
}

func TestDialUnknownCodec(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	if _, err := Dial(common.ClientConfig{
		Network:  "tcp",
		Endpoint: ln.Addr().String(),
		Codec:    "morse",
		Channel:  common.DefaultChannelConfig(),
	}); err == nil {
		t.Fatal("expected an error for an unknown codec")
	}
}
