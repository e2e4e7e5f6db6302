package server

import (
	"github.com/ValentinKolb/dRPC/lib/demo"
	"github.com/ValentinKolb/dRPC/rpc/client"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"net"
	"testing"
)

// BenchmarkRoundTrip measures one full echo call over an in-memory pipe for
// every codec. The pipe is synchronous, so the numbers isolate codec cost
// from network cost.
func BenchmarkRoundTrip(b *testing.B) {
	payload := make([]byte, 1024)
	for i := range payload {
		payload[i] = byte(i)
	}

	for _, codec := range []string{
		common.CodecFramed,
		common.CodecFramedJSON,
		common.CodecFramedGOB,
		common.CodecJSONRPC,
	} {
		b.Run(codec, func(b *testing.B) {
			cliConn, srvConn := net.Pipe()
			defer cliConn.Close()
			defer srvConn.Close()

			st, err := NewCodecServerTransport(codec, srvConn)
			if err != nil {
				b.Fatalf("failed to create server transport: %v", err)
			}
			go func() {
				_ = Serve(st, NewDemoDispatcher(demo.NewDemoService()))
			}()

			ct, err := client.NewCodecClientTransport(codec, cliConn)
			if err != nil {
				b.Fatalf("failed to create client transport: %v", err)
			}
			c := client.NewRPCClient(ct)

			b.SetBytes(int64(len(payload)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				echoed, err := client.CallResult[[]byte](c, demo.MethodEcho, client.P("payload", payload))
				if err != nil {
					b.Fatalf("echo failed: %v", err)
				}
				if len(echoed) != len(payload) {
					b.Fatalf("expected %d bytes, got %d", len(payload), len(echoed))
				}
			}
		})
	}
}
