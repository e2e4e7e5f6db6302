package channel

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/dRPC/rpc/common"
)

// exchange sends one byte from client to server and echoes it back, proving
// the connection pair is usable in both directions.
func exchange(t *testing.T, cli net.Conn, srv net.Conn) {
	t.Helper()

	if _, err := cli.Write([]byte{0x42}); err != nil {
		t.Fatalf("Client write failed: %v", err)
	}
	buf := make([]byte, 1)
	if _, err := srv.Read(buf); err != nil {
		t.Fatalf("Server read failed: %v", err)
	}
	if _, err := srv.Write(buf); err != nil {
		t.Fatalf("Server write failed: %v", err)
	}
	if _, err := cli.Read(buf); err != nil {
		t.Fatalf("Client read failed: %v", err)
	}
	if buf[0] != 0x42 {
		t.Fatalf("Echo corrupted: got %#x", buf[0])
	}
}

// TestTCPDialAndListen tests dialing a live TCP listener with tuning applied
func TestTCPDialAndListen(t *testing.T) {
	listener, err := Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer func() { _ = listener.Close() }()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	cfg := common.DefaultChannelConfig()
	cfg.Socket.ReadBufferSize = 64 * 1024
	cfg.Socket.WriteBufferSize = 64 * 1024

	cli, err := Dial("tcp", listener.Addr().String(), cfg)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = cli.Close() }()

	srv := <-accepted
	defer func() { _ = srv.Close() }()

	// server side gets tuned explicitly, like the daemon's accept loop does
	if err := Tune(srv, cfg); err != nil {
		t.Fatalf("Tune failed: %v", err)
	}

	exchange(t, cli, srv)
}

// TestUnixDialAndListen tests a Unix socket pair in a temp directory
func TestUnixDialAndListen(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "test.sock")

	listener, err := Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer func() { _ = listener.Close() }()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	cfg := common.DefaultChannelConfig()
	cli, err := Dial("unix", socketPath, cfg)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = cli.Close() }()

	srv := <-accepted
	defer func() { _ = srv.Close() }()

	if err := Tune(srv, cfg); err != nil {
		t.Fatalf("Tune failed: %v", err)
	}

	exchange(t, cli, srv)
}

// TestUnixStaleSocketRemoved tests that a leftover socket file does not block
// a new listener
func TestUnixStaleSocketRemoved(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "stale.sock")

	// simulate the leftover of an unclean shutdown
	first, err := Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("First listen failed: %v", err)
	}
	_ = first.Close()
	if _, err := os.Create(socketPath); err != nil {
		t.Fatalf("Failed to plant stale file: %v", err)
	}

	second, err := Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Listen over stale socket failed: %v", err)
	}
	_ = second.Close()
}

// TestUnknownNetwork tests that unsupported networks are rejected up front
func TestUnknownNetwork(t *testing.T) {
	if _, err := Dial("udp", "127.0.0.1:9", common.DefaultChannelConfig()); err == nil {
		t.Error("Expected error dialing unknown network")
	}
	if _, err := Listen("udp", "127.0.0.1:0"); err == nil {
		t.Error("Expected error listening on unknown network")
	}
}
