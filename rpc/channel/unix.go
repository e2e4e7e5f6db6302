package channel

import (
	"fmt"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"net"
	"os"
	"time"
)

func dialUnix(endpoint string, timeout time.Duration) (net.Conn, error) {
	if timeout > 0 {
		return net.DialTimeout("unix", endpoint, timeout)
	}
	return net.Dial("unix", endpoint)
}

func listenUnix(endpoint string) (net.Listener, error) {
	// Remove a stale socket file left behind by an unclean shutdown
	if err := os.RemoveAll(endpoint); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %v", err)
	}

	listener, err := net.Listen("unix", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create Unix socket: %v", err)
	}
	return listener, nil
}

// tuneUnix applies the socket buffer settings to a Unix connection. TCP
// options do not apply here.
func tuneUnix(conn *net.UnixConn, cfg common.ChannelConfig) error {
	if cfg.Socket.WriteBufferSize > 0 {
		if err := conn.SetWriteBuffer(cfg.Socket.WriteBufferSize); err != nil {
			return err
		}
	}
	if cfg.Socket.ReadBufferSize > 0 {
		if err := conn.SetReadBuffer(cfg.Socket.ReadBufferSize); err != nil {
			return err
		}
	}
	return nil
}
