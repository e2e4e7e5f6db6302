package channel

import (
	"fmt"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"net"
	"time"
)

func dialTCP(endpoint string, timeout time.Duration) (net.Conn, error) {
	if timeout > 0 {
		return net.DialTimeout("tcp", endpoint, timeout)
	}
	return net.Dial("tcp", endpoint)
}

func listenTCP(endpoint string) (net.Listener, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP socket: %v", err)
	}
	return listener, nil
}

// tuneTCP applies performance settings to a TCP connection using the
// configuration values from TCPConf and SocketConf
func tuneTCP(conn *net.TCPConn, cfg common.ChannelConfig) error {
	// Disable Nagle's algorithm (TCP NoDelay) if configured
	if err := conn.SetNoDelay(cfg.TCP.NoDelay); err != nil {
		return err
	}

	// Set socket write buffer size if configured
	if cfg.Socket.WriteBufferSize > 0 {
		if err := conn.SetWriteBuffer(cfg.Socket.WriteBufferSize); err != nil {
			return err
		}
	}

	// Set socket read buffer size if configured
	if cfg.Socket.ReadBufferSize > 0 {
		if err := conn.SetReadBuffer(cfg.Socket.ReadBufferSize); err != nil {
			return err
		}
	}

	// Enable TCP keep-alive if configured
	if cfg.TCP.KeepAliveSec > 0 {
		if err := conn.SetKeepAlive(true); err != nil {
			return err
		}

		keepAlivePeriod := time.Duration(cfg.TCP.KeepAliveSec) * time.Second
		if err := conn.SetKeepAlivePeriod(keepAlivePeriod); err != nil {
			return err
		}
	}

	// Set TCP linger option if configured
	if cfg.TCP.LingerSec >= 0 {
		if err := conn.SetLinger(cfg.TCP.LingerSec); err != nil {
			return err
		}
	}

	return nil
}
