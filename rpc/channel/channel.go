package channel

import (
	"fmt"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"net"
	"time"
)

// Logger is the package level logger
var Logger = logger.GetLogger("channel")

// Dial opens a client connection for the given network ("tcp" or "unix"),
// honoring the connect timeout and applying the channel tuning from cfg.
func Dial(network, endpoint string, cfg common.ChannelConfig) (net.Conn, error) {
	var conn net.Conn
	var err error

	timeout := time.Duration(cfg.Socket.ConnectTimeoutSec) * time.Second

	switch network {
	case "tcp":
		conn, err = dialTCP(endpoint, timeout)
	case "unix":
		conn, err = dialUnix(endpoint, timeout)
	default:
		return nil, fmt.Errorf("unknown network %q (supported: tcp, unix)", network)
	}
	if err != nil {
		return nil, err
	}

	if err := Tune(conn, cfg); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to tune connection: %w", err)
	}

	Logger.Infof("connected to %s://%s", network, endpoint)
	return conn, nil
}

// Listen creates a listener for the given network. Accepted connections are
// not tuned automatically; the accept loop applies Tune per connection.
func Listen(network, endpoint string) (net.Listener, error) {
	switch network {
	case "tcp":
		return listenTCP(endpoint)
	case "unix":
		return listenUnix(endpoint)
	default:
		return nil, fmt.Errorf("unknown network %q (supported: tcp, unix)", network)
	}
}

// Tune applies the socket options from cfg to conn. Options that do not apply
// to the connection's type are skipped, unknown connection types are left
// untouched.
func Tune(conn net.Conn, cfg common.ChannelConfig) error {
	switch c := conn.(type) {
	case *net.TCPConn:
		return tuneTCP(c, cfg)
	case *net.UnixConn:
		return tuneUnix(c, cfg)
	default:
		return nil
	}
}
