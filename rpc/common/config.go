package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Codec names
// --------------------------------------------------------------------------

// Codec names accepted in ClientConfig.Codec and ServerConfig.Codec. Both
// sides of a connection must use the same codec.
const (
	// CodecFramed is the binary framed codec with the positional binary
	// payload serializer. This is the default.
	CodecFramed = "framed"
	// CodecFramedJSON is the binary framed codec with JSON payloads.
	CodecFramedJSON = "framed-json"
	// CodecFramedGOB is the binary framed codec with gob payloads.
	CodecFramedGOB = "framed-gob"
	// CodecJSONRPC is the textual envelope codec.
	CodecJSONRPC = "jsonrpc"
)

// --------------------------------------------------------------------------
// Byte channel configuration
// --------------------------------------------------------------------------

// SocketConf holds protocol-independent socket settings.
type SocketConf struct {
	// ReadBufferSize sets the OS receive buffer size in bytes. 0 leaves the
	// OS default untouched.
	ReadBufferSize int
	// WriteBufferSize sets the OS send buffer size in bytes. 0 leaves the
	// OS default untouched.
	WriteBufferSize int
	// ConnectTimeoutSec bounds how long a dial may take. 0 means no limit.
	ConnectTimeoutSec int
}

// TCPConf holds TCP-specific settings. They are ignored for non-TCP
// connections.
type TCPConf struct {
	// NoDelay disables Nagle's algorithm when set.
	NoDelay bool
	// KeepAliveSec enables TCP keep-alive with the given period in seconds.
	// 0 disables keep-alive.
	KeepAliveSec int
	// LingerSec sets the TCP linger behavior. Negative values keep the OS
	// default.
	LingerSec int
}

// ChannelConfig bundles the tuning applied to the duplex byte channels that
// carry RPC traffic. The codecs themselves never look at it; it is consumed
// when connections are dialed or accepted.
type ChannelConfig struct {
	Socket SocketConf
	TCP    TCPConf
}

// DefaultChannelConfig returns the channel settings used when nothing else
// is configured: OS buffer defaults, 10s connect timeout, NoDelay on,
// keep-alive every 30s, OS default linger.
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		Socket: SocketConf{
			ConnectTimeoutSec: 10,
		},
		TCP: TCPConf{
			NoDelay:      true,
			KeepAliveSec: 30,
			LingerSec:    -1,
		},
	}
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters for an RPC client.
type ClientConfig struct {
	// Network selects the channel type ("tcp" or "unix").
	Network string
	// Endpoint is the address to dial (host:port or socket path).
	Endpoint string
	// Codec selects the wire codec ("framed", "framed-json", "framed-gob"
	// or "jsonrpc").
	Codec string
	// TimeoutSecond bounds one full call round trip. 0 means no timeout.
	TimeoutSecond int

	// Channel tuning
	Channel ChannelConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Network", c.Network)
	addField("Endpoint", c.Endpoint)
	addField("Codec", c.Codec)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Channel")
	addField("Read Buffer", strconv.Itoa(c.Channel.Socket.ReadBufferSize))
	addField("Write Buffer", strconv.Itoa(c.Channel.Socket.WriteBufferSize))
	addField("Connect Timeout", fmt.Sprintf("%d sec", c.Channel.Socket.ConnectTimeoutSec))
	addField("TCP NoDelay", fmt.Sprintf("%t", c.Channel.TCP.NoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.Channel.TCP.KeepAliveSec))

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for the RPC server daemon.
type ServerConfig struct {
	// Network selects the channel type ("tcp" or "unix").
	Network string
	// Endpoint is the address to listen on (host:port or socket path).
	Endpoint string
	// Codec selects the wire codec ("framed", "framed-json", "framed-gob"
	// or "jsonrpc").
	Codec string
	// MetricsEndpoint is the address of the HTTP endpoint exposing
	// Prometheus metrics under /metrics. Empty disables the endpoint.
	MetricsEndpoint string
	// TimeoutSecond bounds one serve iteration (waiting for a call plus
	// answering it). 0 means connections may idle forever.
	TimeoutSecond int

	// Channel tuning applied to accepted connections
	Channel ChannelConfig

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("RPC Server")
	addField("Network", c.Network)
	addField("Endpoint", c.Endpoint)
	addField("Codec", c.Codec)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Observability")
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	} else {
		addField("Metrics Endpoint", "disabled")
	}
	addField("Log Level", c.LogLevel)

	addSection("Channel")
	addField("Read Buffer", strconv.Itoa(c.Channel.Socket.ReadBufferSize))
	addField("Write Buffer", strconv.Itoa(c.Channel.Socket.WriteBufferSize))
	addField("TCP NoDelay", fmt.Sprintf("%t", c.Channel.TCP.NoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.Channel.TCP.KeepAliveSec))

	return sb.String()
}
