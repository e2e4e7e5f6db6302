package util

import (
	"github.com/ValentinKolb/dRPC/rpc/client"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from env files and environment
// variables. Variables use the DRPC_ prefix with dashes replaced by
// underscores (e.g. DRPC_LOG_LEVEL=debug)
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("drpc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// SetupChannelFlags adds the socket tuning flags shared by all commands that
// open a connection
func SetupChannelFlags(cmd *cobra.Command) {
	key := "write-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the OS write buffer for the connection (in KB, 0 keeps the OS default)"))

	key = "read-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the OS read buffer for the connection (in KB, 0 keeps the OS default)"))

	key = "connect-timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The dial timeout in seconds (0 for no limit)"))

	key = "tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY for the connection (only for tcp)"))

	key = "tcp-keepalive"
	cmd.PersistentFlags().Int(key, 30, WrapString("The keepalive interval for the connection (in seconds, 0 to disable, only for tcp)"))

	key = "tcp-linger"
	cmd.PersistentFlags().Int(key, -1, WrapString("The linger time for the connection (in seconds, negative keeps the OS default, only for tcp)"))
}

// GetChannelConfig reads the channel tuning from viper
func GetChannelConfig() common.ChannelConfig {
	return common.ChannelConfig{
		Socket: common.SocketConf{
			WriteBufferSize:   viper.GetInt("write-buffer") * 1024,
			ReadBufferSize:    viper.GetInt("read-buffer") * 1024,
			ConnectTimeoutSec: viper.GetInt("connect-timeout"),
		},
		TCP: common.TCPConf{
			NoDelay:      viper.GetBool("tcp-nodelay"),
			KeepAliveSec: viper.GetInt("tcp-keepalive"),
			LingerSec:    viper.GetInt("tcp-linger"),
		},
	}
}

// GetClientConfig reads the client configuration from viper
func GetClientConfig() common.ClientConfig {
	return common.ClientConfig{
		Network:       viper.GetString("network"),
		Endpoint:      viper.GetString("endpoint"),
		Codec:         viper.GetString("codec"),
		TimeoutSecond: viper.GetInt("timeout"),
		Channel:       GetChannelConfig(),
	}
}

// DialClient sets up logging and connects to the configured server
func DialClient() (*client.RPCClient, error) {
	common.SetupLoggers(viper.GetString("log-level"))
	return client.Dial(GetClientConfig())
}
