package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dRPC/cmd/bench"
	"github.com/ValentinKolb/dRPC/cmd/call"
	"github.com/ValentinKolb/dRPC/cmd/serve"
	"github.com/ValentinKolb/dRPC/cmd/util"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "drpc",
		Short: "lightweight RPC framework",
		Long: fmt.Sprintf(`dRPC (v%s)

A lightweight RPC framework written in Go, with pluggable wire codecs
(length-prefixed binary framing and JSON-RPC style messages) over TCP
and Unix domain sockets.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dRPC",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dRPC v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(call.CallCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "network"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("network to use (tcp, unix)"))
	key = "endpoint"
	RootCmd.PersistentFlags().String(key, "localhost:5000", util.WrapString("The address of the server (host:port for tcp, a socket path for unix)"))
	key = "codec"
	RootCmd.PersistentFlags().String(key, common.CodecFramed, util.WrapString("wire codec to use (framed, framed-json, framed-gob, jsonrpc)"))
	key = "timeout"
	RootCmd.PersistentFlags().Int(key, 10, util.WrapString("The timeout in seconds for one call round trip (0 for no limit)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("The level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
