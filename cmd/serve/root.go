package serve

import (
	"context"
	cmdUtil "github.com/ValentinKolb/dRPC/cmd/util"
	"github.com/ValentinKolb/dRPC/lib/demo"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	// shutdownTimeout bounds how long a SIGINT waits for in-flight calls
	shutdownTimeout = 30 * time.Second
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dRPC demo server",
		Long:    `Start the dRPC demo server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DRPC_<flag> (e.g. DRPC_LOG_LEVEL=debug)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags (endpoint and timeout shadow the root flags since they mean
	// different things for a server)
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:5000", cmdUtil.WrapString("The address on which the server will listen (host:port for tcp, a socket path for unix)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Timeout in seconds for one serve iteration, waiting for a call plus answering it (0 lets connections idle forever)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address of the HTTP endpoint exposing Prometheus metrics under /metrics (empty to disable)"))

	// socket tuning flags
	cmdUtil.SetupChannelFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig.Network = viper.GetString("network")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Codec = viper.GetString("codec")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt("timeout")
	serveCmdConfig.Channel = cmdUtil.GetChannelConfig()
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return nil
}

// run starts the dRPC server and blocks until SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	common.SetupLoggers(serveCmdConfig.LogLevel)

	serv, err := server.NewRPCServer(
		*serveCmdConfig,
		server.NewDemoDispatcher(demo.NewDemoService()),
	)
	if err != nil {
		return err
	}

	// serve in the background, handle signals in the foreground
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- serv.Serve()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-sig:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := serv.Shutdown(ctx); err != nil {
		return err
	}
	return <-serveErr
}
