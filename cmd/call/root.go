package call

import (
	cmdUtil "github.com/ValentinKolb/dRPC/cmd/util"
	"github.com/ValentinKolb/dRPC/lib/demo"
	"github.com/ValentinKolb/dRPC/rpc/client"
	"github.com/spf13/cobra"
)

var (
	// svc is the typed adapter used by all subcommands, created in setupClient
	svc demo.IDemoService

	// CallCmd represents the group of one-shot call commands
	CallCmd = &cobra.Command{
		Use:               "call",
		Short:             "Perform one-shot calls against a dRPC server",
		Long:              `Perform one-shot calls against a running dRPC server. The connection is configured via the global flags or environment variables (e.g. DRPC_ENDPOINT=localhost:5000)`,
		PersistentPreRunE: setupClient,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// socket tuning flags
	cmdUtil.SetupChannelFlags(CallCmd)

	// register all subcommands
	CallCmd.AddCommand(addCmd)
	CallCmd.AddCommand(describeCmd)
	CallCmd.AddCommand(echoCmd)
	CallCmd.AddCommand(failCmd)
}

// setupClient dials the configured server and creates the typed adapter for
// the subcommands
func setupClient(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	c, err := cmdUtil.DialClient()
	if err != nil {
		return err
	}

	svc = client.NewDemoClient(c)
	return nil
}
