package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/debugkb/debugkb/cmd/util"
	"github.com/debugkb/debugkb/pkg/logger"
	"github.com/debugkb/debugkb/pkg/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debugkb",
		Short: "Inspect and work with debugging knowledge bases",
		Long: `A debugging knowledge base is a catalog of diagnostic steps grouped by
problem category. Each step carries a command to run, the output to expect
and remediation advice keyed by the condition that was observed.

Knowledge bases are yaml or json files and can be loaded from local paths,
URLs or stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			v := viper.GetViper()
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.BindPFlags(cmd.Flags())

			logger.SetupLogger(v)

			if err := util.StartProfiling(); err != nil {
				klog.Errorf("Failed to start profiling: %v", err)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if err := util.StopProfiling(); err != nil {
				klog.Errorf("Failed to stop profiling: %v", err)
			}
		},
	}

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(CategoriesCmd())
	cmd.AddCommand(StepsCmd())
	cmd.AddCommand(RemediationCmd())
	cmd.AddCommand(RenderCmd())
	cmd.AddCommand(WalkCmd())
	cmd.AddCommand(BrowseCmd())
	cmd.AddCommand(LintCmd())
	cmd.AddCommand(ConvertCmd())
	cmd.AddCommand(FetchCmd())
	cmd.AddCommand(SchemaCmd())
	cmd.AddCommand(VersionCmd())
	cmd.AddCommand(DocsCmd())

	cmd.PersistentFlags().Bool("strict", false, "Fail on invalid documents instead of skipping them")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging and print a trace summary when the command finishes")
	cmd.PersistentFlags().Bool("insecure-skip-tls-verify", false, "Skip TLS certificate verification when fetching knowledge bases over https")

	// Initialize klog flags
	logger.InitKlogFlags(cmd.PersistentFlags())

	// CPU and memory profiling flags
	util.AddProfilingFlags(cmd)

	return cmd
}

func InitAndExecute() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Println(err)

		var exitErr types.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitStatus())
		}
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DEBUGKB")
	viper.AutomaticEnv()
}
