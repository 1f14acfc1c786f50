package cli

import (
	"encoding/json"
	"fmt"

	"github.com/debugkb/debugkb/pkg/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

func VersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current version and exit",
		Long:  `Print the current version and exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			switch v.GetString("output") {
			case "", "text":
				fmt.Printf("DebugKB %s\n", version.Version())
			case "json":
				b, err := json.MarshalIndent(version.GetBuild(), "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to marshal version info")
				}
				fmt.Println(string(b))
			case "yaml":
				b, err := yaml.Marshal(version.GetBuild())
				if err != nil {
					return errors.Wrap(err, "failed to marshal version info")
				}
				fmt.Print(string(b))
			default:
				return errors.Errorf("unknown output format %q: must be text, json or yaml", v.GetString("output"))
			}

			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output format. One of: text, json, yaml")

	return cmd
}
