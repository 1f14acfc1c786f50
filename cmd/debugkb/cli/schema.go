package cli

import (
	"fmt"
	"os"

	"github.com/debugkb/debugkb/schemas"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func SchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the json schema for knowledge base documents",
		Long: `Print the json schema for knowledge base documents. The schema can be
wired into editors (e.g. through yaml-language-server) or CI validation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			if outputFile := v.GetString("output"); outputFile != "" {
				if err := os.WriteFile(outputFile, schemas.KnowledgeBase, 0644); err != nil {
					return errors.Wrapf(err, "failed to write output file %s", outputFile)
				}
				fmt.Printf("Schema written to %s\n", outputFile)
				return nil
			}

			fmt.Print(string(schemas.KnowledgeBase))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	return cmd
}
