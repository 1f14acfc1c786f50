package cli

import (
	"context"
	"fmt"

	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func ConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [uri ...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Convert knowledge bases between yaml and json",
		Long: `Convert knowledge bases between yaml and json. Several sources are merged
into a single document in argument order, so convert doubles as a merge
tool.

Examples:
  # Convert a knowledge base to json
  debugkb convert kb.yaml --to json --output kb.json

  # Merge two knowledge bases into one yaml document on stdout
  debugkb convert base.yaml extra.yaml --to yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			closer := setupTracing()
			defer closer()

			err := runConvert(cmd.Context(), v, args)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().String("to", "yaml", "Target format: yaml or json")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runConvert(ctx context.Context, v *viper.Viper, args []string) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	kb, err := loadKnowledgeBase(ctx, v, args)
	if err != nil {
		return err
	}

	var out []byte
	switch v.GetString("to") {
	case "yaml", "yml":
		out, err = kb.ToYAML()
	case "json":
		out, err = kb.ToJSON()
	default:
		return errors.Errorf("unknown conversion target %q: must be yaml or json", v.GetString("to"))
	}
	if err != nil {
		return err
	}

	if outputFile := v.GetString("output"); outputFile != "" {
		// The target is often the file being converted, a partial
		// write must not destroy it.
		if err := renameio.WriteFile(outputFile, out, 0644); err != nil {
			return errors.Wrapf(err, "failed to write output file %s", outputFile)
		}
		fmt.Printf("Knowledge base written to %s\n", outputFile)
	} else {
		fmt.Print(string(out))
	}

	return nil
}
