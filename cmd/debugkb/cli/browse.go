package cli

import (
	"context"
	"os"

	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/runbook"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func BrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [uri ...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Browse the steps of a category in a terminal ui",
		Long: `Browse the steps of a category in a terminal ui: a table of steps on the
left, the selected step's command, expected output and remediation on the
right. Press s to save the category as a markdown runbook in your home
directory, q to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return errors.New("browse requires an interactive terminal, use the render command for non-interactive output")
			}

			v := viper.GetViper()

			closer := setupTracing()
			defer closer()

			err := runBrowse(cmd.Context(), v, args)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().String("category", "", "Name of the category to browse")
	cmd.MarkFlagRequired("category")

	return cmd
}

func runBrowse(ctx context.Context, v *viper.Viper, args []string) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	kb, err := loadKnowledgeBase(ctx, v, args)
	if err != nil {
		return err
	}

	return runbook.Browse(kb, v.GetString("category"))
}
