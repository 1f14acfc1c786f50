package cli

import (
	"context"

	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/runbook"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func WalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk [uri ...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Walk through a category step by step and record what you observed",
		Long: `Walk through the steps of a category interactively. Each step shows the
command to run and the output to expect; you run the command yourself,
report whether the output matched and pick the condition you observed, and
the matching remediation advice is printed. The transcript is saved as a
session report when the walk ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			closer := setupTracing()
			defer closer()

			err := runWalk(cmd.Context(), v, args)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().String("category", "", "Name of the category to walk through")
	cmd.MarkFlagRequired("category")
	cmd.Flags().String("output-dir", "", "Directory to write the session report to (default: current directory)")

	return cmd
}

func runWalk(ctx context.Context, v *viper.Viper, args []string) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	kb, err := loadKnowledgeBase(ctx, v, args)
	if err != nil {
		return err
	}

	return runbook.Walk(ctx, kb, runbook.WalkOptions{
		Category:  v.GetString("category"),
		OutputDir: v.GetString("output-dir"),
	})
}
