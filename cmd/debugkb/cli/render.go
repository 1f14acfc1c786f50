package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/runbook"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func RenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [uri ...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Render a knowledge base as a markdown runbook",
		Long: `Render categories as a markdown runbook with one section per category,
numbered steps and a remediation table per step.

Examples:
  # Render the whole knowledge base to stdout
  debugkb render ./kb.yaml

  # Render two categories into a file
  debugkb render ./kb.yaml --category memory_issues --category disk_full --output runbook.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			closer := setupTracing()
			defer closer()

			err := runRender(cmd.Context(), v, args)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().StringSlice("category", []string{}, "Category to render (can be used multiple times, default renders all)")
	cmd.Flags().String("title", "", "Title of the rendered runbook")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runRender(ctx context.Context, v *viper.Viper, args []string) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	kb, err := loadKnowledgeBase(ctx, v, args)
	if err != nil {
		return err
	}

	markdown, err := runbook.RenderMarkdown(ctx, kb, runbook.RenderOptions{
		Categories: v.GetStringSlice("category"),
		Title:      v.GetString("title"),
	})
	if err != nil {
		return err
	}

	if outputFile := v.GetString("output"); outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return errors.Wrapf(err, "failed to write output file %s", outputFile)
		}
		fmt.Printf("Runbook written to %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}
