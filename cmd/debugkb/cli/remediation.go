package cli

import (
	"context"
	"fmt"

	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func RemediationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remediation [uri ...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Look up remediation advice for a condition observed during a step",
		Long: `Look up the remediation advice a step maps to a condition tag. Without
--condition, every condition of the step is listed with its advice.

Examples:
  # What to do when free -m showed heavy swapping
  debugkb remediation ./kb.yaml --category memory_issues --step 0 --condition high_swap_usage

  # List every condition the first memory step knows about
  debugkb remediation ./kb.yaml --category memory_issues --step 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			closer := setupTracing()
			defer closer()

			err := runRemediation(cmd.Context(), v, args)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().String("category", "", "Name of the category the step belongs to")
	cmd.MarkFlagRequired("category")
	cmd.Flags().Int("step", 0, "Zero-based index of the step within the category")
	cmd.Flags().String("condition", "", "Condition tag to look up. Empty lists all conditions of the step")

	return cmd
}

func runRemediation(ctx context.Context, v *viper.Viper, args []string) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	kb, err := loadKnowledgeBase(ctx, v, args)
	if err != nil {
		return err
	}

	category := v.GetString("category")
	stepIndex := v.GetInt("step")

	if condition := v.GetString("condition"); condition != "" {
		advice, err := kb.Remediation(category, stepIndex, condition)
		if err != nil {
			return err
		}
		fmt.Println(advice)
		return nil
	}

	conditions, err := kb.Conditions(category, stepIndex)
	if err != nil {
		return err
	}
	step, err := kb.Step(category, stepIndex)
	if err != nil {
		return err
	}
	if len(conditions) == 0 {
		fmt.Printf("Step %d of category %q has no remediation entries\n", stepIndex, category)
	}
	for _, tag := range conditions {
		fmt.Printf("%s: %s\n", tag, step.Remediation[tag])
	}

	return nil
}
