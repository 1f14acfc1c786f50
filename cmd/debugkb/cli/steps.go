package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/debugkb/debugkb/internal/util"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func StepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps [uri ...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "List the diagnostic steps of a category",
		Long: `List the diagnostic steps of a category in suggested execution order,
with the command to run, the expected output and the remediation advice
for each condition.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			closer := setupTracing()
			defer closer()

			err := runSteps(cmd.Context(), v, args)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().String("category", "", "Name of the category to list steps for")
	cmd.MarkFlagRequired("category")
	cmd.Flags().StringP("output", "o", "", "Output format: text or json")

	return cmd
}

func runSteps(ctx context.Context, v *viper.Viper, args []string) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	kb, err := loadKnowledgeBase(ctx, v, args)
	if err != nil {
		return err
	}

	category := v.GetString("category")
	steps, err := kb.Steps(category)
	if err != nil {
		return err
	}

	switch v.GetString("output") {
	case "", "text":
		fmt.Print(formatStepsText(category, steps))
	case "json":
		out := struct {
			Category string               `json:"category"`
			Steps    []knowledgebase.Step `json:"steps"`
		}{Category: category, Steps: steps}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal steps")
		}
		fmt.Println(string(b))
	default:
		return errors.Errorf("unknown output format %q: must be text or json", v.GetString("output"))
	}

	return nil
}

func formatStepsText(category string, steps []knowledgebase.Step) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %d step(s)\n", util.CategoryTitle(category), len(steps)))
	for i, step := range steps {
		sb.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, step.Description))
		sb.WriteString(fmt.Sprintf("   $ %s\n", step.Command))
		if step.ExpectedOutput != "" {
			sb.WriteString(fmt.Sprintf("   Expected: %s\n", step.ExpectedOutput))
		}
		if len(step.Remediation) > 0 {
			sb.WriteString("   Remediation:\n")
			for _, tag := range sortedTags(step.Remediation) {
				sb.WriteString(fmt.Sprintf("     %s: %s\n", tag, step.Remediation[tag]))
			}
		}
	}
	return sb.String()
}

func sortedTags(remediation map[string]string) []string {
	tags := make([]string, 0, len(remediation))
	for tag := range remediation {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
