package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func CategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories [uri ...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "List the problem categories in one or more knowledge bases",
		Long: `List the problem categories in one or more knowledge bases, in document
order. When several sources are given they are merged in argument order.

Examples:
  # List the categories of a local knowledge base
  debugkb categories ./kb.yaml

  # List only network related categories across two sources
  debugkb categories ./kb.yaml https://example.com/extra.yaml --filter 'network*'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			closer := setupTracing()
			defer closer()

			err := runCategories(cmd.Context(), v, args)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().String("filter", "", "Only list categories whose name matches this glob pattern")
	cmd.Flags().StringP("output", "o", "", "Output format: text or json")

	return cmd
}

func runCategories(ctx context.Context, v *viper.Viper, args []string) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	kb, err := loadKnowledgeBase(ctx, v, args)
	if err != nil {
		return err
	}

	names, err := filterCategories(kb.Categories(), v.GetString("filter"))
	if err != nil {
		return err
	}

	switch v.GetString("output") {
	case "", "text":
		for _, name := range names {
			fmt.Println(name)
		}
	case "json":
		out := struct {
			Categories []string `json:"categories"`
		}{Categories: names}
		if out.Categories == nil {
			out.Categories = []string{}
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal categories")
		}
		fmt.Println(string(b))
	default:
		return errors.Errorf("unknown output format %q: must be text or json", v.GetString("output"))
	}

	return nil
}

// filterCategories returns the names matching the glob pattern, keeping
// knowledge base order. An empty pattern matches everything.
func filterCategories(names []string, pattern string) ([]string, error) {
	if pattern == "" {
		return names, nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compile filter pattern %q", pattern)
	}

	matched := []string{}
	for _, name := range names {
		if g.Match(name) {
			matched = append(matched, name)
		}
	}

	return matched, nil
}
