package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/lint"
	"github.com/debugkb/debugkb/pkg/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"k8s.io/klog/v2"
)

func LintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [file ...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Lint knowledge base files for syntax and structural errors",
		Long: `Lint knowledge base files and report:
- yaml or json syntax errors
- missing required fields (description, command)
- wrong field types and unknown fields
- duplicate categories, within and across documents
- naming and completeness warnings (category naming, missing expected
  output or remediation, inconsistent advice for a condition tag)

A file with no errors is guaranteed to load with --strict.

Examples:
  # Lint a single knowledge base
  debugkb lint kb.yaml

  # Lint several files and emit json for CI
  debugkb lint kb.yaml extra.yaml --format json

  # Keep watching the files and re-lint on every change
  debugkb lint kb.yaml --watch

Exit codes:
  0 - no errors found
  2 - lint errors found`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			opts := lint.LintOptions{
				FilePaths: args,
				Format:    v.GetString("format"),
				Watch:     v.GetBool("watch"),
			}

			for _, filePath := range opts.FilePaths {
				if _, err := os.Stat(filePath); err != nil {
					return errors.Wrapf(err, "file not found: %s", filePath)
				}
			}

			closer := setupTracing()
			defer closer()

			if opts.Watch {
				return watchAndLint(cmd.Context(), opts)
			}

			err := runLint(cmd.Context(), opts)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.Flags().Bool("watch", false, "Keep watching the files and re-lint on change")

	return cmd
}

func runLint(ctx context.Context, opts lint.LintOptions) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	results, err := lint.LintFiles(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "failed to lint files")
	}

	output, err := lint.FormatResults(results, opts.Format)
	if err != nil {
		return err
	}
	fmt.Print(output)

	if lint.HasErrors(results) {
		failed := 0
		for _, result := range results {
			if len(result.Errors) > 0 {
				failed++
			}
		}
		return types.NewExitCodeError(constants.EXIT_CODE_KB_ISSUES, errors.Errorf("found lint errors in %d file(s)", failed))
	}

	return nil
}

// watchAndLint re-lints on every file change until interrupted.
func watchAndLint(ctx context.Context, opts lint.LintOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt)
		<-signalChan
		cancel()
	}()

	return lint.Watch(ctx, opts, func(results []lint.LintResult) {
		output, err := lint.FormatResults(results, opts.Format)
		if err != nil {
			klog.Errorf("Failed to format lint results: %v", err)
			return
		}
		fmt.Print(output)
	})
}
