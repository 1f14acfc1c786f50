package lint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FormatResults formats lint results for output
func FormatResults(results []LintResult, format string) (string, error) {
	if format == "json" {
		return formatJSON(results)
	}
	return formatText(results), nil
}

func formatText(results []LintResult) string {
	var output strings.Builder
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		if len(result.Errors) == 0 && len(result.Warnings) == 0 {
			output.WriteString(fmt.Sprintf("✓ %s: No issues found\n", result.FilePath))
			continue
		}

		output.WriteString(fmt.Sprintf("\n%s:\n", result.FilePath))

		for _, issue := range result.Errors {
			output.WriteString(fmt.Sprintf("  ✗ Error%s: %s\n", lineRef(issue.Line), issue.Message))
			if issue.Path != "" {
				output.WriteString(fmt.Sprintf("    Path: %s\n", issue.Path))
			}
			totalErrors++
		}

		for _, issue := range result.Warnings {
			output.WriteString(fmt.Sprintf("  ⚠ Warning%s: %s\n", lineRef(issue.Line), issue.Message))
			if issue.Path != "" {
				output.WriteString(fmt.Sprintf("    Path: %s\n", issue.Path))
			}
			totalWarnings++
		}
	}

	output.WriteString(fmt.Sprintf("\nSummary: %d error(s), %d warning(s) across %d file(s)\n", totalErrors, totalWarnings, len(results)))

	return output.String()
}

func lineRef(line int) string {
	if line <= 0 {
		return ""
	}
	return fmt.Sprintf(" (line %d)", line)
}

func formatJSON(results []LintResult) (string, error) {
	wrapper := struct {
		Results []LintResult `json:"results"`
	}{
		Results: results,
	}

	b, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal lint results")
	}

	return string(b) + "\n", nil
}
