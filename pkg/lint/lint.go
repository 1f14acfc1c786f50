package lint

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/debugkb/debugkb/internal/util"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LintFiles validates knowledge base documents for syntax and structural
// errors. Every issue in a file is reported, not just the first, and a file
// with no error severity issues is guaranteed to load in strict mode. A file
// that cannot be read does not stop the remaining files from being linted,
// the read errors are aggregated and returned together.
func LintFiles(ctx context.Context, opts LintOptions) ([]LintResult, error) {
	results := []LintResult{}

	var multiErr *multierror.Error
	for _, filePath := range opts.FilePaths {
		result, err := lintFile(ctx, filePath)
		if err != nil {
			multiErr = multierror.Append(multiErr, err)
			continue
		}
		results = append(results, result)
	}

	return results, multiErr.ErrorOrNil()
}

func lintFile(ctx context.Context, filePath string) (LintResult, error) {
	_, span := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, filePath)
	span.SetAttributes(attribute.String("type", "lint.LintFile"))
	defer span.End()

	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file %s", filePath)
		span.SetStatus(codes.Error, err.Error())
		return LintResult{}, err
	}

	// Split into yaml documents
	docs := util.SplitYAML(string(fileBytes))

	// Pre-compute starting line number for each doc within the file (1-based)
	docStarts := make([]int, len(docs))
	runningStart := 1
	for i, d := range docs {
		docStarts[i] = runningStart
		runningStart += util.EstimateNumberOfLines(d)
		// Account for the '---' separator line between documents
		if i < len(docs)-1 {
			runningStart += 1
		}
	}

	// Inspect each document, in parallel
	type docOutcome struct {
		issues []knowledgebase.Issue

		// category names of a clean doc, for cross-document conflicts
		names []string
	}
	outcomes := make([]docOutcome, len(docs))
	var wg sync.WaitGroup
	wg.Add(len(docs))
	for i := range docs {
		i := i
		go func() {
			defer wg.Done()
			issues := knowledgebase.Inspect([]byte(docs[i]))

			// Adjust line numbers to file coordinates
			lineOffset := docStarts[i] - 1
			for idx := range issues {
				if issues[idx].Line > 0 {
					issues[idx].Line += lineOffset
				}
			}

			outcome := docOutcome{issues: issues}
			if !hasErrorIssues(issues) {
				if kb, err := knowledgebase.Parse([]byte(docs[i])); err == nil {
					outcome.names = kb.Categories()
				}
			}
			outcomes[i] = outcome
		}()
	}
	wg.Wait()

	// Assemble the per-file result. A category defined by two documents of
	// the same file would conflict at load time, so report it here.
	result := LintResult{
		FilePath: filePath,
		Errors:   []knowledgebase.Issue{},
		Warnings: []knowledgebase.Issue{},
	}
	seen := map[string]bool{}
	for _, outcome := range outcomes {
		for _, issue := range outcome.issues {
			if issue.Severity == knowledgebase.SeverityError {
				result.Errors = append(result.Errors, issue)
			} else {
				result.Warnings = append(result.Warnings, issue)
			}
		}
		for _, name := range outcome.names {
			if seen[name] {
				result.Errors = append(result.Errors, knowledgebase.Issue{
					Severity: knowledgebase.SeverityError,
					Path:     name,
					Message:  fmt.Sprintf("category %q is already defined by an earlier document in the file", name),
				})
				continue
			}
			seen[name] = true
		}
	}

	return result, nil
}

func hasErrorIssues(issues []knowledgebase.Issue) bool {
	for _, issue := range issues {
		if issue.Severity == knowledgebase.SeverityError {
			return true
		}
	}
	return false
}
