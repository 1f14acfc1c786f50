package lint

import "github.com/debugkb/debugkb/pkg/knowledgebase"

// Core types used by the lint package

type LintResult struct {
	FilePath string                `json:"filePath"`
	Errors   []knowledgebase.Issue `json:"errors"`
	Warnings []knowledgebase.Issue `json:"warnings"`
}

type LintOptions struct {
	FilePaths []string
	Format    string // "text" or "json"

	// If true, keep watching the files and re-lint on change
	Watch bool
}

// HasErrors returns true if any of the results contain errors
func HasErrors(results []LintResult) bool {
	for _, result := range results {
		if len(result.Errors) > 0 {
			return true
		}
	}
	return false
}
