package cli

import (
	"strings"
	"testing"

	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/stretchr/testify/assert"
)

func TestFormatStepsText(t *testing.T) {
	steps := []knowledgebase.Step{
		{
			Description:    "Check memory and swap usage",
			Command:        "free -m",
			ExpectedOutput: "Available memory above 20 percent of total",
			Remediation: map[string]string{
				"low_available":   "Find memory hungry processes",
				"high_swap_usage": "Investigate memory pressure",
			},
		},
		{
			Description: "Check swap configuration",
			Command:     "swapon --show",
		},
	}

	out := formatStepsText("memory_issues", steps)

	assert.Contains(t, out, "Memory Issues: 2 step(s)")
	assert.Contains(t, out, "1. Check memory and swap usage")
	assert.Contains(t, out, "   $ free -m")
	assert.Contains(t, out, "   Expected: Available memory above 20 percent of total")
	assert.Contains(t, out, "     high_swap_usage: Investigate memory pressure")
	assert.Contains(t, out, "2. Check swap configuration")

	// Condition tags print in sorted order
	assert.Less(t, strings.Index(out, "high_swap_usage:"), strings.Index(out, "low_available:"))

	// The second step has no expected output or remediation
	secondStep := out[strings.Index(out, "2. Check swap configuration"):]
	assert.NotContains(t, secondStep, "Expected:")
	assert.NotContains(t, secondStep, "Remediation:")
}
