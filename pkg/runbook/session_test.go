package runbook

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionReport(t *testing.T) {
	session := NewSession("memory_issues")
	session.Complete(0, knowledgebase.Step{
		Description:    "Check memory and swap usage",
		Command:        "free -m",
		ExpectedOutput: "Available memory above 20 percent of total",
	}, "high_swap_usage", "Investigate memory pressure and consider adding RAM")
	session.Skip(1, knowledgebase.Step{
		Description: "Check swap configuration",
		Command:     "swapon --show",
	})

	out, err := session.Report()
	require.NoError(t, err)

	assert.Contains(t, out, "# Memory Issues walk session")
	assert.Contains(t, out, "Session: "+session.ID)
	assert.Contains(t, out, "## Step 1: Check memory and swap usage (completed)")
	assert.Contains(t, out, "free -m")
	assert.Contains(t, out, "Expected: Available memory above 20 percent of total")
	assert.Contains(t, out, "Observed: high_swap_usage")
	assert.Contains(t, out, "Remediation: Investigate memory pressure and consider adding RAM")
	assert.Contains(t, out, "## Step 2: Check swap configuration (skipped)")

	// Only the completed step observed a condition
	assert.Equal(t, 1, strings.Count(out, "Observed:"))
}

func TestSessionReportWithoutCondition(t *testing.T) {
	session := NewSession("cpu")
	session.Complete(0, knowledgebase.Step{Description: "Check load", Command: "uptime"}, "", "")

	out, err := session.Report()
	require.NoError(t, err)

	assert.Contains(t, out, "## Step 1: Check load (completed)")
	assert.NotContains(t, out, "Observed:")
	assert.NotContains(t, out, "Remediation:")
}

func TestSessionSave(t *testing.T) {
	session := NewSession("cpu")
	session.Complete(0, knowledgebase.Step{Description: "Check load", Command: "uptime"}, "", "")

	dir := t.TempDir()
	reportPath, err := session.Save(dir)
	require.NoError(t, err)

	sessionDir := filepath.Join(dir, "debugkb-session-"+session.ID)
	assert.Equal(t, filepath.Join(sessionDir, "report.md"), reportPath)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "## Step 1: Check load (completed)")

	versionFile, err := os.ReadFile(filepath.Join(sessionDir, constants.VersionFilename))
	require.NoError(t, err)
	assert.Contains(t, string(versionFile), "debugkb")
}

func TestWalkRequiresTerminal(t *testing.T) {
	// Test processes never run with a terminal attached to stdout
	kb := loadFixture(t)

	err := Walk(context.Background(), kb, WalkOptions{Category: "memory_issues"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
