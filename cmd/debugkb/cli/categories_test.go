package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCategories(t *testing.T) {
	names := []string{"high_cpu_usage", "memory_issues", "disk_full", "network_latency"}

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "empty pattern matches everything",
			pattern: "",
			want:    names,
		},
		{
			name:    "prefix glob",
			pattern: "high_*",
			want:    []string{"high_cpu_usage"},
		},
		{
			name:    "substring glob keeps order",
			pattern: "*_*",
			want:    names,
		},
		{
			name:    "no matches",
			pattern: "zz*",
			want:    []string{},
		},
		{
			name:    "exact name",
			pattern: "disk_full",
			want:    []string{"disk_full"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := filterCategories(names, test.pattern)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestFilterCategoriesBadPattern(t *testing.T) {
	_, err := filterCategories([]string{"cpu"}, "[unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile filter pattern")
}
