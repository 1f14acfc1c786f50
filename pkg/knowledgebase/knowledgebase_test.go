package knowledgebase

import (
	"errors"
	"strings"
	"testing"

	"github.com/debugkb/debugkb/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExampleKnowledgeBase(t *testing.T) {
	req := require.New(t)

	s := testutils.GetTestFixture(t, "knowledge-base.yaml")
	kb, err := Parse([]byte(s))
	req.NoError(err)
	req.NotNil(kb)

	assert.Equal(t, []string{"high_cpu_usage", "memory_issues"}, kb.Categories())
	assert.Equal(t, 2, kb.Len())
	assert.False(t, kb.IsEmpty())

	steps, err := kb.Steps("high_cpu_usage")
	req.NoError(err)
	req.Len(steps, 2)
	assert.Equal(t, "top -bn1 | head -n 5", steps[0].Command)
	assert.Equal(t, "Check current CPU usage and top processes", steps[0].Description)
	assert.Equal(t, "uptime && nproc", steps[1].Command)

	advice, err := kb.Remediation("high_cpu_usage", 0, "high_wait")
	req.NoError(err)
	assert.Equal(t, "Check for I/O bottlenecks", advice)

	advice, err = kb.Remediation("memory_issues", 1, "no_swap")
	req.NoError(err)
	assert.Equal(t, "Configure swap space", advice)
}

func TestLookupMisses(t *testing.T) {
	req := require.New(t)

	s := testutils.GetTestFixture(t, "knowledge-base.yaml")
	kb, err := Parse([]byte(s))
	req.NoError(err)

	t.Run("unknown category", func(t *testing.T) {
		_, err := kb.Steps("does_not_exist")
		var unknownCategory *UnknownCategoryError
		require.ErrorAs(t, err, &unknownCategory)
		assert.Equal(t, "does_not_exist", unknownCategory.Category)

		_, err = kb.Remediation("does_not_exist", 0, "high_wait")
		assert.ErrorAs(t, err, &unknownCategory)

		_, err = kb.Category("does_not_exist")
		assert.ErrorAs(t, err, &unknownCategory)
	})

	t.Run("step index out of range", func(t *testing.T) {
		var outOfRange *StepIndexOutOfRangeError

		_, err := kb.Step("high_cpu_usage", 2)
		require.ErrorAs(t, err, &outOfRange)
		assert.Equal(t, "high_cpu_usage", outOfRange.Category)
		assert.Equal(t, 2, outOfRange.Index)
		assert.Equal(t, 2, outOfRange.Steps)

		_, err = kb.Remediation("high_cpu_usage", -1, "high_wait")
		assert.ErrorAs(t, err, &outOfRange)

		_, err = kb.Conditions("memory_issues", 99)
		assert.ErrorAs(t, err, &outOfRange)
	})

	t.Run("unknown condition", func(t *testing.T) {
		_, err := kb.Remediation("memory_issues", 1, "nonexistent_tag")
		var unknownCondition *UnknownConditionError
		require.ErrorAs(t, err, &unknownCondition)
		assert.Equal(t, "memory_issues", unknownCondition.Category)
		assert.Equal(t, 1, unknownCondition.Index)
		assert.Equal(t, "nonexistent_tag", unknownCondition.Condition)
	})
}

func TestStepsSatisfyInvariants(t *testing.T) {
	req := require.New(t)

	s := testutils.GetTestFixture(t, "knowledge-base.yaml")
	kb, err := Parse([]byte(s))
	req.NoError(err)

	for _, name := range kb.Categories() {
		steps, err := kb.Steps(name)
		req.NoError(err)
		req.NotEmpty(steps, "category %s has no steps", name)

		for i, step := range steps {
			assert.NotEmpty(t, strings.TrimSpace(step.Description), "%s.steps[%d].description", name, i)
			assert.NotEmpty(t, strings.TrimSpace(step.Command), "%s.steps[%d].command", name, i)
			for tag, advice := range step.Remediation {
				assert.NotEmpty(t, strings.TrimSpace(tag), "%s.steps[%d] remediation tag", name, i)
				assert.NotEmpty(t, strings.TrimSpace(advice), "%s.steps[%d].remediation.%s", name, i, tag)
			}
		}
	}
}

func TestLookupsAreIdempotent(t *testing.T) {
	req := require.New(t)

	s := testutils.GetTestFixture(t, "knowledge-base.yaml")
	kb, err := Parse([]byte(s))
	req.NoError(err)

	first, err := kb.Steps("high_cpu_usage")
	req.NoError(err)
	second, err := kb.Steps("high_cpu_usage")
	req.NoError(err)
	assert.Equal(t, first, second)

	adviceOne, err := kb.Remediation("high_cpu_usage", 0, "high_wait")
	req.NoError(err)
	adviceTwo, err := kb.Remediation("high_cpu_usage", 0, "high_wait")
	req.NoError(err)
	assert.Equal(t, adviceOne, adviceTwo)

	names := kb.Categories()
	assert.Equal(t, names, kb.Categories())
}

func TestReadsDoNotLeakMutableState(t *testing.T) {
	req := require.New(t)

	s := testutils.GetTestFixture(t, "knowledge-base.yaml")
	kb, err := Parse([]byte(s))
	req.NoError(err)

	steps, err := kb.Steps("high_cpu_usage")
	req.NoError(err)

	// Mutating the returned copy must not be visible on the next read.
	steps[0].Command = "rm -rf /"
	steps[0].Remediation["high_wait"] = "mutated"

	fresh, err := kb.Steps("high_cpu_usage")
	req.NoError(err)
	assert.Equal(t, "top -bn1 | head -n 5", fresh[0].Command)

	advice, err := kb.Remediation("high_cpu_usage", 0, "high_wait")
	req.NoError(err)
	assert.Equal(t, "Check for I/O bottlenecks", advice)

	names := kb.Categories()
	names[0] = "mutated"
	assert.Equal(t, "high_cpu_usage", kb.Categories()[0])
}

func TestConditions(t *testing.T) {
	req := require.New(t)

	s := testutils.GetTestFixture(t, "knowledge-base.yaml")
	kb, err := Parse([]byte(s))
	req.NoError(err)

	conditions, err := kb.Conditions("high_cpu_usage", 0)
	req.NoError(err)
	assert.Equal(t, []string{"high_system", "high_user", "high_wait"}, conditions)

	conditions, err = kb.Conditions("memory_issues", 1)
	req.NoError(err)
	assert.Equal(t, []string{"no_swap", "swap_on_slow_disk"}, conditions)
}

func TestNew(t *testing.T) {
	valid := []Category{
		{
			Name: "networking",
			Steps: []Step{
				{
					Description: "Check interface state",
					Command:     "ip -br addr",
					Remediation: map[string]string{"link_down": "Bring the interface up"},
				},
			},
		},
	}

	t.Run("valid categories", func(t *testing.T) {
		req := require.New(t)

		kb, err := New(valid)
		req.NoError(err)
		assert.Equal(t, []string{"networking"}, kb.Categories())

		// New deep-copies its input.
		valid[0].Steps[0].Command = "mutated"
		steps, err := kb.Steps("networking")
		req.NoError(err)
		assert.Equal(t, "ip -br addr", steps[0].Command)
		valid[0].Steps[0].Command = "ip -br addr"
	})

	tests := []struct {
		name       string
		categories []Category
		wantPath   string
	}{
		{
			name: "empty category name",
			categories: []Category{
				{Name: "  ", Steps: []Step{{Description: "d", Command: "c"}}},
			},
		},
		{
			name: "duplicate category name",
			categories: []Category{
				{Name: "networking", Steps: []Step{{Description: "d", Command: "c"}}},
				{Name: "networking", Steps: []Step{{Description: "d", Command: "c"}}},
			},
			wantPath: "networking",
		},
		{
			name:       "category without steps",
			categories: []Category{{Name: "networking"}},
			wantPath:   "networking",
		},
		{
			name: "step without description",
			categories: []Category{
				{Name: "networking", Steps: []Step{{Command: "c"}}},
			},
			wantPath: "networking.steps[0].description",
		},
		{
			name: "step without command",
			categories: []Category{
				{Name: "networking", Steps: []Step{{Description: "d"}}},
			},
			wantPath: "networking.steps[0].command",
		},
		{
			name: "blank remediation advice",
			categories: []Category{
				{Name: "networking", Steps: []Step{{
					Description: "d",
					Command:     "c",
					Remediation: map[string]string{"link_down": "   "},
				}}},
			},
			wantPath: "networking.steps[0].remediation.link_down",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			kb, err := New(test.categories)
			assert.Nil(t, kb)

			var malformed *MalformedDataError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, test.wantPath, malformed.Path)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "malformed with path and line",
			err:  &MalformedDataError{Path: "cat.steps[0]", Line: 3, Msg: "step must be a mapping"},
			want: `malformed knowledge base: cat.steps[0]: line 3: step must be a mapping`,
		},
		{
			name: "malformed without location",
			err:  &MalformedDataError{Msg: "boom"},
			want: "malformed knowledge base: boom",
		},
		{
			name: "unknown category",
			err:  &UnknownCategoryError{Category: "nope"},
			want: `unknown category "nope"`,
		},
		{
			name: "step index out of range",
			err:  &StepIndexOutOfRangeError{Category: "cat", Index: 7, Steps: 2},
			want: `step index 7 out of range for category "cat" with 2 steps`,
		},
		{
			name: "unknown condition",
			err:  &UnknownConditionError{Category: "cat", Index: 1, Condition: "tag"},
			want: `no remediation for condition "tag" in step 1 of category "cat"`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.err.Error())
		})
	}
}

func TestLookupErrorsAreDistinct(t *testing.T) {
	req := require.New(t)

	s := testutils.GetTestFixture(t, "knowledge-base.yaml")
	kb, err := Parse([]byte(s))
	req.NoError(err)

	_, err = kb.Remediation("high_cpu_usage", 0, "nonexistent_tag")
	var unknownCategory *UnknownCategoryError
	var outOfRange *StepIndexOutOfRangeError
	assert.False(t, errors.As(err, &unknownCategory))
	assert.False(t, errors.As(err, &outOfRange))
}
