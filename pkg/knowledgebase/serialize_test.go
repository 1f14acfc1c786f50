package knowledgebase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/debugkb/debugkb/internal/testutils"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRoundTripYAML(t *testing.T) {
	req := require.New(t)

	kb, err := Parse([]byte(testutils.GetTestFixture(t, "knowledge-base.yaml")))
	req.NoError(err)

	out, err := kb.ToYAML()
	req.NoError(err)

	kb2, err := Parse(out)
	req.NoError(err)
	assert.Equal(t, kb, kb2)
}

func TestRoundTripJSON(t *testing.T) {
	req := require.New(t)

	kb, err := Parse([]byte(testutils.GetTestFixture(t, "knowledge-base.yaml")))
	req.NoError(err)

	out, err := kb.ToJSON()
	req.NoError(err)

	// Yaml 1.2 is a superset of json, so the json form loads through the
	// same parser.
	kb2, err := Parse(out)
	req.NoError(err)
	assert.Equal(t, kb, kb2)
}

func TestSerializePreservesCategoryOrder(t *testing.T) {
	req := require.New(t)

	doc := `
zfs_pool_degraded:
  - description: Check pool status
    command: zpool status
apparmor_denials:
  - description: Check for denials
    command: dmesg | grep -i apparmor
disk_full:
  - description: Check disk usage
    command: df -h
`
	kb, err := Parse([]byte(doc))
	req.NoError(err)

	y, err := kb.ToYAML()
	req.NoError(err)
	j, err := kb.ToJSON()
	req.NoError(err)

	for _, out := range []string{string(y), string(j)} {
		zfs := strings.Index(out, "zfs_pool_degraded")
		apparmor := strings.Index(out, "apparmor_denials")
		disk := strings.Index(out, "disk_full")
		req.NotEqual(-1, zfs)
		req.NotEqual(-1, apparmor)
		req.NotEqual(-1, disk)
		assert.Less(t, zfs, apparmor)
		assert.Less(t, apparmor, disk)
	}
}

func TestSerializeOmitsEmptyFields(t *testing.T) {
	req := require.New(t)

	kb, err := New([]Category{
		{
			Name: "disk_full",
			Steps: []Step{
				{Description: "Check disk usage", Command: "df -h"},
			},
		},
	})
	req.NoError(err)

	y, err := kb.ToYAML()
	req.NoError(err)
	assert.NotContains(t, string(y), "expected_output")
	assert.NotContains(t, string(y), "remediation")

	j, err := kb.ToJSON()
	req.NoError(err)
	assert.NotContains(t, string(j), "expected_output")
	assert.NotContains(t, string(j), "remediation")
}

func TestSerializeSortsConditionTags(t *testing.T) {
	req := require.New(t)

	kb, err := New([]Category{
		{
			Name: "memory_issues",
			Steps: []Step{
				{
					Description: "Check memory",
					Command:     "free -m",
					Remediation: map[string]string{
						"zswap_disabled": "Enable zswap",
						"no_swap":        "Configure swap space",
						"high_swap":      "Find the process hogging memory",
					},
				},
			},
		},
	})
	req.NoError(err)

	y, err := kb.ToYAML()
	req.NoError(err)
	j, err := kb.ToJSON()
	req.NoError(err)

	for _, out := range []string{string(y), string(j)} {
		high := strings.Index(out, "high_swap")
		none := strings.Index(out, "no_swap")
		zswap := strings.Index(out, "zswap_disabled")
		assert.Less(t, high, none)
		assert.Less(t, none, zswap)
	}
}

func TestMarshalYAMLEmbedded(t *testing.T) {
	req := require.New(t)

	kb, err := Parse([]byte(testutils.GetTestFixture(t, "knowledge-base.yaml")))
	req.NoError(err)

	wrapper := struct {
		Name string         `yaml:"name"`
		KB   *KnowledgeBase `yaml:"knowledge_base"`
	}{
		Name: "support",
		KB:   kb,
	}

	out, err := yaml.Marshal(wrapper)
	req.NoError(err)
	assert.Contains(t, string(out), "knowledge_base:")
	assert.Less(t, strings.Index(string(out), "high_cpu_usage"), strings.Index(string(out), "memory_issues"))
}

func TestEmptyKnowledgeBaseSerializes(t *testing.T) {
	req := require.New(t)

	kb, err := Parse(nil)
	req.NoError(err)

	y, err := kb.ToYAML()
	req.NoError(err)
	kb2, err := Parse(y)
	req.NoError(err)
	assert.True(t, kb2.IsEmpty())

	j, err := kb.ToJSON()
	req.NoError(err)
	assert.Equal(t, "{}\n", string(j))
}

func TestFuzzedRoundTrip(t *testing.T) {
	req := require.New(t)

	f := fuzz.New().NilChance(0).NumElements(1, 5)

	categories := make([]Category, 0, 8)
	for i := 0; i < 8; i++ {
		var steps []Step
		f.Fuzz(&steps)
		categories = append(categories, Category{
			Name:  fmt.Sprintf("category_%d", i),
			Steps: steps,
		})
	}

	kb, err := New(categories)
	req.NoError(err)

	y, err := kb.ToYAML()
	req.NoError(err)
	fromYAML, err := Parse(y)
	req.NoError(err, "serialized yaml failed to parse:\n%s", string(y))
	assert.Equal(t, kb, fromYAML)

	j, err := kb.ToJSON()
	req.NoError(err)
	fromJSON, err := Parse(j)
	req.NoError(err, "serialized json failed to parse:\n%s", string(j))
	assert.Equal(t, kb, fromJSON)
}
