package knowledgebase

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ToYAML serializes the knowledge base back to its source document form.
// Categories and steps keep their source order. Remediation mappings are
// written with sorted condition tags so the output is deterministic, and
// an empty expected_output or remediation field is omitted.
func (kb *KnowledgeBase) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(kb.yamlNode()); err != nil {
		return nil, errors.Wrap(err, "failed to encode knowledge base")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to flush yaml encoder")
	}
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler so a KnowledgeBase embedded in a
// larger document serializes with its category order intact.
func (kb *KnowledgeBase) MarshalYAML() (interface{}, error) {
	return kb.yamlNode(), nil
}

// ToJSON serializes the knowledge base to indented json with category
// order preserved. Remediation tags come out sorted, which matches how
// encoding/json writes maps.
func (kb *KnowledgeBase) ToJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range kb.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(c.Name)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal category name")
		}
		buf.Write(name)
		buf.WriteByte(':')

		// Step is a struct, so encoding/json keeps its field order.
		steps, err := json.Marshal(c.Steps)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal steps of category %s", c.Name)
		}
		buf.Write(steps)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, errors.Wrap(err, "failed to indent json")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (kb *KnowledgeBase) yamlNode() *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range kb.categories {
		root.Content = append(root.Content, strNode(c.Name), stepsNode(c.Steps))
	}
	return root
}

func stepsNode(steps []Step) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, s := range steps {
		seq.Content = append(seq.Content, stepNode(s))
	}
	return seq
}

func stepNode(s Step) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, strNode("description"), strNode(s.Description))
	m.Content = append(m.Content, strNode("command"), strNode(s.Command))
	if s.ExpectedOutput != "" {
		m.Content = append(m.Content, strNode("expected_output"), strNode(s.ExpectedOutput))
	}
	if len(s.Remediation) > 0 {
		rm := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, tag := range sortedKeys(s.Remediation) {
			rm.Content = append(rm.Content, strNode(tag), strNode(s.Remediation[tag]))
		}
		m.Content = append(m.Content, strNode("remediation"), rm)
	}
	return m
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
