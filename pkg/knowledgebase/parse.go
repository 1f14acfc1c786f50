package knowledgebase

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a yaml or json document into a KnowledgeBase. The top level
// must be a mapping from category name to a sequence of step records, each
// record carrying exactly the fields description, command, expected_output
// and remediation, of which description and command are required.
//
// There is no partial load: the whole document parses and validates or
// Parse fails with a *MalformedDataError naming the offending record.
// Category order and step order from the document are preserved. An empty
// or null document parses to an empty knowledge base.
func Parse(data []byte) (*KnowledgeBase, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &MalformedDataError{Msg: err.Error()}
	}

	doc := documentContent(&root)
	if doc == nil {
		return &KnowledgeBase{byName: map[string]int{}}, nil
	}

	categories, err := decodeCategories(doc)
	if err != nil {
		return nil, err
	}

	kb := &KnowledgeBase{
		categories: categories,
		byName:     make(map[string]int, len(categories)),
	}
	for i := range categories {
		kb.byName[categories[i].Name] = i
	}

	return kb, nil
}

// documentContent unwraps the document node and returns the top level
// content node, or nil when the document is empty or null.
func documentContent(root *yaml.Node) *yaml.Node {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	n := resolveAlias(root.Content[0])
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	return n
}

func decodeCategories(doc *yaml.Node) ([]Category, error) {
	if doc.Kind != yaml.MappingNode {
		return nil, &MalformedDataError{
			Line: doc.Line,
			Msg:  fmt.Sprintf("top level must be a mapping of category name to steps, got %s", describeNode(doc)),
		}
	}

	categories := make([]Category, 0, len(doc.Content)/2)
	seen := make(map[string]bool, len(doc.Content)/2)

	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode := doc.Content[i]
		valNode := doc.Content[i+1]

		name, ok := stringScalar(keyNode)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, &MalformedDataError{Line: keyNode.Line, Msg: "category name must be a non-empty string"}
		}
		if seen[name] {
			return nil, &MalformedDataError{Path: name, Line: keyNode.Line, Msg: "duplicate category name"}
		}
		seen[name] = true

		steps, err := decodeSteps(name, valNode)
		if err != nil {
			return nil, err
		}

		categories = append(categories, Category{Name: name, Steps: steps})
	}

	return categories, nil
}

func decodeSteps(category string, node *yaml.Node) ([]Step, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.SequenceNode {
		return nil, &MalformedDataError{
			Path: category,
			Line: node.Line,
			Msg:  fmt.Sprintf("steps must be a sequence, got %s", describeNode(node)),
		}
	}
	if len(node.Content) == 0 {
		return nil, &MalformedDataError{Path: category, Line: node.Line, Msg: "category must have at least one step"}
	}

	steps := make([]Step, 0, len(node.Content))
	for i, stepNode := range node.Content {
		step, err := decodeStep(category, i, stepNode)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return steps, nil
}

func decodeStep(category string, index int, node *yaml.Node) (Step, error) {
	node = resolveAlias(node)
	path := fmt.Sprintf("%s.steps[%d]", category, index)
	if node.Kind != yaml.MappingNode {
		return Step{}, &MalformedDataError{
			Path: path,
			Line: node.Line,
			Msg:  fmt.Sprintf("step must be a mapping, got %s", describeNode(node)),
		}
	}

	var step Step
	seen := make(map[string]bool, 4)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := resolveAlias(node.Content[i+1])

		key, ok := stringScalar(keyNode)
		if !ok {
			return Step{}, &MalformedDataError{Path: path, Line: keyNode.Line, Msg: "step field name must be a string"}
		}
		if seen[key] {
			return Step{}, &MalformedDataError{Path: path, Line: keyNode.Line, Msg: fmt.Sprintf("duplicate step field %q", key)}
		}
		seen[key] = true

		switch key {
		case "description":
			s, ok := stringScalar(valNode)
			if !ok || strings.TrimSpace(s) == "" {
				return Step{}, &MalformedDataError{Path: path + ".description", Line: valNode.Line, Msg: "description must be a non-empty string"}
			}
			step.Description = s
		case "command":
			s, ok := stringScalar(valNode)
			if !ok || strings.TrimSpace(s) == "" {
				return Step{}, &MalformedDataError{Path: path + ".command", Line: valNode.Line, Msg: "command must be a non-empty string"}
			}
			step.Command = s
		case "expected_output":
			s, ok := stringScalar(valNode)
			if !ok {
				return Step{}, &MalformedDataError{Path: path + ".expected_output", Line: valNode.Line, Msg: "expected_output must be a string"}
			}
			step.ExpectedOutput = s
		case "remediation":
			m, err := decodeRemediation(path, valNode)
			if err != nil {
				return Step{}, err
			}
			step.Remediation = m
		default:
			return Step{}, &MalformedDataError{Path: path, Line: keyNode.Line, Msg: fmt.Sprintf("unknown step field %q", key)}
		}
	}

	if !seen["description"] {
		return Step{}, &MalformedDataError{Path: path, Line: node.Line, Msg: `step is missing required field "description"`}
	}
	if !seen["command"] {
		return Step{}, &MalformedDataError{Path: path, Line: node.Line, Msg: `step is missing required field "command"`}
	}

	return step, nil
}

func decodeRemediation(stepPath string, node *yaml.Node) (map[string]string, error) {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &MalformedDataError{
			Path: stepPath + ".remediation",
			Line: node.Line,
			Msg:  fmt.Sprintf("remediation must be a mapping of condition tag to advice, got %s", describeNode(node)),
		}
	}

	m := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := resolveAlias(node.Content[i+1])

		tag, ok := stringScalar(keyNode)
		if !ok || strings.TrimSpace(tag) == "" {
			return nil, &MalformedDataError{Path: stepPath + ".remediation", Line: keyNode.Line, Msg: "condition tag must be a non-empty string"}
		}
		if _, dup := m[tag]; dup {
			return nil, &MalformedDataError{Path: fmt.Sprintf("%s.remediation.%s", stepPath, tag), Line: keyNode.Line, Msg: "duplicate condition tag"}
		}

		advice, ok := stringScalar(valNode)
		if !ok || strings.TrimSpace(advice) == "" {
			return nil, &MalformedDataError{Path: fmt.Sprintf("%s.remediation.%s", stepPath, tag), Line: valNode.Line, Msg: "remediation advice must be a non-empty string"}
		}
		m[tag] = advice
	}

	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return node.Alias
	}
	return node
}

func stringScalar(node *yaml.Node) (string, bool) {
	node = resolveAlias(node)
	if node.Kind != yaml.ScalarNode {
		return "", false
	}
	if node.Tag != "!!str" && node.Tag != "" {
		return "", false
	}
	return node.Value, true
}

func describeNode(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "a document"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.MappingNode:
		return "a mapping"
	case yaml.ScalarNode:
		return fmt.Sprintf("a %s scalar", strings.TrimPrefix(node.Tag, "!!"))
	case yaml.AliasNode:
		return "an alias"
	}
	return "an unknown node"
}
