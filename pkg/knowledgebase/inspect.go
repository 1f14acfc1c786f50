package knowledgebase

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Severity classifies an issue found by Inspect.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single problem found while inspecting a knowledge base
// document.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

var snakeCaseRe = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// Inspect checks a knowledge base document and returns every issue found
// instead of stopping at the first. Structural problems Parse would reject
// come back as errors; loadable but suspicious constructs come back as
// warnings. A document with no error severity issues is guaranteed to
// Parse.
func Inspect(data []byte) []Issue {
	issues := []Issue{}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return append(issues, Issue{Severity: SeverityError, Message: err.Error()})
	}

	doc := documentContent(&root)
	if doc == nil {
		return append(issues, Issue{Severity: SeverityWarning, Message: "document is empty"})
	}
	if doc.Kind != yaml.MappingNode {
		return append(issues, Issue{
			Severity: SeverityError,
			Line:     doc.Line,
			Message:  fmt.Sprintf("top level must be a mapping of category name to steps, got %s", describeNode(doc)),
		})
	}

	seen := make(map[string]bool, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode := doc.Content[i]
		valNode := doc.Content[i+1]

		name, ok := stringScalar(keyNode)
		if !ok || strings.TrimSpace(name) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Line: keyNode.Line, Message: "category name must be a non-empty string"})
			continue
		}
		if seen[name] {
			issues = append(issues, Issue{Severity: SeverityError, Path: name, Line: keyNode.Line, Message: "duplicate category name"})
		}
		seen[name] = true

		if !snakeCaseRe.MatchString(name) {
			issues = append(issues, Issue{Severity: SeverityWarning, Path: name, Line: keyNode.Line, Message: "category name is not lower_snake_case"})
		}

		issues = append(issues, inspectSteps(name, valNode)...)
	}

	return issues
}

func inspectSteps(category string, node *yaml.Node) []Issue {
	node = resolveAlias(node)
	if node.Kind != yaml.SequenceNode {
		return []Issue{{
			Severity: SeverityError,
			Path:     category,
			Line:     node.Line,
			Message:  fmt.Sprintf("steps must be a sequence, got %s", describeNode(node)),
		}}
	}
	if len(node.Content) == 0 {
		return []Issue{{Severity: SeverityError, Path: category, Line: node.Line, Message: "category must have at least one step"}}
	}

	issues := []Issue{}
	// Track advice per condition tag to flag a tag that means different
	// things in different steps of the same category.
	adviceByTag := make(map[string]string)
	for i, stepNode := range node.Content {
		issues = append(issues, inspectStep(category, i, stepNode, adviceByTag)...)
	}
	return issues
}

func inspectStep(category string, index int, node *yaml.Node, adviceByTag map[string]string) []Issue {
	node = resolveAlias(node)
	path := fmt.Sprintf("%s.steps[%d]", category, index)
	if node.Kind != yaml.MappingNode {
		return []Issue{{
			Severity: SeverityError,
			Path:     path,
			Line:     node.Line,
			Message:  fmt.Sprintf("step must be a mapping, got %s", describeNode(node)),
		}}
	}

	issues := []Issue{}
	seen := make(map[string]bool, 4)
	remediationEntries := 0
	expectedOutput := ""

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := resolveAlias(node.Content[i+1])

		key, ok := stringScalar(keyNode)
		if !ok {
			issues = append(issues, Issue{Severity: SeverityError, Path: path, Line: keyNode.Line, Message: "step field name must be a string"})
			continue
		}
		if seen[key] {
			issues = append(issues, Issue{Severity: SeverityError, Path: path, Line: keyNode.Line, Message: fmt.Sprintf("duplicate step field %q", key)})
			continue
		}
		seen[key] = true

		switch key {
		case "description":
			if s, ok := stringScalar(valNode); !ok || strings.TrimSpace(s) == "" {
				issues = append(issues, Issue{Severity: SeverityError, Path: path + ".description", Line: valNode.Line, Message: "description must be a non-empty string"})
			}
		case "command":
			if s, ok := stringScalar(valNode); !ok || strings.TrimSpace(s) == "" {
				issues = append(issues, Issue{Severity: SeverityError, Path: path + ".command", Line: valNode.Line, Message: "command must be a non-empty string"})
			}
		case "expected_output":
			s, ok := stringScalar(valNode)
			if !ok {
				issues = append(issues, Issue{Severity: SeverityError, Path: path + ".expected_output", Line: valNode.Line, Message: "expected_output must be a string"})
				continue
			}
			expectedOutput = s
		case "remediation":
			var remIssues []Issue
			remIssues, remediationEntries = inspectRemediation(category, path, valNode, adviceByTag)
			issues = append(issues, remIssues...)
		default:
			issues = append(issues, Issue{Severity: SeverityError, Path: path, Line: keyNode.Line, Message: fmt.Sprintf("unknown step field %q", key)})
		}
	}

	if !seen["description"] {
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Line: node.Line, Message: `step is missing required field "description"`})
	}
	if !seen["command"] {
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Line: node.Line, Message: `step is missing required field "command"`})
	}
	if strings.TrimSpace(expectedOutput) == "" {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: path, Line: node.Line, Message: "step has no expected_output"})
	}
	if remediationEntries == 0 {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: path, Line: node.Line, Message: "step has no remediation entries"})
	}

	return issues
}

func inspectRemediation(category, stepPath string, node *yaml.Node, adviceByTag map[string]string) ([]Issue, int) {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, 0
	}
	if node.Kind != yaml.MappingNode {
		return []Issue{{
			Severity: SeverityError,
			Path:     stepPath + ".remediation",
			Line:     node.Line,
			Message:  fmt.Sprintf("remediation must be a mapping of condition tag to advice, got %s", describeNode(node)),
		}}, 0
	}

	issues := []Issue{}
	entries := 0
	seen := make(map[string]bool, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := resolveAlias(node.Content[i+1])

		tag, ok := stringScalar(keyNode)
		if !ok || strings.TrimSpace(tag) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: stepPath + ".remediation", Line: keyNode.Line, Message: "condition tag must be a non-empty string"})
			continue
		}
		tagPath := fmt.Sprintf("%s.remediation.%s", stepPath, tag)
		if seen[tag] {
			issues = append(issues, Issue{Severity: SeverityError, Path: tagPath, Line: keyNode.Line, Message: "duplicate condition tag"})
			continue
		}
		seen[tag] = true

		advice, ok := stringScalar(valNode)
		if !ok || strings.TrimSpace(advice) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: tagPath, Line: valNode.Line, Message: "remediation advice must be a non-empty string"})
			continue
		}
		entries++

		if prev, ok := adviceByTag[tag]; ok && prev != advice {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     tagPath,
				Line:     keyNode.Line,
				Message:  fmt.Sprintf("condition tag %q maps to different advice elsewhere in category %q", tag, category),
			})
		} else {
			adviceByTag[tag] = advice
		}
	}

	return issues, entries
}
