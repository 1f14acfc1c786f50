// Package knowledgebase loads and serves the diagnostic knowledge base: an
// ordered mapping from problem categories (e.g. "high_cpu_usage") to the
// diagnostic steps a human would walk through for that class of problem.
//
// The knowledge base never executes commands and never interprets command
// output. It is a lookup table for external tools such as the debugkb CLI,
// a chatbot, or a runbook renderer.
package knowledgebase

import (
	"fmt"
	"strings"
)

// Step is one inspection action: a command for an external executor to run,
// a description of what its output should look like, and remediation advice
// keyed by observed condition tags. Condition tags are free text local to
// each step; no cross-step vocabulary is enforced.
type Step struct {
	Description    string            `json:"description" yaml:"description"`
	Command        string            `json:"command" yaml:"command"`
	ExpectedOutput string            `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`
	Remediation    map[string]string `json:"remediation,omitempty" yaml:"remediation,omitempty"`
}

// Category is a named, ordered list of diagnostic steps. Step order is
// meaningful, it is the suggested execution sequence.
type Category struct {
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// KnowledgeBase is a parsed diagnostic knowledge base. Once constructed it
// is never mutated, so it may be shared across any number of concurrent
// readers without locking. Lookups that miss return typed errors
// (UnknownCategoryError, StepIndexOutOfRangeError, UnknownConditionError)
// that callers are expected to branch on as ordinary outcomes.
type KnowledgeBase struct {
	categories []Category
	byName     map[string]int
}

// New builds a KnowledgeBase from the given categories, applying the same
// validation Parse applies to documents. The input is deep-copied; the
// caller keeps ownership of the slice.
func New(categories []Category) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		categories: make([]Category, 0, len(categories)),
		byName:     make(map[string]int, len(categories)),
	}

	for _, c := range categories {
		if err := validateCategory(c); err != nil {
			return nil, err
		}
		if _, dup := kb.byName[c.Name]; dup {
			return nil, &MalformedDataError{Path: c.Name, Msg: "duplicate category name"}
		}
		kb.byName[c.Name] = len(kb.categories)
		kb.categories = append(kb.categories, copyCategory(c))
	}

	return kb, nil
}

// Categories returns the category names in source order.
func (kb *KnowledgeBase) Categories() []string {
	names := make([]string, 0, len(kb.categories))
	for _, c := range kb.categories {
		names = append(names, c.Name)
	}
	return names
}

// Category returns the named category. The returned value is a deep copy;
// mutating it does not affect the knowledge base.
func (kb *KnowledgeBase) Category(name string) (Category, error) {
	i, ok := kb.byName[name]
	if !ok {
		return Category{}, &UnknownCategoryError{Category: name}
	}
	return copyCategory(kb.categories[i]), nil
}

// Steps returns the ordered steps of the named category. The returned
// slice is a deep copy; mutating it does not affect the knowledge base.
func (kb *KnowledgeBase) Steps(category string) ([]Step, error) {
	i, ok := kb.byName[category]
	if !ok {
		return nil, &UnknownCategoryError{Category: category}
	}
	return copyCategory(kb.categories[i]).Steps, nil
}

// Step returns the step at index within the named category. Indexes are
// zero based.
func (kb *KnowledgeBase) Step(category string, index int) (Step, error) {
	i, ok := kb.byName[category]
	if !ok {
		return Step{}, &UnknownCategoryError{Category: category}
	}
	steps := kb.categories[i].Steps
	if index < 0 || index >= len(steps) {
		return Step{}, &StepIndexOutOfRangeError{Category: category, Index: index, Steps: len(steps)}
	}
	return copyStep(steps[index]), nil
}

// Remediation returns the advice string for the condition tag of the step
// at index within the named category.
func (kb *KnowledgeBase) Remediation(category string, index int, condition string) (string, error) {
	i, ok := kb.byName[category]
	if !ok {
		return "", &UnknownCategoryError{Category: category}
	}
	steps := kb.categories[i].Steps
	if index < 0 || index >= len(steps) {
		return "", &StepIndexOutOfRangeError{Category: category, Index: index, Steps: len(steps)}
	}
	advice, ok := steps[index].Remediation[condition]
	if !ok {
		return "", &UnknownConditionError{Category: category, Index: index, Condition: condition}
	}
	return advice, nil
}

// Conditions returns the condition tags of the step at index within the
// named category, sorted for deterministic display.
func (kb *KnowledgeBase) Conditions(category string, index int) ([]string, error) {
	step, err := kb.Step(category, index)
	if err != nil {
		return nil, err
	}
	return sortedKeys(step.Remediation), nil
}

// Len returns the number of categories in the knowledge base.
func (kb *KnowledgeBase) Len() int {
	return len(kb.categories)
}

// IsEmpty reports whether the knowledge base contains no categories.
func (kb *KnowledgeBase) IsEmpty() bool {
	return len(kb.categories) == 0
}

func validateCategory(c Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return &MalformedDataError{Msg: "category name must not be empty"}
	}
	if len(c.Steps) == 0 {
		return &MalformedDataError{Path: c.Name, Msg: "category must have at least one step"}
	}
	for i, s := range c.Steps {
		path := fmt.Sprintf("%s.steps[%d]", c.Name, i)
		if strings.TrimSpace(s.Description) == "" {
			return &MalformedDataError{Path: path + ".description", Msg: "description must not be empty"}
		}
		if strings.TrimSpace(s.Command) == "" {
			return &MalformedDataError{Path: path + ".command", Msg: "command must not be empty"}
		}
		for tag, advice := range s.Remediation {
			if strings.TrimSpace(tag) == "" {
				return &MalformedDataError{Path: path + ".remediation", Msg: "condition tag must not be empty"}
			}
			if strings.TrimSpace(advice) == "" {
				return &MalformedDataError{Path: fmt.Sprintf("%s.remediation.%s", path, tag), Msg: "remediation advice must not be empty"}
			}
		}
	}
	return nil
}

func copyCategory(c Category) Category {
	out := Category{Name: c.Name, Steps: make([]Step, 0, len(c.Steps))}
	for _, s := range c.Steps {
		out.Steps = append(out.Steps, copyStep(s))
	}
	return out
}

func copyStep(s Step) Step {
	out := s
	// An empty remediation mapping is normalized to nil so serialize and
	// reload round-trips compare equal.
	if len(s.Remediation) == 0 {
		out.Remediation = nil
		return out
	}
	out.Remediation = make(map[string]string, len(s.Remediation))
	for tag, advice := range s.Remediation {
		out.Remediation[tag] = advice
	}
	return out
}
