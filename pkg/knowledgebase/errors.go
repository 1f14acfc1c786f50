package knowledgebase

import "fmt"

// MalformedDataError is returned by Parse and New when the source is not
// well-formed yaml or json, or when a record fails validation. Path names
// the offending record, e.g. "high_cpu_usage.steps[0].command". Line is the
// 1-based line in the source document when known, else 0.
//
// A MalformedDataError is fatal to the load attempt. The caller must treat
// the knowledge base as unusable until a corrected source is provided.
type MalformedDataError struct {
	Path string
	Line int
	Msg  string
}

func (e *MalformedDataError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("malformed knowledge base: %s: line %d: %s", e.Path, e.Line, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("malformed knowledge base: %s: %s", e.Path, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("malformed knowledge base: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("malformed knowledge base: %s", e.Msg)
}

// UnknownCategoryError is returned by lookups when the requested category
// is not in the knowledge base.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Category)
}

// StepIndexOutOfRangeError is returned by lookups when the step index is
// outside the bounds of the category's step sequence.
type StepIndexOutOfRangeError struct {
	Category string
	Index    int
	Steps    int
}

func (e *StepIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("step index %d out of range for category %q with %d steps", e.Index, e.Category, e.Steps)
}

// UnknownConditionError is returned by Remediation when the step has no
// remediation entry for the requested condition tag.
type UnknownConditionError struct {
	Category  string
	Index     int
	Condition string
}

func (e *UnknownConditionError) Error() string {
	return fmt.Sprintf("no remediation for condition %q in step %d of category %q", e.Condition, e.Index, e.Category)
}
