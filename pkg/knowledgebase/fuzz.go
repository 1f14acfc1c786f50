package knowledgebase

import (
	"fmt"

	fuzz "github.com/google/gofuzz"
)

// Fuzz implements the gofuzz interface so fuzzed steps always satisfy the
// validation rules: description and command are never blank and every
// remediation entry has a non-empty tag and advice.
func (s *Step) Fuzz(c fuzz.Continue) {
	if s == nil {
		return
	}
	s.Description = fmt.Sprintf("description %s", c.RandString())
	s.Command = fmt.Sprintf("command %s", c.RandString())
	if c.RandBool() {
		s.ExpectedOutput = fmt.Sprintf("expected %s", c.RandString())
	} else {
		s.ExpectedOutput = ""
	}

	s.Remediation = nil
	n := c.Intn(4)
	if n == 0 {
		return
	}
	s.Remediation = make(map[string]string, n)
	for i := 0; i < n; i++ {
		s.Remediation[fmt.Sprintf("condition_%d", i)] = fmt.Sprintf("advice %s", c.RandString())
	}
}
