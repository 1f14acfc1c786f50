package runbook

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/debugkb/debugkb/internal/util"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/debugkb/debugkb/pkg/version"
	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

// Step outcome statuses recorded during a walk session.
const (
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
)

type StepOutcome struct {
	Index     int
	Step      knowledgebase.Step
	Status    string
	Condition string
	Advice    string
}

// Session is the transcript of one walk through a category.
type Session struct {
	ID        string
	Category  string
	StartedAt time.Time
	Outcomes  []StepOutcome
}

func NewSession(category string) *Session {
	return &Session{
		ID:        ksuid.New().String(),
		Category:  category,
		StartedAt: time.Now(),
	}
}

func (s *Session) Complete(index int, step knowledgebase.Step, condition string, advice string) {
	s.Outcomes = append(s.Outcomes, StepOutcome{
		Index:     index,
		Step:      step,
		Status:    StatusCompleted,
		Condition: condition,
		Advice:    advice,
	})
}

func (s *Session) Skip(index int, step knowledgebase.Step) {
	s.Outcomes = append(s.Outcomes, StepOutcome{
		Index:  index,
		Step:   step,
		Status: StatusSkipped,
	})
}

type reportView struct {
	Title     string
	ID        string
	StartedAt string
	Outcomes  []outcomeView
}

type outcomeView struct {
	Number         int
	Description    string
	Command        string
	ExpectedOutput string
	Status         string
	Condition      string
	Advice         string
}

const reportTemplate = `# {{.Title}} walk session

Session: {{.ID}}
Started: {{.StartedAt}}
{{- range .Outcomes}}

## Step {{.Number}}: {{.Description}} ({{.Status}})

` + "```sh\n" + `{{.Command}}
` + "```" + `
{{- if .ExpectedOutput}}

Expected: {{.ExpectedOutput}}
{{- end}}
{{- if .Condition}}

Observed: {{.Condition}}

Remediation: {{.Advice}}
{{- end}}
{{- end}}
`

// Report renders the session transcript as markdown.
func (s *Session) Report() (string, error) {
	view := reportView{
		Title:     util.CategoryTitle(s.Category),
		ID:        s.ID,
		StartedAt: s.StartedAt.Format(time.RFC3339),
	}
	for _, outcome := range s.Outcomes {
		view.Outcomes = append(view.Outcomes, outcomeView{
			Number:         outcome.Index + 1,
			Description:    outcome.Step.Description,
			Command:        outcome.Step.Command,
			ExpectedOutput: outcome.Step.ExpectedOutput,
			Status:         outcome.Status,
			Condition:      outcome.Condition,
			Advice:         outcome.Advice,
		})
	}

	out, err := util.RenderTemplate(reportTemplate, view)
	if err != nil {
		return "", errors.Wrap(err, "failed to render session report")
	}

	return out, nil
}

// Save writes the session directory under dir and returns the report path.
// The directory holds the markdown report plus a version.yaml recording the
// debugkb build that ran the session. Files are written through renameio so
// a crash cannot leave a half written report behind.
func (s *Session) Save(dir string) (string, error) {
	sessionDir := filepath.Join(dir, fmt.Sprintf("debugkb-session-%s", s.ID))
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create session directory")
	}

	versionFile, err := version.GetVersionFile()
	if err != nil {
		return "", errors.Wrap(err, "failed to build version file")
	}
	if err := renameio.WriteFile(filepath.Join(sessionDir, constants.VersionFilename), []byte(versionFile), 0644); err != nil {
		return "", errors.Wrap(err, "failed to write version file")
	}

	report, err := s.Report()
	if err != nil {
		return "", err
	}
	reportPath := filepath.Join(sessionDir, "report.md")
	if err := renameio.WriteFile(reportPath, []byte(report), 0644); err != nil {
		return "", errors.Wrap(err, "failed to write session report")
	}

	return reportPath, nil
}
