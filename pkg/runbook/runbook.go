// Package runbook turns a knowledge base into material an operator can
// follow: rendered markdown runbooks, interactive walk sessions with saved
// transcripts, and a terminal ui browser.
//
// Nothing in this package executes diagnostic commands. The operator runs
// them and reports back what they observed.
package runbook

import (
	"context"

	"github.com/debugkb/debugkb/internal/util"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultRunbookTitle = "Debug Runbook"

type RenderOptions struct {
	// Categories to render, in order. Empty renders every category.
	Categories []string

	// Title of the rendered document. Empty uses a default.
	Title string
}

type runbookView struct {
	Title      string
	Categories []categoryView
}

type categoryView struct {
	Name  string
	Title string
	Steps []stepView
}

type stepView struct {
	Number         int
	Description    string
	Command        string
	ExpectedOutput string
	Conditions     []conditionView
}

type conditionView struct {
	Tag    string
	Advice string
}

const markdownTemplate = `# {{.Title}}
{{- range .Categories}}

## {{.Title}}
{{- range .Steps}}

### Step {{.Number}}: {{.Description}}

` + "```sh\n" + `{{.Command}}
` + "```" + `
{{- if .ExpectedOutput}}

Expected: {{.ExpectedOutput}}
{{- end}}
{{- if .Conditions}}

| Observed condition | Remediation |
| --- | --- |
{{- range .Conditions}}
| {{.Tag}} | {{.Advice}} |
{{- end}}
{{- end}}
{{- end}}
{{- end}}
`

// RenderMarkdown renders the selected categories as a markdown runbook.
// Categories and steps keep knowledge base order, condition tables are
// sorted by tag.
func RenderMarkdown(ctx context.Context, kb *knowledgebase.KnowledgeBase, opts RenderOptions) (string, error) {
	names := opts.Categories
	if len(names) == 0 {
		names = kb.Categories()
	}

	title := opts.Title
	if title == "" {
		title = defaultRunbookTitle
	}

	_, span := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, title)
	span.SetAttributes(attribute.String("type", "runbook.Render"))
	defer span.End()

	view := runbookView{Title: title}
	for _, name := range names {
		category, err := kb.Category(name)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}

		cv := categoryView{Name: name, Title: util.CategoryTitle(name)}
		for i, step := range category.Steps {
			sv := stepView{
				Number:         i + 1,
				Description:    step.Description,
				Command:        step.Command,
				ExpectedOutput: step.ExpectedOutput,
			}

			conditions, err := kb.Conditions(name, i)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				return "", err
			}
			for _, tag := range conditions {
				sv.Conditions = append(sv.Conditions, conditionView{Tag: tag, Advice: step.Remediation[tag]})
			}

			cv.Steps = append(cv.Steps, sv)
		}
		view.Categories = append(view.Categories, cv)
	}

	out, err := util.RenderTemplate(markdownTemplate, view)
	if err != nil {
		err = errors.Wrap(err, "failed to render runbook")
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return out, nil
}
