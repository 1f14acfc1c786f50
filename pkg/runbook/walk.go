package runbook

import (
	"context"
	"fmt"
	"os"

	"github.com/debugkb/debugkb/internal/util"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

const noConditionMatched = "None of these"

type WalkOptions struct {
	Category  string
	OutputDir string // defaults to the current directory
}

// Walk steps through a category interactively. Each step is shown with its
// command and expected output, the operator runs the command themselves and
// reports what they observed, and the matching remediation advice is
// printed. The transcript is saved as a session report when the walk ends,
// including when the operator interrupts it.
func Walk(ctx context.Context, kb *knowledgebase.KnowledgeBase, opts WalkOptions) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return errors.New("walk requires an interactive terminal, use the render command for non-interactive output")
	}

	steps, err := kb.Steps(opts.Category)
	if err != nil {
		return err
	}

	session := NewSession(opts.Category)

	titleColor := color.New(color.FgCyan, color.Bold)
	commandColor := color.New(color.Bold)
	adviceColor := color.New(color.FgYellow)

	titleColor.Printf("%s\n", util.CategoryTitle(opts.Category))
	fmt.Printf("%d step(s), session %s\n", len(steps), session.ID)

walk:
	for i, step := range steps {
		if ctx.Err() != nil {
			break
		}

		fmt.Println()
		titleColor.Printf("Step %d of %d: %s\n", i+1, len(steps), step.Description)
		commandColor.Printf("  $ %s\n", step.Command)
		if step.ExpectedOutput != "" {
			fmt.Printf("  Expected: %s\n", step.ExpectedOutput)
		}

		run, err := confirm("Run this step")
		if err != nil {
			break walk
		}
		if !run {
			session.Skip(i, step)
			continue
		}

		condition := ""
		advice := ""

		matched := true
		if step.ExpectedOutput != "" {
			matched, err = confirm("Did the output match the expected output")
			if err != nil {
				break walk
			}
		}

		if !matched {
			conditions, err := kb.Conditions(opts.Category, i)
			if err != nil {
				return err
			}
			if len(conditions) > 0 {
				picked, err := selectOne("Which condition did you observe", append(conditions, noConditionMatched))
				if err != nil {
					break walk
				}
				if picked != noConditionMatched {
					condition = picked
					advice, err = kb.Remediation(opts.Category, i, picked)
					if err != nil {
						return err
					}
					adviceColor.Printf("  Remediation: %s\n", advice)
				}
			}
		}

		session.Complete(i, step, condition, advice)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	reportPath, err := session.Save(outputDir)
	if err != nil {
		return err
	}

	fmt.Printf("\nA session report has been written to %q\n", reportPath)
	return nil
}

// confirm asks a yes/no question. A no answer is not an error, anything
// that ends the prompt (interrupt, closed stdin) is.
func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	return false, err
}

func selectOne(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}

	_, picked, err := prompt.Run()
	return picked, err
}
