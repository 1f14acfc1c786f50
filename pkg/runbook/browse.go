package runbook

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/debugkb/debugkb/internal/util"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/mitchellh/go-wordwrap"
	"github.com/pkg/errors"
	ui "github.com/replicatedhq/termui/v3"
	"github.com/replicatedhq/termui/v3/widgets"
)

var (
	selectedStep   = 0
	stepsTable     = widgets.NewTable()
	isShowingSaved = false
)

// Browse opens a terminal ui for reading through a category: a table of
// steps on the left, the selected step's command, expected output and
// remediation on the right. Pressing s saves the category runbook as
// markdown in the home directory.
func Browse(kb *knowledgebase.KnowledgeBase, category string) error {
	steps, err := kb.Steps(category)
	if err != nil {
		return err
	}

	if err := ui.Init(); err != nil {
		return errors.Wrap(err, "failed to create terminal ui")
	}
	defer ui.Close()

	selectedStep = 0
	stepsTable.SelectedRow = 0
	isShowingSaved = false
	drawUI(kb, category, steps)

	uiEvents := ui.PollEvents()
	for {
		e := <-uiEvents
		switch e.ID {
		case "<C-c>":
			return nil
		case "q":
			if isShowingSaved {
				isShowingSaved = false
				ui.Clear()
				drawUI(kb, category, steps)
			} else {
				return nil
			}
		case "s":
			filename, err := saveRunbook(kb, category)
			if err == nil {
				showSaved(filename)
				go func() {
					time.Sleep(time.Second * 5)
					isShowingSaved = false
					ui.Clear()
					drawUI(kb, category, steps)
				}()
			}
		case "<Resize>":
			ui.Clear()
			drawUI(kb, category, steps)
		case "<Down>":
			if selectedStep < len(steps)-1 {
				selectedStep++
			} else {
				selectedStep = 0
				stepsTable.SelectedRow = 0
			}
			stepsTable.ScrollDown()
			ui.Clear()
			drawUI(kb, category, steps)
		case "<Up>":
			if selectedStep > 0 {
				selectedStep--
			} else {
				selectedStep = len(steps) - 1
				stepsTable.SelectedRow = len(steps)
			}
			stepsTable.ScrollUp()
			ui.Clear()
			drawUI(kb, category, steps)
		}
	}
}

func drawUI(kb *knowledgebase.KnowledgeBase, category string, steps []knowledgebase.Step) {
	drawStepsTable(steps)
	drawStepDetails(steps[selectedStep])
	drawHeader(category)
	drawFooter()
}

func drawHeader(category string) {
	termWidth, _ := ui.TerminalDimensions()

	title := widgets.NewParagraph()
	title.Text = fmt.Sprintf("%s Runbook", util.CategoryTitle(category))
	title.TextStyle.Fg = ui.ColorWhite
	title.TextStyle.Bg = ui.ColorClear
	title.TextStyle.Modifier = ui.ModifierBold
	title.Border = false

	left := termWidth/2 - 2*len(title.Text)/3
	right := termWidth/2 + (termWidth/2 - left)

	title.SetRect(left, 0, right, 1)
	ui.Render(title)
}

func drawFooter() {
	termWidth, termHeight := ui.TerminalDimensions()

	instructions := widgets.NewParagraph()
	instructions.Text = "[q] quit    [s] save    [↑][↓] scroll"
	instructions.Border = false

	left := 0
	right := termWidth
	top := termHeight - 1
	bottom := termHeight

	instructions.SetRect(left, top, right, bottom)
	ui.Render(instructions)
}

func drawStepsTable(steps []knowledgebase.Step) {
	termWidth, termHeight := ui.TerminalDimensions()

	stepsTable.SetRect(0, 3, termWidth/2, termHeight-6)
	stepsTable.FillRow = true
	stepsTable.Border = true
	stepsTable.Rows = [][]string{}
	stepsTable.ColumnWidths = []int{termWidth}

	for i, step := range steps {
		stepsTable.Rows = append(stepsTable.Rows, []string{
			fmt.Sprintf("%d. %s", i+1, step.Description),
		})

		if i == selectedStep {
			stepsTable.RowStyles[i] = ui.NewStyle(ui.ColorWhite, ui.ColorClear, ui.ModifierReverse)
		} else {
			stepsTable.RowStyles[i] = ui.NewStyle(ui.ColorWhite, ui.ColorClear)
		}
	}

	ui.Render(stepsTable)
}

func drawStepDetails(step knowledgebase.Step) {
	termWidth, _ := ui.TerminalDimensions()

	// WrapText stays off, the text is pre wrapped so the padding is accounted for
	wrapWidth := uint(termWidth/2 - constants.MESSAGE_TEXT_PADDING)

	currentTop := 4
	title := widgets.NewParagraph()
	title.WrapText = false
	title.Text = wordwrap.WrapString(step.Description, wrapWidth)
	title.Border = false
	title.TextStyle = ui.NewStyle(ui.ColorWhite, ui.ColorClear, ui.ModifierBold)
	height := util.EstimateNumberOfLines(title.Text)
	title.SetRect(termWidth/2, currentTop, termWidth, currentTop+height)
	ui.Render(title)
	currentTop = currentTop + height + 1

	detail := widgets.NewParagraph()
	detail.WrapText = false
	detail.Text = wordwrap.WrapString(fmt.Sprintf("$ %s", step.Command), wrapWidth)
	if step.ExpectedOutput != "" {
		expectedText := wordwrap.WrapString(fmt.Sprintf("Expected: %s", step.ExpectedOutput), wrapWidth)
		detail.Text = detail.Text + "\n\n" + expectedText
	}
	if len(step.Remediation) > 0 {
		tags := make([]string, 0, len(step.Remediation))
		for tag := range step.Remediation {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		remediationText := "Remediation:"
		for _, tag := range tags {
			remediationText = remediationText + "\n" + wordwrap.WrapString(fmt.Sprintf("  %s: %s", tag, step.Remediation[tag]), wrapWidth)
		}
		detail.Text = detail.Text + "\n\n" + remediationText
	}
	height = util.EstimateNumberOfLines(detail.Text) + constants.MESSAGE_TEXT_LINES_MARGIN_TO_BOTTOM
	detail.Border = false
	detail.SetRect(termWidth/2, currentTop, termWidth, currentTop+height)
	ui.Render(detail)
}

func showSaved(filename string) {
	termWidth, termHeight := ui.TerminalDimensions()

	savedMessage := widgets.NewParagraph()
	savedMessage.Text = fmt.Sprintf("Category runbook saved to\n\n%s", filename)
	savedMessage.WrapText = true
	savedMessage.Border = true

	// Size the box off the longest line so the text is not drowned in space
	lines := strings.Split(savedMessage.Text, "\n")
	maxLineLength := 0
	for _, line := range lines {
		if len(line) > maxLineLength {
			maxLineLength = len(line)/2 + constants.MESSAGE_TEXT_PADDING
		}
	}

	if maxLineLength > termWidth/2 {
		maxLineLength = termWidth / 2
	}

	left := termWidth/2 - maxLineLength
	right := termWidth/2 + maxLineLength
	top := termHeight/2 - len(lines)
	bottom := termHeight/2 + len(lines)

	savedMessage.SetRect(left, top, right, bottom)
	ui.Render(savedMessage)

	isShowingSaved = true
}

func saveRunbook(kb *knowledgebase.KnowledgeBase, category string) (string, error) {
	filename := path.Join(util.HomeDir(), fmt.Sprintf("%s-runbook.md", category))
	_, err := os.Stat(filename)
	if err == nil {
		os.Remove(filename)
	}

	markdown, err := RenderMarkdown(context.Background(), kb, RenderOptions{Categories: []string{category}})
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filename, []byte(markdown), 0644); err != nil {
		return "", errors.Wrap(err, "failed to save runbook")
	}

	return filename, nil
}
