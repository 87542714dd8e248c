package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/eparenti/eqa-sub002/internal/domain"
	"github.com/eparenti/eqa-sub002/internal/storage"
)

// BugViewer displays the bugs of a course run in an interactive TUI
type BugViewer struct {
	storage storage.Storage
}

// NewBugViewer creates a new BugViewer
func NewBugViewer(st storage.Storage) *BugViewer {
	return &BugViewer{storage: st}
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityP0:
		return "[red]"
	case domain.SeverityP1:
		return "[orange]"
	case domain.SeverityP2:
		return "[yellow]"
	default:
		return "[white]"
	}
}

// View displays the stored bugs in an interactive TUI. Toggling a bug
// reviewed persists back to the latest results file.
func (bv *BugViewer) View(results *domain.CourseTestResults) error {
	if len(results.Bugs) == 0 {
		color.Green("✓ No bugs found!")
		return nil
	}

	bugs := results.Bugs

	saveReviewed := func() error {
		return bv.storage.SaveLatest(results)
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	getListItemText := func(index int) string {
		bug := bugs[index]
		tag := severityTag(bug.Severity)
		if bug.Reviewed {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s %s[white]", index+1, bug.Severity, bug.ExerciseID)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s%s[white] %s", index+1, tag, bug.Severity, bug.ExerciseID)
	}

	updateListItem := func(index int) {
		if index < 0 || index >= list.GetItemCount() {
			return
		}
		list.SetItemText(index, getListItemText(index), "")
	}

	for i := range bugs {
		list.AddItem(getListItemText(i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	countUnreviewed := func() int {
		count := 0
		for i := range bugs {
			if !bugs[i].Reviewed {
				count++
			}
		}
		return count
	}

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerText := fmt.Sprintf(" Bugs (%d total, %d unreviewed) | Use ↑↓ to navigate, [yellow]R[white] to mark reviewed, → to view details, ← to go back, Ctrl+C to exit ", len(bugs), countUnreviewed())
		headerView.SetText(headerText)
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(bugs) {
			statsView.SetText(bv.formatBugStats(bugs[index], index+1))
			detailsView.SetText(bv.formatBugDetails(bugs[index]))
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(bugs) {
					bugs[index].Reviewed = !bugs[index].Reviewed
					updateListItem(index)
					updateHeader()
					updateDetails()
					if err := saveReviewed(); err != nil {
						_ = err
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// formatBugDetails formats a bug for display using tview color tags
func (bv *BugViewer) formatBugDetails(bug domain.Bug) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s✗ [%s] %s[white]\n\n", severityTag(bug.Severity), bug.Severity, bug.ID)
	fmt.Fprintf(w, "[cyan]Exercise: %s[white]\n", bug.ExerciseID)
	fmt.Fprintf(w, "[cyan]Category: %s[white]\n\n", bug.Category)

	fmt.Fprintf(w, "[yellow]Description:[white]\n%s\n\n", bug.Description)

	if bug.Recommendation != "" {
		fmt.Fprintf(w, "[yellow]Recommendation:[white]\n%s\n\n", bug.Recommendation)
	}

	if len(bug.VerificationSteps) > 0 {
		fmt.Fprintf(w, "[yellow]Verification Steps:[white]\n")
		for i, step := range bug.VerificationSteps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}

	w.Flush()
	return builder.String()
}

// formatBugStats formats the stats header for a bug
func (bv *BugViewer) formatBugStats(bug domain.Bug, number int) string {
	id := bug.ID
	if id == "" {
		id = fmt.Sprintf("Bug %d", number)
	}
	return fmt.Sprintf("[cyan]bug:[white] [yellow]%s[white]::[yellow]%s[white]\n", bug.ExerciseID, id)
}
