// Package review renders the artifact store for human inspection.
package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vinayprograms/deepresearch/internal/artifact"
)

// Section color scheme - each artifact gets a distinct, consistent color.
var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Gray - timestamps, metadata

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")) // White bold - headers

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")) // White - the answer itself

	feedbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // Yellow - critic feedback

	notesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")) // Cyan - research notes

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")) // Magenta - open questions

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")) // Blue - tool calls

	seqStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Width(5).
			Align(lipgloss.Right)

	divider = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(strings.Repeat("━", 60))
)

// section pairs an artifact log with its display title and style.
type section struct {
	log   string
	title string
	style lipgloss.Style
}

var logSections = []section{
	{artifact.LogCriticFeedback, "Critic Feedback", feedbackStyle},
	{artifact.LogNotes, "Research Notes", notesStyle},
	{artifact.LogOpenQuestions, "Open Questions", questionStyle},
}

// Render formats the whole store as a styled report: final answer first,
// then each log, then the tool call table.
func Render(store artifact.Reader) (string, error) {
	var b strings.Builder

	answer, err := store.ReadSlot(artifact.SlotFinalAnswer)
	if err != nil {
		return "", err
	}

	b.WriteString(titleStyle.Render("Final Answer"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	if strings.TrimSpace(answer) == "" {
		b.WriteString(dimStyle.Render("(no answer recorded)"))
		b.WriteString("\n")
	} else {
		b.WriteString(answerStyle.Render(strings.TrimSpace(answer)))
		b.WriteString("\n")
	}

	for _, sec := range logSections {
		content, err := store.ReadLog(sec.log)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(sec.title))
		b.WriteString("\n")
		b.WriteString(divider)
		b.WriteString("\n")
		b.WriteString(renderLog(content, sec.style))
	}

	recs, err := store.ReadToolCalls()
	if err != nil {
		return "", err
	}
	if len(recs) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Tool Calls"))
		b.WriteString("\n")
		b.WriteString(divider)
		b.WriteString("\n")
		b.WriteString(renderToolCalls(recs))
	}

	return b.String(), nil
}

// renderLog styles a log's text, dimming the timestamp headers.
func renderLog(content string, style lipgloss.Style) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if strings.HasPrefix(line, "### ") {
			b.WriteString(dimStyle.Render(line))
		} else if line != "" {
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderToolCalls formats the search history as a timeline table.
func renderToolCalls(recs []artifact.ToolCallRecord) string {
	var b strings.Builder
	for i, rec := range recs {
		b.WriteString(seqStyle.Render(fmt.Sprintf("%d", i+1)))
		b.WriteString(dimStyle.Render(" │ "))
		b.WriteString(dimStyle.Render(rec.At.UTC().Format("15:04:05")))
		b.WriteString(dimStyle.Render(" │ "))
		b.WriteString(dimStyle.Render(fmt.Sprintf("%5dms", rec.DurationMs)))
		b.WriteString(dimStyle.Render(" │ "))
		b.WriteString(dimStyle.Render(fmt.Sprintf("%2d results", rec.ResultCount)))
		b.WriteString(dimStyle.Render(" │ "))
		b.WriteString(toolStyle.Render(rec.Query))
		b.WriteString("\n")
	}
	return b.String()
}
