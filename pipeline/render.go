package pipeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	reportOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	reportFailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	reportDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderReport renders a build result as a terminal report: one line per
// node with its build outcome.
func RenderReport(name string, events []Event) string {
	var sb strings.Builder
	sb.WriteString(reportTitleStyle.Render(fmt.Sprintf("Flow %q", name)))
	sb.WriteByte('\n')

	for _, event := range events {
		status := reportOKStyle.Render("✓")
		detail := ""
		if event.Err != nil {
			status = reportFailStyle.Render("✗")
			detail = " " + reportFailStyle.Render(event.Err.Error())
		}
		sb.WriteString(fmt.Sprintf("%s %s %s%s\n",
			status,
			event.TypeName,
			reportDimStyle.Render(fmt.Sprintf("(%s, %d/%d)", event.NodeID, event.Index, event.Total)),
			detail,
		))
	}

	built := 0
	for _, event := range events {
		if event.Err == nil {
			built++
		}
	}
	sb.WriteString(reportDimStyle.Render(fmt.Sprintf("%d/%d nodes built", built, len(events))))
	return sb.String()
}
