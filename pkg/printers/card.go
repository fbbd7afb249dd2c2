package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/rpt/pkg/checkin"
	"tableflip.dev/rpt/pkg/countdown"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("108")).
			Padding(0, 2)
	cardTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("108"))
	cardHeading = lipgloss.NewStyle().Bold(true).MarginTop(1)
	cardMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardSoon    = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
)

// CheckInCard renders the daily check-in as a bordered card. Empty sections
// are left out.
func CheckInCard(s checkin.Summary, now time.Time) string {
	lines := []string{cardTitle.Render("Good day, researcher")}

	if len(s.Upcoming) > 0 {
		lines = append(lines, cardHeading.Render("Coming up soon"))
		for _, d := range s.Upcoming {
			label := countdown.Classify(d.Datetime.Time, now).Label
			lines = append(lines, fmt.Sprintf("  · %s  %s", d.Name, cardSoon.Render(label)))
		}
	}
	if len(s.Overdue) > 0 {
		lines = append(lines, cardHeading.Render("Slipped past, no rush"))
		for _, d := range s.Overdue {
			lines = append(lines, cardMuted.Render("  · "+d.Name))
		}
	}
	if len(s.Stale) > 0 {
		lines = append(lines, cardHeading.Render("Been quiet for a while"))
		for _, sp := range s.Stale {
			lines = append(lines, cardMuted.Render(fmt.Sprintf("  · %s (%d days)", sp.Project.Title, sp.Days)))
		}
	}
	if len(s.TopActions) > 0 {
		lines = append(lines, cardHeading.Render("Today's focus"))
		for _, p := range s.TopActions {
			lines = append(lines, fmt.Sprintf("  · %s %s", p.NextAction, cardMuted.Render("("+p.Title+")")))
		}
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// CheckIn prints the card followed by a blank line.
func (pp *PrettyPrint) CheckIn(s checkin.Summary) {
	_, _ = fmt.Fprintln(pp.out(), CheckInCard(s, pp.now()))
	pp.NewLine()
}
