// Package tui provides the terminal front end for batch studies: a
// bubbletea progress view fed by the batch runner.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/aglogen/internal/batch"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	barDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	barRest    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// ProgressMsg reports one finished job.
type ProgressMsg struct {
	Done  int
	Total int
}

// DoneMsg carries the finished study.
type DoneMsg struct {
	Outcomes []batch.Outcome
}

type progressModel struct {
	title    string
	done     int
	total    int
	outcomes []batch.Outcome
	finished bool
	width    int
}

// NewProgress builds the study progress view.
func NewProgress(title string, total int) tea.Model {
	return progressModel{title: title, total: total, width: 60}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
	case DoneMsg:
		m.outcomes = msg.Outcomes
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	b.WriteString(m.bar() + "\n")
	b.WriteString(fmt.Sprintf("%d / %d runs\n", m.done, m.total))

	if m.finished {
		stats := batch.Aggregate(m.outcomes)
		b.WriteString("\n")
		if stats.Failed > 0 {
			b.WriteString(failStyle.Render(fmt.Sprintf("%d failed", stats.Failed)) + "\n")
		}
		if stats.Completed > 0 {
			b.WriteString(okStyle.Render(fmt.Sprintf("%d completed", stats.Completed)) + "\n")
			b.WriteString(fmt.Sprintf("Df %.3f +/- %.3f   kf %.3f   Rg %.3f\n",
				stats.MeanDf, stats.StdDf, stats.MeanKf, stats.MeanRg))
		}
	} else {
		b.WriteString(dimStyle.Render("\npress q to abort\n"))
	}
	return b.String()
}

func (m progressModel) bar() string {
	width := 40
	if m.width < 46 {
		width = m.width - 6
	}
	if width < 10 {
		width = 10
	}
	filled := 0
	if m.total > 0 {
		filled = width * m.done / m.total
	}
	return barDone.Render(strings.Repeat("█", filled)) +
		barRest.Render(strings.Repeat("░", width-filled))
}
