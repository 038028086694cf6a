package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/aglogen/internal/agg"
	"github.com/san-kum/aglogen/internal/boxcount"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffaa00"))

	Good = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ff88"))
)

func metricLine(label string, format string, args ...any) string {
	return Label.Render(label) + " " + Value.Render(fmt.Sprintf(format, args...))
}

// SummaryPanel formats the morphology summary of one finished run.
func SummaryPanel(res *agg.Result) string {
	s := res.Summary
	lines := []string{
		Title.Render(fmt.Sprintf("%s aggregate, %d particles", res.Params.Algorithm, len(res.Particles))),
		"",
		metricLine("fractal dimension ", "%.3f +/- %.3f", s.Df, s.DfStdErr),
		metricLine("prefactor         ", "%.3f", s.Kf),
		metricLine("fit R^2           ", "%.4f", s.R2),
		metricLine("radius of gyration", "%.3f", s.Rg),
		metricLine("porosity          ", "%.3f", s.Porosity),
		metricLine("mean coordination ", "%.2f +/- %.2f", s.CoordinationMean, s.CoordinationStd),
		metricLine("anisotropy        ", "%.3f", s.Anisotropy),
	}
	if s.Components == 1 {
		lines = append(lines, Good.Render("connected"))
	} else {
		lines = append(lines, Warn.Render(fmt.Sprintf("%d components", s.Components)))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// AnalysisPanel formats a box-counting result.
func AnalysisPanel(res *boxcount.Result) string {
	lines := []string{
		Title.Render("surface box counting"),
		"",
		metricLine("dimension    ", "%.3f +/- %.3f", res.Df, res.CI95),
		metricLine("fit R^2      ", "%.4f", res.R2),
		metricLine("scales used  ", "%d of %d", res.Used, len(res.Levels)),
	}
	if !res.Reliable {
		lines = append(lines, Warn.Render("unreliable: too few usable scales"))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}
