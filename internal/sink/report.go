package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	errgo "gopkg.in/errgo.v1"

	"ising/internal/analysis"
	"ising/internal/sims/ising"
)

const sparkWidth = 60

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(24)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// WriteReport prints the outcome counters of a run, the relative spin count and,
// when a trace was kept, a plot of it together with its summary.
func WriteReport(w io.Writer, cfg ising.Config, res ising.Result, sum *analysis.Summary) error {
	sites := float64(cfg.Sites())
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	count := func(n uint64) string {
		return fmt.Sprintf("%d (%6.2f%%)", n, 100*res.Stats.Fraction(n))
	}

	rows := []string{
		headerStyle.Render("Ising run"),
		row("Lattice", fmt.Sprintf("%dx%d", cfg.Rows, cfg.Cols)),
		row("Beta", fmt.Sprintf("%g", cfg.Beta)),
		row("Seed", fmt.Sprintf("%d", res.Seed)),
		row("Steps", fmt.Sprintf("%d", res.Steps)),
		row("Relative count", fmt.Sprintf("%d (m = %.4f)", res.Magnetization, float64(res.Magnetization)/sites)),
		row("Energy per site", fmt.Sprintf("%.4f", float64(res.Energy)/sites)),
		row("Accepted", count(res.Stats.Accepted)),
		row("Conditionally accepted", count(res.Stats.ConditionallyAccepted)),
		row("Rejected", count(res.Stats.Rejected)),
	}
	if res.Trace != nil {
		rows = append(rows, row("Trace", fmt.Sprintf("%d entries, every %d steps", res.Trace.Len(), res.Trace.Every())))
	}
	if res.Trace != nil && res.Trace.Len() > 1 {
		s := Downsample(res.Trace, sparkWidth/2)
		plot := asciigraph.Plot(s.Values,
			asciigraph.Height(6),
			asciigraph.Width(sparkWidth),
			asciigraph.Caption("relative spin count"))
		rows = append(rows, graphStyle.Render(plot))
	}
	if sum != nil && sum.N > 0 {
		rows = append(rows,
			row("<m>", fmt.Sprintf("%.4f +/- %.4f", sum.Mean, sum.StdDev)),
			row("<|m|>", fmt.Sprintf("%.4f", sum.AbsMean)),
			row("Autocorrelation time", fmt.Sprintf("%.1f entries (%.0f independent)", sum.Tau, sum.EffectiveSamples())),
		)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errgo.Notef(err, "write report")
	}
	return nil
}
