package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/magsim/internal/config"
	"github.com/san-kum/magsim/internal/superpose"
)

var (
	title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	label = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	value = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	warn  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	box   = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(0, 1)
)

func printStats(sc *config.Scene, st superpose.Stats) {
	row := func(k, v string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, label.Width(12).Render(k), value.Render(v))
	}

	nonFinite := value.Render("0")
	if st.NonFinite > 0 {
		nonFinite = warn.Render(fmt.Sprint(st.NonFinite))
	}

	lines := []string{
		title.Render(sc.Name),
		row("sources", describeKinds(sc.Sources)),
		row("x", fmt.Sprintf("[%g, %g]", sc.Grid.X.Min, sc.Grid.X.Max)),
		row("y", fmt.Sprintf("[%g, %g]", sc.Grid.Y.Min, sc.Grid.Y.Max)),
		row("points", fmt.Sprint(st.Points)),
		lipgloss.JoinHorizontal(lipgloss.Top, label.Width(12).Render("non-finite"), nonFinite),
		row("min |B|", fmt.Sprintf("%.4e T", st.MinMag)),
		row("max |B|", fmt.Sprintf("%.4e T", st.MaxMag)),
		row("mean |B|", fmt.Sprintf("%.4e T", st.MeanMag)),
	}
	fmt.Println(box.Render(strings.Join(lines, "\n")))
}

// describeKinds summarises sources as e.g. "solenoid, dipole".
func describeKinds(sources []config.SourceConfig) string {
	if len(sources) == 0 {
		return "none"
	}
	kinds := make([]string, len(sources))
	for i, s := range sources {
		kinds[i] = s.Kind
	}
	return strings.Join(kinds, ", ")
}
