package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/muesli/termenv"
)

const (
	colorPrimary   = "#f472b6"
	colorSecondary = "#818cf8"
	colorSorted    = "#34d399"
	colorHidden    = "#6b7280"

	minBarWidth = 8
)

// RenderStep draws one step as a horizontal bar chart, one row per array slot.
// Rows under the primary and secondary markers are coloured and tagged with the
// algorithm's marker names. Counting sort steps get the counter table underneath.
func RenderStep(step domain.Step, index, total int, p termenv.Profile, width int) string {
	var b strings.Builder

	header := fmt.Sprintf("%s  step %d/%d  %s", step.Algorithm, index+1, total, step.Animation)
	if step.Completed {
		header += "  (completed)"
	}
	b.WriteString(p.String(header).Bold().String())
	b.WriteByte('\n')

	primaryName, secondaryName := domain.MarkerNames(step.Algorithm)
	maxAbs := 1
	for _, v := range step.Array {
		maxAbs = max(maxAbs, abs(v))
	}
	barWidth := max(minBarWidth, width-24)

	for i, v := range step.Array {
		n := abs(v) * barWidth / maxAbs
		if v != 0 && n == 0 {
			n = 1
		}
		bar := strings.Repeat("█", n)
		if v < 0 {
			bar = strings.Repeat("░", n)
		}

		var tags []string
		style := p.String(bar)
		switch {
		case i == step.Primary:
			style = style.Foreground(p.Color(colorPrimary))
			tags = append(tags, primaryName)
			if i == step.Secondary && secondaryName != "" {
				tags = append(tags, secondaryName)
			}
		case i == step.Secondary && secondaryName != "":
			style = style.Foreground(p.Color(colorSecondary))
			tags = append(tags, secondaryName)
		case slices.Contains(step.SortedIndices, i):
			style = style.Foreground(p.Color(colorSorted))
		}
		if step.Counting != nil && i < len(step.Counting.ArrayVisibility) && step.Counting.ArrayVisibility[i] == 0 {
			style = p.String(strings.Repeat("·", max(n, 1))).Foreground(p.Color(colorHidden))
		}

		line := fmt.Sprintf("%3d %5d  %s", i, v, style)
		if len(tags) > 0 {
			line += "  ◀ " + strings.Join(tags, ", ")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if c := step.Counting; c != nil && c.ShowCountArray {
		b.WriteString(renderCounter(c))
	}
	return b.String()
}

func renderCounter(c *domain.CountingFrame) string {
	var values, counts strings.Builder
	for i, n := range c.Counter {
		fmt.Fprintf(&values, "%4d", c.CounterBase+i)
		fmt.Fprintf(&counts, "%4d", n)
	}
	return "value " + values.String() + "\ncount " + counts.String() + "\n"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
