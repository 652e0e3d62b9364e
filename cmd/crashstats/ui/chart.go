package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/crashstats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Chart drawing constants
const (
	barRune      = "█"
	defaultWidth = 40
	minBarWidth  = 10
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

// RenderChart draws chart as text, at most width columns wide.
func RenderChart(chart *crashstats.Chart, width int, styles Styles) string {
	if chart == nil {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(chart.Title))
	sb.WriteString("\n")

	switch chart.Kind {
	case crashstats.ChartPie:
		renderPie(&sb, chart, width, styles)
	default:
		renderBars(&sb, chart, width, styles)
	}
	return sb.String()
}

// renderBars draws one horizontal bar per point, scaled to the largest value.
func renderBars(sb *strings.Builder, chart *crashstats.Chart, width int, styles Styles) {
	labelWidth := lipgloss.Width(chart.XLabel)
	valueWidth := lipgloss.Width(chart.YLabel)
	for _, p := range chart.Points {
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
		valueWidth = max(valueWidth, lipgloss.Width(printer.Sprintf("%d", p.Value)))
	}
	barWidth := max(width-labelWidth-valueWidth-4, minBarWidth)

	label := lipgloss.NewStyle().Width(labelWidth).Align(lipgloss.Right)
	value := lipgloss.NewStyle().Width(valueWidth).Align(lipgloss.Right)

	sb.WriteString(styles.Muted.Render(label.Render(chart.XLabel) + "  " + value.Render(chart.YLabel)))
	sb.WriteString("\n")

	largest := chart.Max()
	for _, p := range chart.Points {
		n := 0
		if largest > 0 {
			n = p.Value * barWidth / largest
		}
		if n == 0 && p.Value > 0 {
			n = 1
		}
		sb.WriteString(label.Render(p.Label))
		sb.WriteString("  ")
		sb.WriteString(value.Render(printer.Sprintf("%d", p.Value)))
		sb.WriteString(" ")
		sb.WriteString(styles.Bar.Render(strings.Repeat(barRune, n)))
		sb.WriteString("\n")
	}
}

// renderPie draws a pie as a stacked share bar and a legend with percentages
// to one decimal.
func renderPie(sb *strings.Builder, chart *crashstats.Chart, width int, styles Styles) {
	if chart.Total() == 0 {
		sb.WriteString(styles.Muted.Render(emptyMessage))
		sb.WriteString("\n")
		return
	}

	shares := chart.Percentages()
	barWidth := max(width, minBarWidth)
	for i, share := range shares {
		n := int(share * float64(barWidth) / 100)
		sb.WriteString(sliceStyle(i).Render(strings.Repeat(barRune, n)))
	}
	sb.WriteString("\n")

	for i, p := range chart.Points {
		sb.WriteString(sliceStyle(i).Render(barRune))
		sb.WriteString(printer.Sprintf(" %s: %d (%.1f%%)\n", p.Label, p.Value, shares[i]))
	}
}

// sliceStyle colors the i-th pie slice.
func sliceStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ChartColors[i%len(ChartColors)])
}
