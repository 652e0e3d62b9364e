package crashstats

import (
	"fmt"
	"strconv"
)

// ChartKind is the drawing style of a Chart.
type ChartKind int

const (
	// ChartBar is a vertical bar chart
	ChartBar ChartKind = iota
	// ChartPie is a pie chart
	ChartPie
)

// String returns the chart kind name
func (k ChartKind) String() string {
	switch k {
	case ChartBar:
		return "bar"
	case ChartPie:
		return "pie"
	default:
		return "unknown"
	}
}

// Point is one labelled value of a chart: a bar or a pie slice.
type Point struct {
	Label string
	Value int
}

// Chart describes a chart to draw. It carries data and labels only; drawing
// is left to the presentation layer.
type Chart struct {
	Kind   ChartKind
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

// Total returns the sum of all point values.
func (c *Chart) Total() int {
	total := 0
	for _, p := range c.Points {
		total += p.Value
	}
	return total
}

// Max returns the largest point value, or 0 for an empty chart.
func (c *Chart) Max() int {
	largest := 0
	for _, p := range c.Points {
		largest = max(largest, p.Value)
	}
	return largest
}

// Percentages returns each point's share of Total in percent.
func (c *Chart) Percentages() []float64 {
	shares := make([]float64, len(c.Points))
	total := c.Total()
	if total == 0 {
		return shares
	}
	for i, p := range c.Points {
		shares[i] = float64(p.Value) * 100 / float64(total)
	}
	return shares
}

// Slice labels of the alcohol chart.
const (
	LabelWithAlcohol    = "Accidents with Alcohol Impact"
	LabelWithoutAlcohol = "Accidents without Alcohol Impact"
)

// hoursPerDay is the number of ticks on the hourly chart.
const hoursPerDay = 24

// HourlyChart draws counts as a bar per hour. Every hour 0..23 has a bar,
// hours without accidents have value 0.
func HourlyChart(year int, counts Counts) *Chart {
	chart := &Chart{
		Kind:   ChartBar,
		Title:  fmt.Sprintf("Hourly Accident Counts (24h) for %d", year),
		XLabel: HeadingHour,
		YLabel: HeadingAccidents,
		Points: make([]Point, hoursPerDay),
	}
	for hour := range hoursPerDay {
		chart.Points[hour] = Point{Label: strconv.Itoa(hour), Value: counts[hour]}
	}
	return chart
}

// AlcoholChart draws the with/without alcohol split as a pie.
func AlcoholChart(year int, split AlcoholSplit) *Chart {
	return &Chart{
		Kind:  ChartPie,
		Title: fmt.Sprintf("Alcohol Impacts in %d", year),
		Points: []Point{
			{Label: LabelWithAlcohol, Value: split.Yes},
			{Label: LabelWithoutAlcohol, Value: split.No},
		},
	}
}

// SpeedZoneChart draws one bar per speed zone, most frequent zone first.
func SpeedZoneChart(year int, counts Counts) *Chart {
	chart := &Chart{
		Kind:   ChartBar,
		Title:  fmt.Sprintf("Total Accidents per Speed Zone in %d", year),
		XLabel: HeadingSpeedZone,
		YLabel: HeadingTotalAccidents,
	}
	for _, b := range counts.ByCountDesc() {
		chart.Points = append(chart.Points, Point{Label: strconv.Itoa(b.Key), Value: b.Count})
	}
	return chart
}
