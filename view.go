package crashstats

import (
	"fmt"
	"strconv"
	"strings"
)

// ViewKind identifies one of the derived views of the dashboard.
type ViewKind int

const (
	// ViewYear is the table of accidents in the selected year
	ViewYear ViewKind = iota
	// ViewAccidentType is the table of accidents of the selected category in the selected year
	ViewAccidentType
	// ViewHourly is the accidents-per-hour table and bar chart
	ViewHourly
	// ViewAlcohol is the alcohol-involved accidents table and pie chart
	ViewAlcohol
	// ViewSpeedZones is the accidents-per-speed-zone table and bar chart
	ViewSpeedZones
)

// viewNames are the command line names of each ViewKind.
var viewNames = map[ViewKind]string{
	ViewYear:         "year",
	ViewAccidentType: "type",
	ViewHourly:       "hourly",
	ViewAlcohol:      "alcohol",
	ViewSpeedZones:   "speed-zones",
}

// String returns the command line name of the view
func (k ViewKind) String() string {
	if name, ok := viewNames[k]; ok {
		return name
	}
	return "unknown"
}

// ViewKinds returns every view in dashboard order.
func ViewKinds() []ViewKind {
	return []ViewKind{ViewYear, ViewAccidentType, ViewHourly, ViewAlcohol, ViewSpeedZones}
}

// ParseViewKind converts a command line name to a ViewKind.
func ParseViewKind(name string) (ViewKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range ViewKinds() {
		if viewNames[k] == name {
			return k, nil
		}
	}
	return ViewYear, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// Column headings of the aggregate views.
const (
	HeadingHour           = "Hour"
	HeadingAccidents      = "Accidents"
	HeadingSpeedZone      = "Speed Zone (Km/h)"
	HeadingTotalAccidents = "Total Accidents"
)

// Projections of the record views.
var (
	yearColumns    = []string{ColumnObjectID, ColumnAccidentNo, ColumnStatus, ColumnDate, ColumnTime, ColumnSeverity}
	typeColumns    = []string{ColumnObjectID, ColumnAccidentNo, ColumnType, ColumnDate, ColumnTime, ColumnSeverity}
	alcoholColumns = []string{ColumnObjectID, ColumnAccidentNo, ColumnType, ColumnDate, ColumnSeverity}
)

// View is a rendered table: a title, column headings and string cells.
type View struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows.
func (v *View) Len() int {
	return len(v.Rows)
}

// Selection is the state of the dashboard controls.
type Selection struct {
	Year     int
	Category string
}

// Explorer derives views from an immutable Table. It holds no other state,
// so every call recomputes its view from the table.
type Explorer struct {
	table *Table
}

// NewExplorer creates an Explorer over table.
func NewExplorer(table *Table) *Explorer {
	return &Explorer{table: table}
}

// Table returns the underlying table.
func (e *Explorer) Table() *Table {
	return e.table
}

// yearRecords is the shared first step of every view.
func (e *Explorer) yearRecords(year int) []Record {
	return FilterByYear(e.table.Records(), year)
}

// YearData lists the accidents of year.
func (e *Explorer) YearData(year int) *View {
	return project(fmt.Sprintf("Data for %d", year), yearColumns, e.yearRecords(year))
}

// AccidentTypeData lists the accidents of year whose type contains category.
func (e *Explorer) AccidentTypeData(year int, category string) *View {
	records := FilterByCategory(e.yearRecords(year), category)
	return project(fmt.Sprintf("%s accidents in %d", category, year), typeColumns, records)
}

// AccidentsPerHour returns the hourly counts of year as a table and a bar chart.
func (e *Explorer) AccidentsPerHour(year int) (*View, *Chart) {
	counts := CountByHour(e.yearRecords(year))

	view := &View{
		Title:   fmt.Sprintf("Accidents per Hour in %d", year),
		Columns: []string{HeadingHour, HeadingAccidents},
	}
	for _, b := range counts.Ascending() {
		view.Rows = append(view.Rows, []string{strconv.Itoa(b.Key), strconv.Itoa(b.Count)})
	}
	return view, HourlyChart(year, counts)
}

// AlcoholImpacts lists the alcohol-involved accidents of year and returns the
// with/without split as a pie chart.
func (e *Explorer) AlcoholImpacts(year int) (*View, *Chart) {
	records := e.yearRecords(year)
	view := project(fmt.Sprintf("Alcohol related accidents in %d", year), alcoholColumns, FilterAlcoholInvolved(records))
	return view, AlcoholChart(year, SplitAlcohol(records))
}

// SpeedZones returns the per-zone counts of year, most frequent zone first,
// as a table and a bar chart.
func (e *Explorer) SpeedZones(year int) (*View, *Chart) {
	counts := CountBySpeedZone(e.yearRecords(year))

	view := &View{
		Title:   fmt.Sprintf("Total Accidents per Speed Zone in %d", year),
		Columns: []string{HeadingSpeedZone, HeadingTotalAccidents},
	}
	for _, b := range counts.ByCountDesc() {
		view.Rows = append(view.Rows, []string{strconv.Itoa(b.Key), strconv.Itoa(b.Count)})
	}
	return view, SpeedZoneChart(year, counts)
}

// Render computes the view of kind for sel. The chart is nil for table-only views.
func (e *Explorer) Render(kind ViewKind, sel Selection) (*View, *Chart, error) {
	switch kind {
	case ViewYear:
		return e.YearData(sel.Year), nil, nil
	case ViewAccidentType:
		return e.AccidentTypeData(sel.Year, sel.Category), nil, nil
	case ViewHourly:
		view, chart := e.AccidentsPerHour(sel.Year)
		return view, chart, nil
	case ViewAlcohol:
		view, chart := e.AlcoholImpacts(sel.Year)
		return view, chart, nil
	case ViewSpeedZones:
		view, chart := e.SpeedZones(sel.Year)
		return view, chart, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownView, kind)
	}
}

// project renders records onto columns.
func project(title string, columns []string, records []Record) *View {
	view := &View{
		Title:   title,
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = fieldOf(rec, col)
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// fieldOf returns the display value of one of the dataset columns.
func fieldOf(rec Record, column string) string {
	switch column {
	case ColumnObjectID:
		return rec.ObjectID
	case ColumnAccidentNo:
		return rec.AccidentNo
	case ColumnStatus:
		return rec.Status
	case ColumnDate:
		return rec.DateString()
	case ColumnTime:
		return rec.TimeText
	case ColumnType:
		return rec.Type
	case ColumnSeverity:
		return rec.Severity
	case ColumnAlcohol:
		return rec.Alcohol
	case ColumnSpeedZone:
		return rec.SpeedZone
	default:
		return ""
	}
}
