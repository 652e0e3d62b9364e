package crashstats

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Column names of the crash statistics dataset.
const (
	// ColumnObjectID is the record identifier column
	ColumnObjectID = "OBJECTID"
	// ColumnAccidentNo is the accident number column
	ColumnAccidentNo = "ACCIDENT_NO"
	// ColumnStatus is the accident status column
	ColumnStatus = "ACCIDENT_STATUS"
	// ColumnDate is the accident date column, day/month/year
	ColumnDate = "ACCIDENT_DATE"
	// ColumnTime is the accident time column, hour.minute.second
	ColumnTime = "ACCIDENT_TIME"
	// ColumnType is the free-text accident type column
	ColumnType = "ACCIDENT_TYPE"
	// ColumnSeverity is the severity column
	ColumnSeverity = "SEVERITY"
	// ColumnAlcohol is the alcohol-involvement flag column (yes/no)
	ColumnAlcohol = "ALCOHOLTIME"
	// ColumnSpeedZone is the posted speed zone column, text with an embedded number
	ColumnSpeedZone = "SPEED_ZONE"
)

// RequiredColumns lists the columns every dataset must carry.
var RequiredColumns = []string{
	ColumnObjectID,
	ColumnAccidentNo,
	ColumnStatus,
	ColumnDate,
	ColumnTime,
	ColumnType,
	ColumnSeverity,
	ColumnAlcohol,
	ColumnSpeedZone,
}

// Layouts of the date and time columns.
const (
	// DateLayout parses ACCIDENT_DATE; zero padding is optional.
	DateLayout = "2/1/2006"
	// timeSeparator splits ACCIDENT_TIME into hour, minute and second.
	timeSeparator = "."
	// displayDateLayout renders dates in views and exports.
	displayDateLayout = "2006-01-02"
)

// digitRun matches the first run of digits in a speed zone.
var digitRun = regexp.MustCompile(`\d+`)

// Record is one accident report.
// Date and Time hold the parsed values; Valid is false when the text could not be parsed.
type Record struct {
	ObjectID   string
	AccidentNo string
	Status     string
	Date       sql.NullTime
	DateText   string
	Time       sql.NullTime
	TimeText   string
	Type       string
	Severity   string
	Alcohol    string
	SpeedZone  string

	row Row
}

// Year returns the year of the accident date.
func (r Record) Year() (int, bool) {
	if !r.Date.Valid {
		return 0, false
	}
	return r.Date.Time.Year(), true
}

// Hour returns the hour of the accident time.
func (r Record) Hour() (int, bool) {
	if !r.Time.Valid {
		return 0, false
	}
	return r.Time.Time.Hour(), true
}

// SpeedZoneKmh returns the first number embedded in the speed zone text.
func (r Record) SpeedZoneKmh() (int, bool) {
	return parseSpeedZone(r.SpeedZone)
}

// DateString renders the date as YYYY-MM-DD, or "" when it is absent.
func (r Record) DateString() string {
	if !r.Date.Valid {
		return ""
	}
	return r.Date.Time.Format(displayDateLayout)
}

// Row returns a copy of the raw fields the record was built from.
func (r Record) Row() Row {
	row := make(Row, len(r.row))
	copy(row, r.row)
	return row
}

// parseDate parses a day/month/year date. Unparseable text yields an invalid value.
func parseDate(text string) sql.NullTime {
	t, err := time.Parse(DateLayout, strings.TrimSpace(text))
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// parseTime parses an hour.minute.second time. Each field has one or two
// digits, so "8.5.0" and "08.05.00" are the same time. Unparseable text yields
// an invalid value.
func parseTime(text string) sql.NullTime {
	fields := strings.Split(strings.TrimSpace(text), timeSeparator)
	if len(fields) != 3 {
		return sql.NullTime{}
	}

	var clock [3]int
	limits := [3]int{23, 59, 59}
	for i, field := range fields {
		n, ok := parseClockField(field)
		if !ok || n > limits[i] {
			return sql.NullTime{}
		}
		clock[i] = n
	}
	return sql.NullTime{
		Time:  time.Date(0, time.January, 1, clock[0], clock[1], clock[2], 0, time.UTC),
		Valid: true,
	}
}

// parseClockField parses a one or two digit time field.
func parseClockField(field string) (int, bool) {
	if len(field) == 0 || len(field) > 2 {
		return 0, false
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseSpeedZone extracts the first run of digits from text.
func parseSpeedZone(text string) (int, bool) {
	digits := digitRun.FindString(text)
	if digits == "" {
		return 0, false
	}
	zone, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return zone, true
}

// columnIndex holds the header position of each required column.
type columnIndex struct {
	objectID, accidentNo, status, date, time, accidentType, severity, alcohol, speedZone int
}

// newColumnIndex resolves every required column against h.
func newColumnIndex(h header) (columnIndex, []string) {
	var missing []string
	lookup := func(name string) int {
		i := h.index(name)
		if i < 0 {
			missing = append(missing, name)
		}
		return i
	}

	idx := columnIndex{
		objectID:     lookup(ColumnObjectID),
		accidentNo:   lookup(ColumnAccidentNo),
		status:       lookup(ColumnStatus),
		date:         lookup(ColumnDate),
		time:         lookup(ColumnTime),
		accidentType: lookup(ColumnType),
		severity:     lookup(ColumnSeverity),
		alcohol:      lookup(ColumnAlcohol),
		speedZone:    lookup(ColumnSpeedZone),
	}
	return idx, missing
}

// newRecord builds a Record from a raw row, coercing the date and time fields.
func (idx columnIndex) newRecord(row Row) Record {
	dateText := row.value(idx.date)
	timeText := row.value(idx.time)
	return Record{
		ObjectID:   row.value(idx.objectID),
		AccidentNo: row.value(idx.accidentNo),
		Status:     row.value(idx.status),
		Date:       parseDate(dateText),
		DateText:   dateText,
		Time:       parseTime(timeText),
		TimeText:   timeText,
		Type:       row.value(idx.accidentType),
		Severity:   row.value(idx.severity),
		Alcohol:    row.value(idx.alcohol),
		SpeedZone:  row.value(idx.speedZone),
		row:        row,
	}
}
