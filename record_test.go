package crashstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text  string
		valid bool
		want  string
	}{
		{text: "1/1/2015", valid: true, want: "2015-01-01"},
		{text: "01/02/2016", valid: true, want: "2016-02-01"},
		{text: " 31/12/2019 ", valid: true, want: "2019-12-31"},
		{text: "2015-01-01", valid: false},
		{text: "31/2/2015", valid: false},
		{text: "12/31/2015", valid: false},
		{text: "", valid: false},
		{text: "not a date", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got := parseDate(tt.text)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, got.Time.Format(displayDateLayout))
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text  string
		valid bool
		hour  int
	}{
		{text: "08.30.00", valid: true, hour: 8},
		{text: "00.00.00", valid: true, hour: 0},
		{text: "23.59.59", valid: true, hour: 23},
		{text: "8.5.0", valid: true, hour: 8},
		{text: " 7.45.30 ", valid: true, hour: 7},
		{text: "24.00.00", valid: false},
		{text: "08.60.00", valid: false},
		{text: "08.30.60", valid: false},
		{text: "008.30.00", valid: false},
		{text: "08.30", valid: false},
		{text: "08.30.00.00", valid: false},
		{text: "+8.30.00", valid: false},
		{text: "08..00", valid: false},
		{text: "08:30:00", valid: false},
		{text: "bad", valid: false},
		{text: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got := parseTime(tt.text)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.hour, got.Time.Hour())
				assert.Equal(t, time.UTC, got.Time.Location())
			}
		})
	}
}

func TestParseSpeedZone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		zone int
		ok   bool
	}{
		{text: "60 km/hr", zone: 60, ok: true},
		{text: "100", zone: 100, ok: true},
		{text: "zone 040", zone: 40, ok: true},
		{text: "Other speed limit", ok: false},
		{text: "Not known", ok: false},
		{text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			zone, ok := parseSpeedZone(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.zone, zone)
		})
	}
}

func TestRecord_Accessors(t *testing.T) {
	t.Parallel()

	rec := record("2/7/2015", "23.10.00", "Struck Pedestrian", "Yes", "50 km/hr")

	year, ok := rec.Year()
	require.True(t, ok)
	assert.Equal(t, 2015, year)

	hour, ok := rec.Hour()
	require.True(t, ok)
	assert.Equal(t, 23, hour)

	zone, ok := rec.SpeedZoneKmh()
	require.True(t, ok)
	assert.Equal(t, 50, zone)

	assert.Equal(t, "2015-07-02", rec.DateString())
	assert.Equal(t, "2/7/2015", rec.DateText)
	assert.Equal(t, "23.10.00", rec.TimeText)
}

func TestRecord_AbsentValues(t *testing.T) {
	t.Parallel()

	rec := record("unknown", "", "Collision", "No", "n/a")

	_, ok := rec.Year()
	assert.False(t, ok)
	_, ok = rec.Hour()
	assert.False(t, ok)
	_, ok = rec.SpeedZoneKmh()
	assert.False(t, ok)
	assert.Empty(t, rec.DateString())
}

func TestRecord_RowIsACopy(t *testing.T) {
	t.Parallel()

	rec := record("1/1/2015", "08.00.00", "Collision", "No", "60")
	row := rec.Row()
	row[0] = "changed"
	assert.Equal(t, "1", rec.Row()[0])
}

func TestNewColumnIndex(t *testing.T) {
	t.Parallel()

	t.Run("case-insensitive match in any order", func(t *testing.T) {
		t.Parallel()
		h := newHeader([]string{
			"speed_zone", "alcoholtime", "Severity", "accident_type", "ACCIDENT_TIME",
			"Accident_Date", "EXTRA", "accident_status", "accident_no", "objectid",
		})
		idx, missing := newColumnIndex(h)
		assert.Empty(t, missing)
		assert.Equal(t, 0, idx.speedZone)
		assert.Equal(t, 9, idx.objectID)
	})

	t.Run("reports every missing column", func(t *testing.T) {
		t.Parallel()
		_, missing := newColumnIndex(newHeader([]string{ColumnObjectID, ColumnDate}))
		assert.Equal(t, []string{
			ColumnAccidentNo, ColumnStatus, ColumnTime, ColumnType, ColumnSeverity, ColumnAlcohol, ColumnSpeedZone,
		}, missing)
	})
}
