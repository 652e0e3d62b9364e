package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/crashstats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T) (*Store, *crashstats.Table) {
	t.Helper()
	table, err := crashstats.Load(context.Background(), "../testdata/crashes.csv")
	require.NoError(t, err)

	s, err := Open(context.Background(), table)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, table
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("nil table", func(t *testing.T) {
		t.Parallel()
		_, err := Open(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNilTable)
	})

	t.Run("columns", func(t *testing.T) {
		t.Parallel()
		s, _ := openFixture(t)
		assert.Equal(t, []string{
			"OBJECTID", "ACCIDENT_NO", "ACCIDENT_STATUS", "ACCIDENT_DATE", "ACCIDENT_TIME",
			"ACCIDENT_TYPE", "SEVERITY", "ALCOHOLTIME", "SPEED_ZONE", "LIGHT_CONDITION", "LONGITUDE",
			ColumnYear, ColumnHour, ColumnSpeedZone,
		}, s.Columns())
	})

	t.Run("inferred types", func(t *testing.T) {
		t.Parallel()
		s, _ := openFixture(t)
		view, err := s.Query(context.Background(),
			`SELECT typeof(OBJECTID), typeof(ACCIDENT_NO), typeof(LONGITUDE) FROM accidents WHERE OBJECTID = 1`)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"integer", "text", "real"}}, view.Rows)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		table, err := crashstats.Load(context.Background(), "../testdata/crashes.csv")
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = Open(ctx, table)
		assert.Error(t, err)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()
	s, _ := openFixture(t)
	ctx := context.Background()

	t.Run("derived columns", func(t *testing.T) {
		t.Parallel()
		view, err := s.Query(ctx,
			`SELECT ACCIDENT_NO, accident_year, accident_hour, speed_zone_kmh FROM accidents WHERE OBJECTID IN (1, 5, 8) ORDER BY OBJECTID`)
		require.NoError(t, err)
		assert.Equal(t, []string{"ACCIDENT_NO", "accident_year", "accident_hour", "speed_zone_kmh"}, view.Columns)
		assert.Equal(t, [][]string{
			{"T20150001", "2015", "8", "60"},
			{"T20150005", "2015", "", ""},
			{"T20170001", "", "10", "60"},
		}, view.Rows)
	})

	t.Run("null group renders as empty cell", func(t *testing.T) {
		t.Parallel()
		view, err := s.Query(ctx,
			`SELECT speed_zone_kmh, COUNT(*) FROM accidents WHERE accident_year = 2015 GROUP BY 1 ORDER BY 1`)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"", "1"}, {"50", "1"}, {"60", "1"}, {"100", "2"}}, view.Rows)
	})

	t.Run("args", func(t *testing.T) {
		t.Parallel()
		view, err := s.Query(ctx, `SELECT COUNT(*) FROM accidents WHERE accident_year = ?`, 2016)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"2"}}, view.Rows)
	})

	t.Run("empty query", func(t *testing.T) {
		t.Parallel()
		_, err := s.Query(ctx, "  ")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		_, err := s.Query(ctx, "SELEC nothing")
		assert.Error(t, err)
	})
}

func TestAggregatesMatchCore(t *testing.T) {
	t.Parallel()
	s, table := openFixture(t)
	ctx := context.Background()

	for _, year := range []int{2013, 2015, 2016, 2017, 2019} {
		records := crashstats.FilterByYear(table.Records(), year)

		hours, err := s.CountByHour(ctx, year)
		require.NoError(t, err)
		if diff := cmp.Diff(crashstats.CountByHour(records), hours); diff != "" {
			t.Errorf("CountByHour(%d) mismatch (-core +store):\n%s", year, diff)
		}

		zones, err := s.CountBySpeedZone(ctx, year)
		require.NoError(t, err)
		if diff := cmp.Diff(crashstats.CountBySpeedZone(records), zones); diff != "" {
			t.Errorf("CountBySpeedZone(%d) mismatch (-core +store):\n%s", year, diff)
		}
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	table, err := crashstats.Load(context.Background(), "../testdata/crashes.csv")
	require.NoError(t, err)
	s, err := Open(context.Background(), table)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.CountByHour(context.Background(), 2015)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   columnType
	}{
		{name: "integers", values: []string{"1", "-2", "+3", ""}, want: columnTypeInteger},
		{name: "reals", values: []string{"1.5", "2", "3e2"}, want: columnTypeReal},
		{name: "text", values: []string{"T1", "T2"}, want: columnTypeText},
		{name: "mixed", values: []string{"1", "two", "3"}, want: columnTypeText},
		{name: "all empty", values: []string{"", " "}, want: columnTypeText},
		{name: "nan is text", values: []string{"NaN", "Inf"}, want: columnTypeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, inferColumnType(tt.values))
		})
	}
}

func TestUniqueIdentifiers(t *testing.T) {
	t.Parallel()

	got := uniqueIdentifiers(
		[]string{"Speed Zone", "speed-zone", "1st", "", "accident_year", "LIGHT.CONDITION"},
		ColumnYear,
	)
	assert.Equal(t, []string{"Speed_Zone", "speed_zone_2", "column_1st", "column", "accident_year_2", "LIGHT_CONDITION"}, got)
}
