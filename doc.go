// Package crashstats provides the data layer of an accident statistics dashboard.
//
// A dataset of accident records (the Victorian "Crash Statistics" export, or any
// file with the same columns) is loaded once into an immutable Table. Views are
// pure functions over the table: they filter by year and accident category and
// count by hour of day, alcohol involvement and speed zone.
//
// # Loading
//
// The simplest way to load a dataset is Load:
//
//	table, err := crashstats.Load(ctx, "Crash Statistics Victoria.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For readers, embedded filesystems or logging, use the Loader builder:
//
//	table, err := crashstats.NewLoader().
//	    FromFS(dataFS, "crashes.csv.gz").
//	    WithLogger(logger).
//	    Load(ctx)
//
// CSV, TSV, LTSV, Parquet and XLSX files are supported, each optionally
// compressed with gzip, bzip2, xz or zstd.
//
// # Lenient parsing
//
// ACCIDENT_DATE is parsed as day/month/year and ACCIDENT_TIME as
// hour.minute.second. Values that do not parse are kept as absent
// (sql.NullTime with Valid false); the record is then left out of every view
// that needs the value, and nothing else.
//
// # Filtering and aggregation
//
//	records := crashstats.FilterByYear(table.Records(), 2015)
//	collisions := crashstats.FilterByCategory(records, "Collision")
//	hourly := crashstats.CountByHour(records)
//	split := crashstats.SplitAlcohol(records)
//	zones := crashstats.CountBySpeedZone(records)
//
// None of these functions modify their input.
//
// # Views and export
//
// Explorer turns the results into the fixed tables and charts of the dashboard,
// and WriteView / SaveView export any view as CSV, TSV, LTSV or XLSX.
package crashstats
