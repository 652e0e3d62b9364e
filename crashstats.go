package crashstats

import (
	"context"
)

// Load reads the dataset at path with default settings.
//
// The format is detected from the extension (.csv, .tsv, .ltsv, .parquet, .xlsx,
// optionally compressed with .gz, .bz2, .xz or .zst). Dates and times that cannot
// be parsed are kept as absent values; the load only fails when the file cannot
// be read, has no records or lacks one of RequiredColumns.
//
// Example usage:
//
//	table, err := crashstats.Load(ctx, "Crash Statistics Victoria.csv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	explorer := crashstats.NewExplorer(table)
//	view, chart := explorer.AccidentsPerHour(2015)
func Load(ctx context.Context, path string) (*Table, error) {
	return NewLoader().FromPath(path).Load(ctx)
}
