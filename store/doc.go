// Package store mirrors a crashstats.Table into an in-memory SQLite database.
//
// Every column of the source file becomes a column of the "accidents" table,
// with INTEGER, REAL or TEXT inferred from the data. Three derived columns,
// accident_year, accident_hour and speed_zone_kmh, hold the values the
// dashboard filters and groups on, or NULL when the source text does not parse.
//
//	st, err := store.Open(ctx, table)
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	view, err := st.Query(ctx, `SELECT SEVERITY, COUNT(*) FROM accidents GROUP BY SEVERITY`)
package store
