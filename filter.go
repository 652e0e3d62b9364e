package crashstats

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category labels offered by the dashboard's accident type selector.
const (
	CategoryCollision   = "Collision"
	CategoryAnimal      = "Animal"
	CategoryPedestrian  = "Pedestrian"
	CategoryNoCollision = "No Collision"
)

// DefaultCategories is the fixed category set of the dashboard.
var DefaultCategories = []string{
	CategoryCollision,
	CategoryAnimal,
	CategoryPedestrian,
	CategoryNoCollision,
}

// Default bounds of the year selector.
const (
	DefaultYearMin = 2013
	DefaultYearMax = 2019
)

// fold returns the Unicode case folding of s.
// A new Caser is created per call because Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

// FilterByYear keeps the records whose parsed date falls in year.
// Records with an unparseable date are excluded.
func FilterByYear(records []Record, year int) []Record {
	filtered := make([]Record, 0)
	for _, rec := range records {
		if y, ok := rec.Year(); ok && y == year {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// FilterByCategory keeps the records whose accident type contains category,
// ignoring case. Records with an empty type are always excluded.
func FilterByCategory(records []Record, category string) []Record {
	needle := fold(category)
	filtered := make([]Record, 0)
	for _, rec := range records {
		if rec.Type == "" {
			continue
		}
		if strings.Contains(fold(rec.Type), needle) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// FilterAlcoholInvolved keeps the records whose alcohol flag is "yes", ignoring case.
func FilterAlcoholInvolved(records []Record) []Record {
	filtered := make([]Record, 0)
	for _, rec := range records {
		if isFlag(rec.Alcohol, flagYes) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
