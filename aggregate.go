package crashstats

import (
	"sort"
	"strings"
)

// Alcohol flag values, compared lower-cased.
const (
	flagYes = "yes"
	flagNo  = "no"
)

// Counts maps a numeric key (hour of day, speed zone) to a record count.
type Counts map[int]int

// Bucket is one key of Counts with its count.
type Bucket struct {
	Key   int
	Count int
}

// Keys returns the keys in ascending order.
func (c Counts) Keys() []int {
	keys := make([]int, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Ascending returns the buckets ordered by key.
func (c Counts) Ascending() []Bucket {
	buckets := make([]Bucket, 0, len(c))
	for _, k := range c.Keys() {
		buckets = append(buckets, Bucket{Key: k, Count: c[k]})
	}
	return buckets
}

// ByCountDesc returns the buckets ordered by count, largest first; ties are ordered by key.
func (c Counts) ByCountDesc() []Bucket {
	buckets := c.Ascending()
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}

// CountByHour counts records per hour of day (0..23).
// Records with an unparseable time are excluded.
func CountByHour(records []Record) Counts {
	counts := make(Counts)
	for _, rec := range records {
		if hour, ok := rec.Hour(); ok {
			counts[hour]++
		}
	}
	return counts
}

// CountBySpeedZone counts records per numeric speed zone, taken from the first
// run of digits in the zone text. Records without digits are excluded.
func CountBySpeedZone(records []Record) Counts {
	counts := make(Counts)
	for _, rec := range records {
		if zone, ok := rec.SpeedZoneKmh(); ok {
			counts[zone]++
		}
	}
	return counts
}

// AlcoholSplit holds the number of accidents with and without alcohol involvement.
type AlcoholSplit struct {
	Yes int
	No  int
}

// Total returns Yes + No.
func (a AlcoholSplit) Total() int {
	return a.Yes + a.No
}

// Percent returns the share of Yes and No in percent. Both are 0 when Total is 0.
func (a AlcoholSplit) Percent() (yes, no float64) {
	total := a.Total()
	if total == 0 {
		return 0, 0
	}
	return float64(a.Yes) * 100 / float64(total), float64(a.No) * 100 / float64(total)
}

// SplitAlcohol counts records whose alcohol flag is exactly "yes" or "no", ignoring case.
// Any other value is excluded from both counts.
func SplitAlcohol(records []Record) AlcoholSplit {
	var split AlcoholSplit
	for _, rec := range records {
		switch {
		case isFlag(rec.Alcohol, flagYes):
			split.Yes++
		case isFlag(rec.Alcohol, flagNo):
			split.No++
		}
	}
	return split
}

// isFlag reports whether value lower-cases to flag. "yeſ" is not "yes".
func isFlag(value, flag string) bool {
	return strings.ToLower(value) == flag
}
