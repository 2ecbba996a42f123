package jsonfile

import (
	"reflect"
	"sort"
)

// matchAll reports whether every given attribute is present with an equal
// value. An empty filter matches everything.
func matchAll(rec Record, attrs Record) bool {
	for k, want := range attrs {
		got, ok := rec[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// sortKey extracts the comparable value for sorting. Only string attributes
// order records; a missing or non-string value compares as the empty string
// and therefore sorts last under descending order.
func sortKey(rec Record, attr string) string {
	if s, ok := rec[attr].(string); ok {
		return s
	}
	return ""
}

// SortDescending orders records by attr descending, in place. The sort is
// stable: records with equal keys keep their original relative order, which
// pins down "latest N" semantics when timestamps collide. Note this is not
// the reverse of a stable ascending sort.
func SortDescending(records []Record, attr string) {
	sort.SliceStable(records, func(i, j int) bool {
		return sortKey(records[i], attr) > sortKey(records[j], attr)
	})
}
