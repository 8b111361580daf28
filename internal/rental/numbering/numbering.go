// Package numbering derives the next suggested challan number from the
// set of numbers already in use. Issue and return challans are numbered
// independently; callers pass the numbers of one class at a time.
//
// The suggestion is a non-binding hint. The unique index on the number
// column is the authoritative collision signal: two concurrent
// submissions can both receive the same suggestion and the insert of
// the second one fails with a duplicate-key error.
package numbering

import (
	"regexp"
	"strconv"
)

var digitRun = regexp.MustCompile(`\d+`)

// Next scans existing number strings, takes the first maximal run of
// decimal digits from each, and returns max+1 as an unpadded decimal
// string. Strings without digits are ignored. Returns "1" when nothing
// numeric exists.
func Next(existing []string) string {
	max := 0
	for _, s := range existing {
		m := digitRun.FindString(s)
		if m == "" {
			continue
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			// digit run too long for an int, skip it
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
