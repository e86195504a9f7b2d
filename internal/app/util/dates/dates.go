// Package dates infers recording dates from meeting file names.
//
// Weeks follow ISO-8601: they start on Monday and week 1 is the week holding
// the year's first Thursday. Week identity is the (ISO year, ISO week) pair.
package dates

import (
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

var (
	// MM-DD-YYYY anywhere in the name, e.g. "04-04-2025.md"
	fullDatePattern = regexp.MustCompile(`(?:^|\D)(\d{2})-(\d{2})-(\d{4})(?:\D|$)`)
	// _<MM><DD> optionally followed by _<HHMM>, e.g. "MyRec_0526_2113.md";
	// the prefix may itself contain underscores and the last group wins
	recorderPattern = regexp.MustCompile(`_(\d{2})(\d{2})(?:_(\d{2})(\d{2}))?(?:\D|$)`)
)

// Date is a calendar day inferred from a file name. The zero value is Unknown.
type Date struct {
	t     time.Time
	known bool
}

// Unknown means no date could be parsed. It sorts before every known date.
var Unknown = Date{}

// New returns the known date for the given calendar day, or Unknown when the
// components do not form a real day.
func New(year, month, day int) Date {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return Unknown
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes Feb 30 into March; reject anything that moved
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Unknown
	}
	return Date{t: t, known: true}
}

// FromFilename extracts a date from the base name of path.
//
// A strict MM-DD-YYYY match wins. Otherwise a <prefix>_<MM><DD>[_<HHMM>] name
// is read with assumedYear as the year. Anything else, including impossible
// components such as month 13, yields Unknown.
func FromFilename(path string, assumedYear int) Date {
	base := filepath.Base(path)

	if m := fullDatePattern.FindStringSubmatch(base); m != nil {
		return New(atoi(m[3]), atoi(m[1]), atoi(m[2]))
	}

	stem := base[:len(base)-len(filepath.Ext(base))]
	if m := lastRecorderMatch(stem); m != nil {
		return New(assumedYear, atoi(m[1]), atoi(m[2]))
	}

	return Unknown
}

// lastRecorderMatch returns the last recorder group that has a non-empty
// prefix before it.
func lastRecorderMatch(stem string) []string {
	var last []string
	for _, idx := range recorderPattern.FindAllStringSubmatchIndex(stem, -1) {
		if idx[0] == 0 {
			continue
		}
		last = []string{stem[idx[0]:idx[1]], stem[idx[2]:idx[3]], stem[idx[4]:idx[5]]}
	}
	return last
}

// Known reports whether d holds a parsed date.
func (d Date) Known() bool {
	return d.known
}

// Time returns the day at midnight UTC, or the zero time for Unknown.
func (d Date) Time() time.Time {
	return d.t
}

// Before orders dates with Unknown first.
func (d Date) Before(other Date) bool {
	if !d.known {
		return other.known
	}
	if !other.known {
		return false
	}
	return d.t.Before(other.t)
}

// Equal reports whether both dates name the same day, or are both Unknown.
func (d Date) Equal(other Date) bool {
	if d.known != other.known {
		return false
	}
	return !d.known || d.t.Equal(other.t)
}

// ISOWeek returns the ISO year and week. Unknown returns 0, 0.
func (d Date) ISOWeek() (year, week int) {
	if !d.known {
		return 0, 0
	}
	return d.t.ISOWeek()
}

// WeekStart returns the Monday of d's ISO week.
func (d Date) WeekStart() Date {
	if !d.known {
		return Unknown
	}
	offset := (int(d.t.Weekday()) + 6) % 7
	return Date{t: d.t.AddDate(0, 0, -offset), known: true}
}

// String formats the date as YYYY-MM-DD, or "unknown".
func (d Date) String() string {
	if !d.known {
		return "unknown"
	}
	return d.t.Format("2006-01-02")
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
