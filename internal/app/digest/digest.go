package digest

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"meeting-recap/internal/app/util/dates"
)

// Separator follows every entry in a digest.
const Separator = "\n\n---\n\n"

// DefaultTitle is the digest heading when none is configured.
const DefaultTitle = "All Meeting Summaries"

// Entry is one summary going into the digest.
type Entry struct {
	Name    string
	Date    dates.Date
	Content string
}

// Options control digest layout.
type Options struct {
	Title string
	// WeekHeadings inserts a heading whenever the ISO week changes.
	WeekHeadings bool
}

// Sort orders entries by date, oldest first. Unknown dates come first and
// ties keep their input order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}

type weekKey struct {
	year, week int
}

func keyOf(d dates.Date) weekKey {
	y, w := d.ISOWeek()
	return weekKey{y, w}
}

// WeekHeading renders the heading for the week containing d.
func WeekHeading(d dates.Date) string {
	if !d.Known() {
		return "## Undated"
	}
	year, week := d.ISOWeek()
	return fmt.Sprintf("## Week %d, %d (Starting %s)", week, year, d.WeekStart())
}

// Compose writes the digest for entries to w. entries are sorted on a copy;
// the caller's slice is left alone.
func Compose(w io.Writer, entries []Entry, opts Options) error {
	sorted := slices.Clone(entries)
	Sort(sorted)

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n\n", title)

	var current *weekKey
	for _, e := range sorted {
		if opts.WeekHeadings {
			k := keyOf(e.Date)
			if current == nil || *current != k {
				current = &k
				fmt.Fprintf(bw, "%s\n\n", WeekHeading(e.Date))
			}
		}
		bw.WriteString(e.Content)
		bw.WriteString(Separator)
	}

	return bw.Flush()
}

// Render is Compose into a string.
func Render(entries []Entry, opts Options) string {
	var sb strings.Builder
	_ = Compose(&sb, entries, opts)
	return sb.String()
}
