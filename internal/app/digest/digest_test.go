package digest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-recap/internal/app/util/dates"
)

func TestSortStableWithUnknownFirst(t *testing.T) {
	entries := []Entry{
		{Name: "b", Date: dates.New(2025, 5, 26)},
		{Name: "notes", Date: dates.Unknown},
		{Name: "a", Date: dates.New(2025, 4, 4)},
		{Name: "c", Date: dates.New(2025, 5, 26)},
		{Name: "misc", Date: dates.Unknown},
	}

	Sort(entries)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"notes", "misc", "a", "b", "c"}, names)
}

func TestComposeWithoutHeadings(t *testing.T) {
	entries := []Entry{
		{Name: "late", Date: dates.New(2025, 5, 26), Content: "# Summary for late"},
		{Name: "early", Date: dates.New(2025, 4, 4), Content: "# Summary for early"},
	}

	got := Render(entries, Options{})

	want := "# All Meeting Summaries\n\n" +
		"# Summary for early" + Separator +
		"# Summary for late" + Separator
	assert.Equal(t, want, got)
	assert.Equal(t, "late", entries[0].Name, "input slice untouched")
}

func TestComposeWeekHeadings(t *testing.T) {
	entries := []Entry{
		{Name: "tue", Date: dates.New(2025, 5, 27), Content: "tuesday"},
		{Name: "mon", Date: dates.New(2025, 5, 26), Content: "monday"},
		{Name: "next", Date: dates.New(2025, 6, 2), Content: "next week"},
		{Name: "undated", Date: dates.Unknown, Content: "no date"},
	}

	got := Render(entries, Options{Title: "Team Sync", WeekHeadings: true})

	want := "# Team Sync\n\n" +
		"## Undated\n\n" + "no date" + Separator +
		"## Week 22, 2025 (Starting 2025-05-26)\n\n" + "monday" + Separator + "tuesday" + Separator +
		"## Week 23, 2025 (Starting 2025-06-02)\n\n" + "next week" + Separator
	assert.Equal(t, want, got)
}

func TestComposeWeekHeadingsAcrossYears(t *testing.T) {
	// Same ISO week number in different years gets two headings.
	entries := []Entry{
		{Date: dates.New(2024, 1, 3), Content: "a"},
		{Date: dates.New(2025, 1, 1), Content: "b"},
	}

	got := Render(entries, Options{WeekHeadings: true})
	assert.Equal(t, 2, strings.Count(got, "## Week 1,"))
	assert.Contains(t, got, "## Week 1, 2025 (Starting 2024-12-30)")
}

func TestComposeEveryEntryOnce(t *testing.T) {
	var entries []Entry
	for i, name := range []string{"x", "y", "z", "w"} {
		entries = append(entries, Entry{Name: name, Date: dates.New(2025, 3, 10+i*3), Content: "content-" + name})
	}

	got := Render(entries, Options{WeekHeadings: true})
	for _, e := range entries {
		assert.Equal(t, 1, strings.Count(got, e.Content))
	}
	assert.Equal(t, len(entries), strings.Count(got, Separator))
}

func TestComposeEmpty(t *testing.T) {
	assert.Equal(t, "# All Meeting Summaries\n\n", Render(nil, Options{WeekHeadings: true}))
}

func TestWeekHeading(t *testing.T) {
	assert.Equal(t, "## Undated", WeekHeading(dates.Unknown))
	assert.Equal(t, "## Week 14, 2025 (Starting 2025-03-31)", WeekHeading(dates.New(2025, 4, 4)))
}

func TestToDocx(t *testing.T) {
	markdown := Render([]Entry{
		{Date: dates.New(2025, 4, 4), Content: "# Summary for 04-04-2025\n\n_Recorded: 2025-04-04_\n\n- **Owner**: ship it"},
	}, Options{WeekHeadings: true})

	path := filepath.Join(t.TempDir(), "all_summaries.docx")
	require.NoError(t, ToDocx(markdown, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:2]) == "PK", "docx is a zip container")
}
