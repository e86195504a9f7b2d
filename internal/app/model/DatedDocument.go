package model

import "meeting-recap/internal/app/util/dates"

// DatedDocument is a Markdown artifact paired with the date in its name.
type DatedDocument struct {
	Name string
	Path string
	Date dates.Date
}
