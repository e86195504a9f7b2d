package model

// AudioFile is one recording after duplicate suffixes are collapsed.
type AudioFile struct {
	Name      string // raw file name, e.g. "Call (1).m4a"
	Canonical string // stem with any " (N)" suffix removed, e.g. "Call"
	Path      string
}
