package pipeline

import (
	"path/filepath"
	"sort"

	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/util/dates"
	"meeting-recap/internal/app/util/files"
)

// listDated returns the files in dir with extension ext, dated from their
// names and sorted oldest first. Unknown dates sort first; ties keep name
// order.
func (r *Runner) listDated(dir, ext string, exclude ...string) ([]model.DatedDocument, error) {
	names, err := files.ListFiles(dir, ext)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDirUnreadable, "%s: %v", dir, err)
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	docs := make([]model.DatedDocument, 0, len(names))
	for _, name := range names {
		if skip[name] {
			continue
		}
		docs = append(docs, model.DatedDocument{
			Name: name,
			Path: filepath.Join(dir, name),
			Date: dates.FromFilename(name, r.opts.AssumedYear),
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Date.Before(docs[j].Date)
	})
	return docs, nil
}

// newestFirst reverses the date order while keeping ties in name order.
func newestFirst(docs []model.DatedDocument) []model.DatedDocument {
	out := make([]model.DatedDocument, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date)
	})
	return out
}
