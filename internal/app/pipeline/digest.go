package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"meeting-recap/internal/app/digest"
	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/util/files"
)

// Digest combines every summary into one chronological document. The digest
// is rebuilt on each run; it never feeds back into itself.
func (r *Runner) Digest(ctx context.Context) (Report, error) {
	rep := Report{Stage: model.StageDigest}
	logger := r.logger.With(zap.String("stage", string(rep.Stage)))

	docs, err := r.listDated(r.dirs.Summaries, ".md", r.opts.DigestFile)
	if err != nil {
		return rep, err
	}
	if len(docs) == 0 {
		logger.Info("no summary files found to combine", zap.String("dir", r.dirs.Summaries))
		r.finish(rep)
		return rep, nil
	}

	start := time.Now()
	out := r.DigestPath()
	rec := &model.UnitRecord{Unit: r.opts.DigestFile, InputPath: r.dirs.Summaries, OutputPath: out}

	entries := make([]digest.Entry, 0, len(docs))
	for _, doc := range docs {
		content, err := files.ReadOutputFile(doc.Path)
		if err != nil {
			return rep, apperrors.Wrapf(apperrors.ErrFileReadFailed, "%s: %v", doc.Path, err)
		}
		entries = append(entries, digest.Entry{Name: doc.Name, Date: doc.Date, Content: content})
		logger.Debug("adding summary", zap.String("unit", doc.Name), zap.Stringer("date", doc.Date))
	}

	markdown := digest.Render(entries, r.opts.Digest)
	if err := files.WriteText(out, markdown); err != nil {
		return rep, apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", out, err)
	}
	logger.Info("digest written", zap.String("path", out), zap.Int("summaries", len(entries)))

	artifacts := []string{out}
	if r.opts.Docx {
		docxPath := filepath.Join(r.dirs.Summaries, r.opts.DocxFile)
		if err := digest.ToDocx(markdown, docxPath); err != nil {
			logger.Error("failed to write docx digest", zap.Error(err))
			rec.ErrorMessage = err.Error()
		} else {
			artifacts = append(artifacts, docxPath)
			logger.Info("docx digest written", zap.String("path", docxPath))
		}
	}

	if r.publisher != nil {
		for _, path := range artifacts {
			location, err := r.publisher.Publish(ctx, path)
			if err != nil {
				logger.Error("failed to publish digest", zap.String("path", path), zap.Error(err))
				rec.ErrorMessage = err.Error()
				continue
			}
			logger.Info("digest published", zap.String("location", location))
		}
	}

	rec.Outcome = model.OutcomeDone
	rec.Duration = time.Since(start)
	r.record(ctx, &rep, rec)

	r.finish(rep)
	return rep, nil
}
