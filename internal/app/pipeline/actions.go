package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"meeting-recap/internal/app/api"
	"meeting-recap/internal/app/digest"
	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/util/files"
)

const (
	// BacklogFile is the aggregated action item list in the action items dir.
	BacklogFile = "sprint_backlog.md"
	// BacklogTitle heads the backlog document.
	BacklogTitle = "Sprint Backlog - Action Items"

	itemsDir = "items"
)

// ItemsPath is the cached action item list for one transcript base name.
func (r *Runner) ItemsPath(base string) string {
	return filepath.Join(r.dirs.ActionItems, itemsDir, base+".md")
}

// BacklogPath is where ExtractActionItems writes the aggregated backlog.
func (r *Runner) BacklogPath() string {
	return filepath.Join(r.dirs.ActionItems, BacklogFile)
}

// ExtractActionItems asks the generator for action items per transcript,
// caching each result, then rebuilds the backlog from every cached list in
// recording order.
func (r *Runner) ExtractActionItems(ctx context.Context, generator api.Generator) (Report, error) {
	rep := Report{Stage: model.StageActionItems}
	logger := r.logger.With(zap.String("stage", string(rep.Stage)))

	docs, err := r.listDated(r.dirs.Transcriptions, ".txt")
	if err != nil {
		return rep, err
	}
	if len(docs) == 0 {
		logger.Info("no transcripts found", zap.String("dir", r.dirs.Transcriptions))
		if err := r.removeBacklog(logger); err != nil {
			return rep, err
		}
		r.finish(rep)
		return rep, nil
	}
	if err := files.EnsureDir(filepath.Join(r.dirs.ActionItems, itemsDir)); err != nil {
		return rep, apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", r.dirs.ActionItems, err)
	}

	bar := r.progress.CreateBar(len(docs), "Extracting action items")
	defer bar.Complete()

	for _, doc := range docs {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		start := time.Now()
		rec := r.extractOne(ctx, logger, generator, doc)
		rec.Duration = time.Since(start)
		r.record(ctx, &rep, rec)
		bar.Increment(start)
	}

	backlog, sections, err := r.buildBacklog(docs)
	if err != nil {
		return rep, err
	}
	if sections > 0 {
		if err := files.WriteText(r.BacklogPath(), backlog); err != nil {
			return rep, apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", r.BacklogPath(), err)
		}
		logger.Info("backlog written", zap.String("path", r.BacklogPath()), zap.Int("sections", sections))
	} else if err := r.removeBacklog(logger); err != nil {
		return rep, err
	}

	r.finish(rep)
	return rep, nil
}

// removeBacklog deletes a backlog left from earlier runs once no cached item
// list backs it.
func (r *Runner) removeBacklog(logger *zap.Logger) error {
	path := r.BacklogPath()
	if !files.Exists(path) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", path, err)
	}
	logger.Info("stale backlog removed", zap.String("path", path))
	return nil
}

func (r *Runner) extractOne(ctx context.Context, logger *zap.Logger, generator api.Generator, doc model.DatedDocument) *model.UnitRecord {
	base := files.Stem(doc.Name)
	out := r.ItemsPath(base)
	rec := &model.UnitRecord{Unit: base, InputPath: doc.Path, OutputPath: out}
	logger = logger.With(zap.String("unit", doc.Name))

	if files.Exists(out) {
		logger.Debug("action items exist, skipping")
		rec.Outcome = model.OutcomeSkipped
		return rec
	}

	items, outcome, err := r.generate(ctx, generator, doc, r.prompts.ActionItems)
	rec.Outcome = outcome
	switch outcome {
	case model.OutcomeEmpty:
		logger.Warn("transcript is empty, skipping", zap.Error(err))
		rec.ErrorMessage = err.Error()
		return rec
	case model.OutcomeFailed:
		logger.Error("action item extraction failed", zap.Error(err))
		rec.ErrorMessage = err.Error()
		return rec
	}

	if err := files.WriteText(out, items+"\n"); err != nil {
		logger.Error("failed to write action items", zap.Error(err))
		rec.Outcome = model.OutcomeFailed
		rec.ErrorMessage = err.Error()
		return rec
	}

	logger.Info("action items saved", zap.String("path", out))
	return rec
}

// buildBacklog concatenates cached item lists for docs, which are already in
// recording order. Transcripts without a cached list are left out.
func (r *Runner) buildBacklog(docs []model.DatedDocument) (string, int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", BacklogTitle)

	sections := 0
	for _, doc := range docs {
		path := r.ItemsPath(files.Stem(doc.Name))
		if !files.Exists(path) {
			continue
		}
		items, err := files.ReadOutputFile(path)
		if err != nil {
			return "", 0, apperrors.Wrapf(apperrors.ErrFileReadFailed, "%s: %v", path, err)
		}
		fmt.Fprintf(&sb, "## From: %s\n\n%s%s", doc.Name, items, digest.Separator)
		sections++
	}
	return sb.String(), sections, nil
}
