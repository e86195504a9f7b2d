package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"meeting-recap/internal/app/api"
	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/util/files"
)

// SummaryPath is the summary location for a transcript base name.
func (r *Runner) SummaryPath(base string) string {
	return filepath.Join(r.dirs.Summaries, base+".md")
}

// FormatSummary renders a summary artifact.
func FormatSummary(doc model.DatedDocument, summary string) string {
	base := files.Stem(doc.Name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Summary for %s\n\n", base)
	if doc.Date.Known() {
		fmt.Fprintf(&sb, "_Recorded: %s_\n\n", doc.Date)
	}
	sb.WriteString(strings.TrimSpace(summary))
	sb.WriteString("\n")
	return sb.String()
}

// Summarize writes one summary per transcript that has none, newest
// recordings first.
func (r *Runner) Summarize(ctx context.Context, generator api.Generator) (Report, error) {
	rep := Report{Stage: model.StageSummarize}
	logger := r.logger.With(zap.String("stage", string(rep.Stage)))

	docs, err := r.listDated(r.dirs.Transcriptions, ".txt")
	if err != nil {
		return rep, err
	}
	if len(docs) == 0 {
		logger.Info("no transcripts found", zap.String("dir", r.dirs.Transcriptions))
		r.finish(rep)
		return rep, nil
	}
	if err := files.EnsureDir(r.dirs.Summaries); err != nil {
		return rep, apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", r.dirs.Summaries, err)
	}

	docs = newestFirst(docs)
	bar := r.progress.CreateBar(len(docs), "Summarizing")
	defer bar.Complete()

	for _, doc := range docs {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		start := time.Now()
		rec := r.summarizeOne(ctx, logger, generator, doc)
		rec.Duration = time.Since(start)
		r.record(ctx, &rep, rec)
		bar.Increment(start)
	}

	r.finish(rep)
	return rep, nil
}

func (r *Runner) summarizeOne(ctx context.Context, logger *zap.Logger, generator api.Generator, doc model.DatedDocument) *model.UnitRecord {
	base := files.Stem(doc.Name)
	out := r.SummaryPath(base)
	rec := &model.UnitRecord{Unit: base, InputPath: doc.Path, OutputPath: out}
	logger = logger.With(zap.String("unit", doc.Name))

	if files.Exists(out) {
		logger.Debug("summary exists, skipping")
		rec.Outcome = model.OutcomeSkipped
		return rec
	}

	summary, outcome, err := r.generate(ctx, generator, doc, r.prompts.Summary)
	rec.Outcome = outcome
	switch outcome {
	case model.OutcomeEmpty:
		logger.Warn("transcript is empty, skipping", zap.Error(err))
		rec.ErrorMessage = err.Error()
		return rec
	case model.OutcomeFailed:
		logger.Error("summarization failed", zap.Error(err))
		rec.ErrorMessage = err.Error()
		return rec
	}

	if err := files.WriteText(out, FormatSummary(doc, summary)); err != nil {
		logger.Error("failed to write summary", zap.Error(err))
		rec.Outcome = model.OutcomeFailed
		rec.ErrorMessage = err.Error()
		return rec
	}

	logger.Info("summary saved", zap.String("path", out))
	return rec
}

// generate reads doc, renders a prompt with render, and calls generator once.
// The outcome is done, empty (blank transcript, ErrEmptyInput) or failed.
func (r *Runner) generate(ctx context.Context, generator api.Generator, doc model.DatedDocument, render func(PromptData) (string, error)) (string, model.Outcome, error) {
	text, err := files.ReadOutputFile(doc.Path)
	if err != nil {
		return "", model.OutcomeFailed, apperrors.Wrapf(apperrors.ErrFileReadFailed, "%s: %v", doc.Path, err)
	}
	if text == "" {
		return "", model.OutcomeEmpty, apperrors.Wrapf(apperrors.ErrEmptyInput, "%s", doc.Name)
	}

	prompt, err := render(PromptData{Transcript: text, Name: files.Stem(doc.Name), Date: doc.Date.String()})
	if err != nil {
		return "", model.OutcomeFailed, err
	}

	unitCtx, cancel := r.unitContext(ctx)
	defer cancel()

	response, err := generator.Generate(unitCtx, prompt)
	if err != nil {
		return "", model.OutcomeFailed, err
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return "", model.OutcomeFailed, apperrors.ErrEmptyResponse
	}
	return response, model.OutcomeDone, nil
}
