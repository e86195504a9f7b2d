package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"meeting-recap/internal/app/api"
	"meeting-recap/internal/app/audio"
	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/util/files"
)

// TranscriptPath is where the transcript for a canonical name lives.
func (r *Runner) TranscriptPath(canonical string) string {
	return filepath.Join(r.dirs.Transcriptions, canonical+".txt")
}

// Transcribe writes a transcript for every deduplicated audio file that does
// not have one yet. The transcriber is prepared once, and only when at least
// one file needs work.
func (r *Runner) Transcribe(ctx context.Context, transcriber api.Transcriber) (Report, error) {
	rep := Report{Stage: model.StageTranscribe}
	logger := r.logger.With(zap.String("stage", string(rep.Stage)))

	audioFiles, err := files.FindAudioFiles(r.dirs.Audio)
	if err != nil {
		return rep, apperrors.Wrapf(apperrors.ErrDirUnreadable, "%s: %v", r.dirs.Audio, err)
	}
	if len(audioFiles) == 0 {
		logger.Info("no audio files found", zap.String("dir", r.dirs.Audio))
		r.finish(rep)
		return rep, nil
	}
	if err := files.EnsureDir(r.dirs.Transcriptions); err != nil {
		return rep, apperrors.Wrapf(apperrors.ErrFileWriteFailed, "%s: %v", r.dirs.Transcriptions, err)
	}

	pending := make([]model.AudioFile, 0, len(audioFiles))
	for _, af := range audioFiles {
		out := r.TranscriptPath(af.Canonical)
		if files.Exists(out) {
			logger.Debug("transcript exists, skipping", zap.String("unit", af.Name))
			r.record(ctx, &rep, &model.UnitRecord{Unit: af.Canonical, InputPath: af.Path, OutputPath: out, Outcome: model.OutcomeSkipped})
			continue
		}
		pending = append(pending, af)
	}

	if len(pending) == 0 {
		r.finish(rep)
		return rep, nil
	}

	if preparer, ok := transcriber.(api.Preparer); ok {
		if err := preparer.Prepare(ctx); err != nil {
			return rep, apperrors.Wrapf(apperrors.ErrToolFailed, "prepare transcriber: %v", err)
		}
	}

	bar := r.progress.CreateBar(len(pending), "Transcribing")
	defer bar.Complete()

	for _, af := range pending {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		start := time.Now()
		rec := r.transcribeOne(ctx, logger, transcriber, af)
		rec.Duration = time.Since(start)
		r.record(ctx, &rep, rec)
		bar.Increment(start)
	}

	r.finish(rep)
	return rep, nil
}

func (r *Runner) transcribeOne(ctx context.Context, logger *zap.Logger, transcriber api.Transcriber, af model.AudioFile) *model.UnitRecord {
	out := r.TranscriptPath(af.Canonical)
	rec := &model.UnitRecord{Unit: af.Canonical, InputPath: af.Path, OutputPath: out}
	logger = logger.With(zap.String("unit", af.Name))

	if seconds, err := audio.Duration(ctx, af.Path); err != nil {
		logger.Debug("could not read audio duration", zap.Error(err))
	} else {
		rec.AudioSeconds = seconds
	}

	logger.Info("transcribing", zap.Float64("audio_seconds", rec.AudioSeconds))
	text, err := transcriber.Transcript(ctx, af.Path)
	if err != nil {
		logger.Error("transcription failed", zap.Error(err))
		rec.Outcome = model.OutcomeFailed
		rec.ErrorMessage = err.Error()
		return rec
	}

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("transcription is empty, nothing written")
		rec.Outcome = model.OutcomeEmpty
		return rec
	}

	if err := files.WriteText(out, text); err != nil {
		logger.Error("failed to write transcript", zap.Error(err))
		rec.Outcome = model.OutcomeFailed
		rec.ErrorMessage = err.Error()
		return rec
	}

	logger.Info("transcript saved", zap.String("path", out))
	rec.Outcome = model.OutcomeDone
	return rec
}
