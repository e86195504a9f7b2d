package pipeline

import (
	"context"

	"meeting-recap/internal/app/api"
)

// RunAll runs transcription, summarization, action item extraction and the
// digest in that order. A stage error stops the chain; unit failures do not.
func (r *Runner) RunAll(ctx context.Context, transcriber api.Transcriber, generator api.Generator) ([]Report, error) {
	reports := make([]Report, 0, 4)

	rep, err := r.Transcribe(ctx, transcriber)
	reports = append(reports, rep)
	if err != nil {
		return reports, err
	}

	rep, err = r.Summarize(ctx, generator)
	reports = append(reports, rep)
	if err != nil {
		return reports, err
	}

	rep, err = r.ExtractActionItems(ctx, generator)
	reports = append(reports, rep)
	if err != nil {
		return reports, err
	}

	rep, err = r.Digest(ctx)
	reports = append(reports, rep)
	return reports, err
}
