package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meeting-recap/internal/app/config"
	"meeting-recap/internal/app/digest"
	"meeting-recap/internal/app/metrics"
	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/repository"
)

// Dirs are the stage directories a Runner reads and writes.
type Dirs struct {
	Audio          string
	Transcriptions string
	Summaries      string
	ActionItems    string
	// Temp holds intermediate audio; empty uses the OS default.
	Temp string
}

// Options carry the non-directory settings of a run.
type Options struct {
	AssumedYear int
	// UnitTimeout bounds one generator call; 0 leaves it to the client.
	UnitTimeout time.Duration
	DigestFile  string
	Digest      digest.Options
	Docx        bool
	DocxFile    string
}

// Publisher uploads a finished artifact and returns where it went.
type Publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// Runner executes pipeline stages over one workspace. Stages run units one
// at a time; every attempted unit is written to the ledger.
type Runner struct {
	dirs      Dirs
	opts      Options
	prompts   *Prompts
	dao       repository.UnitDAO
	metrics   *metrics.Metrics
	publisher Publisher
	progress  *ProgressManager
	logger    *zap.Logger
	runID     string
}

// NewRunner creates a Runner with a fresh run id. publisher may be nil.
func NewRunner(dirs Dirs, opts Options, prompts *Prompts, dao repository.UnitDAO, m *metrics.Metrics, publisher Publisher, logger *zap.Logger) *Runner {
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	if m == nil {
		m = metrics.New()
	}
	if dao == nil {
		dao = repository.NopDAO{}
	}
	if opts.DigestFile == "" {
		opts.DigestFile = "all_summaries.md"
	}
	runID := uuid.NewString()

	return &Runner{
		dirs:      dirs,
		opts:      opts,
		prompts:   prompts,
		dao:       dao,
		metrics:   m,
		publisher: publisher,
		progress:  NewProgressManager(ProgressConfig{Enabled: false}),
		logger:    logger.With(zap.String("run_id", runID)),
		runID:     runID,
	}
}

// NewRunnerFromConfig maps the loaded configuration onto a Runner.
func NewRunnerFromConfig(cfg *config.Config, dao repository.UnitDAO, m *metrics.Metrics, publisher Publisher, logger *zap.Logger) (*Runner, error) {
	prompts, err := NewPrompts(cfg.Generator.SummaryPrompt, cfg.Generator.ActionItemsPrompt)
	if err != nil {
		return nil, err
	}

	dirs := Dirs{
		Audio:          cfg.Paths.Audio,
		Transcriptions: cfg.Paths.Transcriptions,
		Summaries:      cfg.Paths.Summaries,
		ActionItems:    cfg.Paths.ActionItems,
		Temp:           cfg.Paths.Temp,
	}
	opts := Options{
		AssumedYear: cfg.AssumedYear(time.Now()),
		UnitTimeout: cfg.Generator.Timeout,
		DigestFile:  cfg.Digest.File,
		Digest: digest.Options{
			Title:        cfg.Digest.Title,
			WeekHeadings: cfg.Digest.WeekHeadings,
		},
		Docx:     cfg.Digest.Docx,
		DocxFile: cfg.Digest.DocxFile,
	}

	return NewRunner(dirs, opts, prompts, dao, m, publisher, logger), nil
}

// WithProgress replaces the progress display.
func (r *Runner) WithProgress(pm *ProgressManager) *Runner {
	r.progress = pm
	return r
}

// RunID identifies this process's rows in the ledger.
func (r *Runner) RunID() string {
	return r.runID
}

// Metrics returns the collector fed by every stage.
func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// DigestPath is where the digest stage writes its Markdown.
func (r *Runner) DigestPath() string {
	return filepath.Join(r.dirs.Summaries, r.opts.DigestFile)
}

// Wait blocks until the progress display has flushed. The ledger stays
// open; it belongs to whoever opened it.
func (r *Runner) Wait() {
	r.progress.Wait()
}

// Report counts unit outcomes for one stage.
type Report struct {
	Stage   model.Stage
	Done    int
	Skipped int
	Empty   int
	Failed  int
}

func (rep *Report) add(outcome model.Outcome) {
	switch outcome {
	case model.OutcomeDone:
		rep.Done++
	case model.OutcomeSkipped:
		rep.Skipped++
	case model.OutcomeEmpty:
		rep.Empty++
	case model.OutcomeFailed:
		rep.Failed++
	}
}

// Total is the number of units the stage looked at.
func (rep Report) Total() int {
	return rep.Done + rep.Skipped + rep.Empty + rep.Failed
}

func (rep Report) String() string {
	return fmt.Sprintf("%s: %d done, %d skipped, %d empty, %d failed",
		rep.Stage, rep.Done, rep.Skipped, rep.Empty, rep.Failed)
}

// record counts rec in the report and metrics. Skipped units are not written
// to the ledger; everything that reached an external call or a write is.
func (r *Runner) record(ctx context.Context, rep *Report, rec *model.UnitRecord) {
	rec.RunID = r.runID
	rec.Stage = rep.Stage
	rep.add(rec.Outcome)
	r.metrics.Observe(rec)

	if rec.Outcome == model.OutcomeSkipped {
		return
	}
	if err := r.dao.Record(ctx, rec); err != nil {
		r.logger.Warn("failed to record unit in ledger",
			zap.String("stage", string(rec.Stage)),
			zap.String("unit", rec.Unit),
			zap.Error(err))
	}
}

// finish stamps the stage in metrics and logs the report.
func (r *Runner) finish(rep Report) {
	r.metrics.StageFinished(rep.Stage, time.Now())
	r.logger.Info("stage finished",
		zap.String("stage", string(rep.Stage)),
		zap.Int("done", rep.Done),
		zap.Int("skipped", rep.Skipped),
		zap.Int("empty", rep.Empty),
		zap.Int("failed", rep.Failed))
}

// unitContext applies the per-unit timeout, if any.
func (r *Runner) unitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.UnitTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.UnitTimeout)
	}
	return context.WithCancel(ctx)
}
