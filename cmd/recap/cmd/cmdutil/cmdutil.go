package cmdutil

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"meeting-recap/internal/app"
	appconfig "meeting-recap/internal/app/config"
	"meeting-recap/internal/app/logging"
	"meeting-recap/internal/app/pipeline"
	envconfig "meeting-recap/internal/config"
)

// Global flags, bound by the root command.
var (
	ConfigPath string
	Verbose    bool
	Progress   bool
)

// Env is what every command works with: configuration, credentials and a
// logger.
type Env struct {
	Config *appconfig.Config
	Keys   *envconfig.APIKeys
	Logger *zap.Logger
}

// Load reads the configuration and credentials. Keys are checked later, per
// command, by Prepare.
func Load() (*Env, error) {
	cfg, err := appconfig.Load(ConfigPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if Verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(cfg.Logging.Development, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Env{Config: cfg, Keys: envconfig.GetAPIKeys(), Logger: logger}, nil
}

// RequireTranscriber fails when the configured transcriber needs a key that
// is not set.
func (e *Env) RequireTranscriber() error {
	if e.Config.Transcriber.Provider != "openai" {
		return nil
	}
	return envconfig.RequireKey(e.Keys, "openai")
}

// RequireGenerator fails when the configured generator's key is not set.
func (e *Env) RequireGenerator() error {
	return envconfig.RequireKey(e.Keys, e.Config.Generator.Provider)
}

// StageFunc runs one or more stages on a prepared Runner.
type StageFunc func(ctx context.Context, runner *pipeline.Runner) ([]pipeline.Report, error)

// WithRun holds the workspace lock while fn runs on a fresh Runner, then
// writes metrics and prints the reports to out.
func (e *Env) WithRun(ctx context.Context, out io.Writer, fn StageFunc) error {
	lock, err := pipeline.AcquireLock(e.Config.Paths.Root)
	if err != nil {
		return err
	}
	defer lock.Release()

	runner, cleanup, err := app.InitializeRunner(ctx, e.Config, e.Logger)
	if err != nil {
		return err
	}
	defer cleanup()
	runner.WithProgress(pipeline.NewProgressManager(pipeline.ProgressConfig{
		Enabled: pipeline.ShouldShowProgress(Progress),
	}))

	reports, runErr := fn(ctx, runner)

	runner.Wait()
	if err := runner.Metrics().WriteTextfile(e.Config.Metrics.Textfile); err != nil {
		e.Logger.Warn("failed to write metrics textfile", zap.Error(err))
	}

	PrintReports(out, reports...)
	return runErr
}

// PrintReports writes one line per stage report.
func PrintReports(out io.Writer, reports ...pipeline.Report) {
	for _, rep := range reports {
		mark := "✅"
		if rep.Failed > 0 {
			mark = "⚠️ "
		}
		fmt.Fprintf(out, "%s %s\n", mark, rep)
	}
}

// Close flushes the logger.
func (e *Env) Close() {
	_ = e.Logger.Sync()
}

// Needs lists the backends a command talks to.
type Needs struct {
	Transcriber bool
	Generator   bool
}

// Prepare loads the environment and checks the credentials a command needs
// before any unit is touched.
func Prepare(needs Needs) (*Env, error) {
	env, err := Load()
	if err != nil {
		return nil, err
	}
	if needs.Transcriber {
		if err := env.RequireTranscriber(); err != nil {
			return nil, err
		}
	}
	if needs.Generator {
		if err := env.RequireGenerator(); err != nil {
			return nil, err
		}
	}
	return env, nil
}
