package watch

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/internal/app"
	"meeting-recap/internal/app/pipeline"
	"meeting-recap/internal/app/watch"
)

var (
	env     *cmdutil.Env
	noFirst bool
)

var Cmd = &cobra.Command{
	Use:   "watch",
	Short: "Run every stage whenever new recordings land in the audio directory",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		env, err = cmdutil.Prepare(cmdutil.Needs{Transcriber: true, Generator: true})
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer env.Close()

		transcriber, err := app.InitializeTranscriber(env.Config, env.Keys, env.Logger)
		if err != nil {
			return err
		}
		generator, err := app.InitializeGenerator(cmd.Context(), env.Config, env.Keys)
		if err != nil {
			return err
		}

		handler := func(ctx context.Context) error {
			return env.WithRun(ctx, cmd.OutOrStdout(), func(ctx context.Context, runner *pipeline.Runner) ([]pipeline.Report, error) {
				return runner.RunAll(ctx, transcriber, generator)
			})
		}

		w, err := watch.New(env.Config.Paths.Audio, env.Config.Watch.Debounce, handler, env.Logger)
		if err != nil {
			return err
		}
		defer w.Close()

		err = w.Run(cmd.Context(), !noFirst)
		if errors.Is(err, context.Canceled) {
			env.Logger.Info("watch stopped", zap.String("dir", env.Config.Paths.Audio))
			return nil
		}
		return err
	},
}

func init() {
	Cmd.Flags().BoolVar(&noFirst, "no-initial-run", false, "wait for the first file event instead of running immediately")
}
