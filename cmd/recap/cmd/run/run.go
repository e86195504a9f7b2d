package run

import (
	"context"

	"github.com/spf13/cobra"

	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/internal/app"
	"meeting-recap/internal/app/pipeline"
)

var env *cmdutil.Env

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Run every stage: transcribe, summarize, actions, digest",
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

		return env.WithRun(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context, runner *pipeline.Runner) ([]pipeline.Report, error) {
			return runner.RunAll(ctx, transcriber, generator)
		})
	},
}
