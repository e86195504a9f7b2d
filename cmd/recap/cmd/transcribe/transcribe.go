package transcribe

import (
	"context"

	"github.com/spf13/cobra"

	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/internal/app"
	"meeting-recap/internal/app/pipeline"
)

var env *cmdutil.Env

var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe new audio files into transcriptions/",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		env, err = cmdutil.Prepare(cmdutil.Needs{Transcriber: true})
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer env.Close()

		transcriber, err := app.InitializeTranscriber(env.Config, env.Keys, env.Logger)
		if err != nil {
			return err
		}

		return env.WithRun(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context, runner *pipeline.Runner) ([]pipeline.Report, error) {
			rep, err := runner.Transcribe(ctx, transcriber)
			return []pipeline.Report{rep}, err
		})
	},
}
