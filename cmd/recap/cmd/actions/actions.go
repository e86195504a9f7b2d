package actions

import (
	"context"

	"github.com/spf13/cobra"

	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/internal/app"
	"meeting-recap/internal/app/pipeline"
)

var env *cmdutil.Env

var Cmd = &cobra.Command{
	Use:   "actions",
	Short: "Extract action items and rebuild the sprint backlog",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		env, err = cmdutil.Prepare(cmdutil.Needs{Generator: true})
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer env.Close()

		generator, err := app.InitializeGenerator(cmd.Context(), env.Config, env.Keys)
		if err != nil {
			return err
		}

		return env.WithRun(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context, runner *pipeline.Runner) ([]pipeline.Report, error) {
			rep, err := runner.ExtractActionItems(ctx, generator)
			return []pipeline.Report{rep}, err
		})
	},
}
