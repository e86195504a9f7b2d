package digest

import (
	"context"

	"github.com/spf13/cobra"

	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/internal/app/pipeline"
)

var env *cmdutil.Env

var Cmd = &cobra.Command{
	Use:   "digest",
	Short: "Rebuild the combined summary digest grouped by week",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		env, err = cmdutil.Prepare(cmdutil.Needs{})
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer env.Close()

		return env.WithRun(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context, runner *pipeline.Runner) ([]pipeline.Report, error) {
			rep, err := runner.Digest(ctx)
			return []pipeline.Report{rep}, err
		})
	},
}
