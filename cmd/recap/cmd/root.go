package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"meeting-recap/cmd/recap/cmd/actions"
	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/cmd/recap/cmd/digest"
	"meeting-recap/cmd/recap/cmd/export"
	"meeting-recap/cmd/recap/cmd/initcmd"
	"meeting-recap/cmd/recap/cmd/run"
	"meeting-recap/cmd/recap/cmd/status"
	"meeting-recap/cmd/recap/cmd/summarize"
	"meeting-recap/cmd/recap/cmd/transcribe"
	"meeting-recap/cmd/recap/cmd/version"
	"meeting-recap/cmd/recap/cmd/watch"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recap",
	Short: "Turn meeting recordings into transcripts, summaries, action items and a weekly digest",
	Long: `Turn meeting recordings into transcripts, summaries, action items and a weekly digest.

- transcribe: audio files -> transcriptions/<name>.txt
- summarize: transcripts -> summaries/<name>.md
- actions: transcripts -> action_items/sprint_backlog.md
- digest: summaries -> summaries/all_summaries.md, grouped by ISO week

Each stage skips units whose output already exists, so any command can be
re-run from a scheduler.`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(summarize.Cmd)
	rootCmd.AddCommand(actions.Cmd)
	rootCmd.AddCommand(digest.Cmd)
	rootCmd.AddCommand(run.Cmd)
	rootCmd.AddCommand(watch.Cmd)
	rootCmd.AddCommand(status.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(initcmd.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&cmdutil.ConfigPath, "config", "c", "", "config file (default is ./recap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&cmdutil.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&cmdutil.Progress, "progress", false, "show progress bars even when not on a terminal")
}
