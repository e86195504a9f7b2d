package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/internal/app"
	"meeting-recap/internal/app/export"
)

var (
	env        *cmdutil.Env
	outputFile string
	limit      int
)

var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run ledger to an Excel file",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		env, err = cmdutil.Prepare(cmdutil.Needs{})
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer env.Close()

		dao, cleanup, err := app.InitializeLedger(cmd.Context(), env.Config)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := dao.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if err := export.ToExcel(records, outputFile); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ exported %d rows to %s\n", len(records), outputFile)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&outputFile, "out", "o", "recap_ledger.xlsx", "output Excel file")
	Cmd.Flags().IntVarP(&limit, "limit", "n", 1000, "maximum number of ledger rows")
}
