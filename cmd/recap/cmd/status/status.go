package status

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/internal/app"
	"meeting-recap/internal/app/model"
)

var (
	env   *cmdutil.Env
	limit int
)

var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recent units from the run ledger",
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
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No units recorded yet.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records))
		return nil
	},
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of ledger rows to show")
}

func renderRecords(records []model.UnitRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Processed", "Stage", "Unit", "Outcome", "Duration", "Error"})

	for _, rec := range records {
		tw.AppendRow(table.Row{
			rec.ProcessedAt.Local().Format("2006-01-02 15:04"),
			string(rec.Stage),
			rec.Unit,
			outcomeLabel(rec.Outcome),
			strconv.FormatFloat(rec.Duration.Seconds(), 'f', 1, 64) + "s",
			text.Trim(rec.ErrorMessage, 60),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func outcomeLabel(outcome model.Outcome) string {
	switch outcome {
	case model.OutcomeDone:
		return "✅ done"
	case model.OutcomeFailed:
		return "❌ failed"
	case model.OutcomeEmpty:
		return "⚪ empty"
	default:
		return string(outcome)
	}
}
