package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "v0.1.0"

var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of recap",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "recap version:", version)
		return nil
	},
}
