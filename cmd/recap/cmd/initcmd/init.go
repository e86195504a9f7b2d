package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"meeting-recap/cmd/recap/cmd/cmdutil"
	"meeting-recap/internal/app/config"
	"meeting-recap/internal/app/util/files"
)

var force bool

var Cmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default recap.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cmdutil.ConfigPath
		if path == "" {
			path = config.DefaultConfigFile
		}

		if files.Exists(path) && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}

		if err := config.Save(config.Default(), path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ wrote %s\n", path)
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
}
