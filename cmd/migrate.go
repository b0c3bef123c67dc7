package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhiraj-001/MLM-sub000/cmd/commands"
	"github.com/dhiraj-001/MLM-sub000/config"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the pending database migrations and exit",
	Run: func(cmd *cobra.Command, args []string) {
		commands.Migrate(config.LoadConfig(viper.GetViper()))
	},
}
