package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhiraj-001/MLM-sub000/cmd/commands"
	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/server"
)

func init() {
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the http api together with the crons and the push notification worker",
	Long:  `Run the pending migrations, connect to the database, redis and kafka and serve the http api until a termination signal is received`,
	Run: func(cmd *cobra.Command, args []string) {
		// load server configuration from server
		log.Debug().Msg("Loading server configuration")
		if viper.ConfigFileUsed() != "" {
			log.Debug().Str("section", "init").Str("path", viper.ConfigFileUsed()).Msg("Configuration file loaded")
		}
		cfg := config.LoadConfig(viper.GetViper())
		// Running migrations
		log.Debug().Msg("Running migrations")
		commands.Migrate(cfg)

		// start a new server
		log.Debug().Str("section", "init").Msg("Starting new server instance")
		srv := server.NewServer(cfg)
		log.Info().Str("section", "init").Msg("Listening for incoming requests")
		srv.Listen()
	},
}
