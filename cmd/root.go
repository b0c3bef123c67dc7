package cmd

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/featureflags"
)

// LogLevel Flag
var LogLevel = "info"

// LogFormat Flag
var LogFormat = "json"
var cfgFile string
var rootCmd = &cobra.Command{
	Use:   "mlm_api",
	Short: "The backend of a multi level marketing trading network",
	Long: `Member accounts, wallets with deposit and earning balances, referral commissions, star ranks
	and a daily quiz, served over a JSON http api.`,
}

func init() {
	// set log level
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	initLoggingEnv()
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&LogLevel, "log-level", "", LogLevel, "logging level to show (options: debug|info|warn|error|fatal|panic, default: info)")
	rootCmd.PersistentFlags().StringVarP(&LogFormat, "log-format", "", LogFormat, "log format to generate (Options: json|pretty, default: json)")
}

func initConfig() {
	config.OpenConfig(cfgFile)
	customizeLogger()
	cfg := config.LoadConfig(viper.GetViper())
	// init featureflags
	if err := featureflags.Initialize(cfg.Unleash); err != nil {
		log.Fatal().Err(err).Str("lib", "unleash").Msg("Unable to init feature flags")
	}
}

func initLoggingEnv() {
	// load log level from env by default
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel != "" {
		LogLevel = logLevel
	}
	// load log format from env by default
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat != "" {
		LogFormat = logFormat
	}
}

// Execute the commands
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func customizeLogger() {
	if LogFormat == "pretty" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(LogLevel)
	if err != nil || LogLevel == "" {
		log.Warn().Str("log_level", LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	gin.SetMode(gin.ReleaseMode)
	if level == zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	}
}
