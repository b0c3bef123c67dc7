package config

import (
	"time"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/featureflags"
	"github.com/dhiraj-001/MLM-sub000/lib/sendgrid"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/monitor"
	"github.com/dhiraj-001/MLM-sub000/net/kafka"
	"github.com/dhiraj-001/MLM-sub000/net/redis"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config structure
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	DatabaseCluster DatabaseClusterConfig `mapstructure:"database_cluster"`
	Redis           redis.Config          `mapstructure:"redis"`
	Kafka           kafka.Config          `mapstructure:"kafka"`
	Unleash         featureflags.Config   `mapstructure:"unleash"`
	Sendgrid        sendgrid.Config       `mapstructure:"sendgrid"`
	FirebaseClient  FirebaseClientConfig  `mapstructure:"firebase_client"`
	Wallet          WalletConfig          `mapstructure:"wallet"`
	Quiz            QuizConfig            `mapstructure:"quiz"`
	Referrals       ReferralsConfig       `mapstructure:"referrals"`
	Ranks           RanksConfig           `mapstructure:"ranks"`
	Registration    RegistrationConfig    `mapstructure:"registration"`
	Crons           Crons                 `mapstructure:"crons"`
}

type ServerConfig struct {
	Monitoring monitor.Config `mapstructure:"monitoring"`
	API        APIConfig      `mapstructure:"api"`
	Admin      AdminConfig    `mapstructure:"admin"`
}

type APIConfig struct {
	Port           int
	KeepAlive      bool   `mapstructure:"keep_alive"`
	JWTTokenSecret string `mapstructure:"jwt_token_secret"`
	// token lifetime in hours
	JWTTokenDuration int `mapstructure:"jwt_token_duration"`
}

// AdminConfig structure
type AdminConfig struct {
	// comma separated CIDR list allowed to reach the admin routes
	AllowedIPs string `mapstructure:"allowed_ips"`
}

// DatabaseClusterConfig structure
type DatabaseClusterConfig struct {
	Writer      DatabaseConfig `mapstructure:"writer"`
	Reader      DatabaseConfig `mapstructure:"reader"`
	ReaderAdmin DatabaseConfig `mapstructure:"reader_admin"`
}

// DatabaseConfig structure
type DatabaseConfig struct {
	Host            string
	Username        string
	Password        string
	Name            string
	SSLmode         string `mapstructure:"sslmode"`
	ApplicationName string `mapstructure:"application_name"`
	Port            int
	MaxOpenConns    int `mapstructure:"max_open_conns"`
}

type FirebaseClientConfig struct {
	ApiKey string `mapstructure:"api_key"`
}

type WalletConfig struct {
	MinWithdrawal float64 `mapstructure:"min_withdrawal"`
	WithdrawalFee float64 `mapstructure:"withdrawal_fee"`
}

type QuizConfig struct {
	MinBalance        float64       `mapstructure:"min_balance"`
	QuestionsPerQuiz  int           `mapstructure:"questions_per_quiz"`
	RewardRate        float64       `mapstructure:"reward_rate"`
	RewardCap         float64       `mapstructure:"reward_cap"`
	MinScoreForReward int           `mapstructure:"min_score_for_reward"`
	TimeLimit         time.Duration `mapstructure:"time_limit"`
	GracePeriod       time.Duration `mapstructure:"grace_period"`
	EnforceTimeLimit  bool          `mapstructure:"enforce_time_limit"`
	Timezone          string        `mapstructure:"timezone"`
}

// Location returns the timezone used to compute the quiz day
func (cfg QuizConfig) Location() *time.Location {
	if cfg.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("section", "config").Str("timezone", cfg.Timezone).Msg("Unknown quiz timezone, using UTC")
		return time.UTC
	}
	return loc
}

type CommissionStageConfig struct {
	Name      string  `mapstructure:"name"`
	MinDirect int     `mapstructure:"min_direct"`
	MinTeam   int     `mapstructure:"min_team"`
	RateA     float64 `mapstructure:"rate_a"`
	RateB     float64 `mapstructure:"rate_b"`
	RateC     float64 `mapstructure:"rate_c"`
	RateD     float64 `mapstructure:"rate_d"`
}

type ReferralsConfig struct {
	Stages []CommissionStageConfig `mapstructure:"stages"`
	// number of team members listed as recent referrals in the commission summary
	RecentReferrals int `mapstructure:"recent_referrals"`
}

var defaultCommissionStages = []CommissionStageConfig{
	{Name: "Member"},
	{Name: "Stage 1", MinDirect: 6, MinTeam: 30, RateA: 0.06, RateB: 0.03, RateC: 0.02, RateD: 0.01},
	{Name: "Stage 2", MinDirect: 10, MinTeam: 40, RateA: 0.10, RateB: 0.05, RateC: 0.03, RateD: 0.02},
	{Name: "Stage 3", MinDirect: 15, MinTeam: 50, RateA: 0.15, RateB: 0.08, RateC: 0.05, RateD: 0.03},
	{Name: "Stage 4", MinDirect: 25, MinTeam: 100, RateA: 0.18, RateB: 0.10, RateC: 0.06, RateD: 0.04},
	{Name: "Stage 5", MinDirect: 40, MinTeam: 200, RateA: 0.20, RateB: 0.12, RateC: 0.08, RateD: 0.05},
}

// CommissionStages returns the configured stage table or the built in one
func (cfg ReferralsConfig) CommissionStages() []model.CommissionStage {
	rows := cfg.Stages
	if len(rows) == 0 {
		rows = defaultCommissionStages
	}
	stages := make([]model.CommissionStage, 0, len(rows))
	for _, row := range rows {
		stages = append(stages, model.CommissionStage{
			Name:      row.Name,
			MinDirect: row.MinDirect,
			MinTeam:   row.MinTeam,
			RateA:     conv.FromFloat(row.RateA),
			RateB:     conv.FromFloat(row.RateB),
			RateC:     conv.FromFloat(row.RateC),
			RateD:     conv.FromFloat(row.RateD),
		})
	}
	return stages
}

type StarRankConfig struct {
	Name         string  `mapstructure:"name"`
	MinDirect    int     `mapstructure:"min_direct"`
	MinTeam      int     `mapstructure:"min_team"`
	MonthlyBonus float64 `mapstructure:"monthly_bonus"`
}

type RanksConfig struct {
	Table []StarRankConfig `mapstructure:"table"`
}

var defaultStarRanks = []StarRankConfig{
	{Name: "1-Star", MinDirect: 15, MinTeam: 80, MonthlyBonus: 250},
	{Name: "2-Star", MinDirect: 30, MinTeam: 200, MonthlyBonus: 500},
	{Name: "3-Star", MinDirect: 50, MinTeam: 400, MonthlyBonus: 800},
	{Name: "4-Star", MinDirect: 75, MinTeam: 700, MonthlyBonus: 1200},
	{Name: "5-Star", MinDirect: 100, MinTeam: 1200, MonthlyBonus: 2000},
	{Name: "6-Star", MinDirect: 150, MinTeam: 2000, MonthlyBonus: 3000},
}

// StarRanks returns the configured rank table or the built in one
func (cfg RanksConfig) StarRanks() []model.StarRank {
	rows := cfg.Table
	if len(rows) == 0 {
		rows = defaultStarRanks
	}
	ranks := make([]model.StarRank, 0, len(rows))
	for _, row := range rows {
		ranks = append(ranks, model.StarRank{
			Name:         row.Name,
			MinDirect:    row.MinDirect,
			MinTeam:      row.MinTeam,
			MonthlyBonus: conv.FromFloat(row.MonthlyBonus),
		})
	}
	return ranks
}

type RegistrationConfig struct {
	// region used to parse phone numbers without an international prefix
	DefaultRegion     string `mapstructure:"default_region"`
	MinPasswordLength int    `mapstructure:"min_password_length"`
}

// Crons maps a cron id to its schedule
type Crons map[string]string

// LoadConfig from viper into the config structure
func LoadConfig(viperConf *viper.Viper) Config {
	var config Config
	if err := viperConf.Unmarshal(&config); err != nil {
		log.Fatal().Err(err).Msg("Unable to decode into config struct")
	}
	return config
}

// OpenConfig file and environment variables
func OpenConfig(file string) {
	// .env files are optional, values already present in the environment win
	_ = godotenv.Load()

	if file != "" {
		log.Debug().Str("file", file).Msg("Loading configuration file")
		viper.SetConfigFile(file)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigName(".config")
	viper.AddConfigPath(".")         // First try to load the config from the current directory
	viper.AddConfigPath("$HOME")     // Then try to load it from the HOME directory
	viper.AddConfigPath("/etc/mlm/") // As a last resort try to load it from /etc/
	viper.SetEnvPrefix("CFG")
	viper.AutomaticEnv()
	setDefaultVariables()

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		log.Fatal().Err(err).Msg("Unable to read configuration file")
	}
}

func setDefaultVariables() {
	viper.SetDefault("server.api.port", 8080)
	viper.SetDefault("server.api.keep_alive", true)
	viper.SetDefault("server.api.jwt_token_duration", 24)
	viper.SetDefault("server.admin.allowed_ips", "0.0.0.0/0")
	viper.SetDefault("wallet.min_withdrawal", 50)
	viper.SetDefault("wallet.withdrawal_fee", 0.05)
	viper.SetDefault("quiz.min_balance", 30)
	viper.SetDefault("quiz.questions_per_quiz", 5)
	viper.SetDefault("quiz.reward_rate", 0.02)
	viper.SetDefault("quiz.reward_cap", 5)
	viper.SetDefault("quiz.min_score_for_reward", 0)
	viper.SetDefault("quiz.time_limit", "3m")
	viper.SetDefault("quiz.grace_period", "15s")
	viper.SetDefault("quiz.enforce_time_limit", true)
	viper.SetDefault("quiz.timezone", "UTC")
	viper.SetDefault("referrals.recent_referrals", 5)
	viper.SetDefault("registration.default_region", "US")
	viper.SetDefault("registration.min_password_length", 8)
	viper.SetDefault("crons", map[string]string{
		"quiz_availability_notifications": "0 0 8 * * *",
		"update_team_stats_cache":         "0 */10 * * * *",
	})
}
