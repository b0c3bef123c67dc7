package commands

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	cfg "github.com/dhiraj-001/MLM-sub000/config"

	"github.com/golang-migrate/migrate/v4"

	// import support for file mime type
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationsPath is the location of the sql migrations
const MigrationsPath = "file://./db/migrations"

// DatabaseURI builds the connection string of the writer database
func DatabaseURI(dbConf cfg.DatabaseConfig) string {
	sslmode := dbConf.SSLmode
	if sslmode == "" {
		sslmode = "disable"
	}
	uri := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbConf.Username, dbConf.Password),
		Host:     fmt.Sprintf("%s:%d", dbConf.Host, dbConf.Port),
		Path:     "/" + dbConf.Name,
		RawQuery: "sslmode=" + sslmode,
	}
	return uri.String()
}

// Migrate the current database schema to the new version
func Migrate(config cfg.Config) {
	m, err := migrate.New(MigrationsPath, DatabaseURI(config.DatabaseCluster.Writer))
	if err != nil {
		log.Fatal().Err(err).Str("section", "migrate").Msg("Unable to connect to database [WRITER]")
		return
	}

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		if errMapped, ok := err.(migrate.ErrDirty); ok {
			log.Fatal().Err(err).Str("section", "migrate").Int("version", errMapped.Version).Msg("Unable to execute migration")
		} else {
			log.Fatal().Err(err).Str("section", "migrate").Msg("Unable to execute unknown migration")
		}
		return
	}
	log.Info().Str("section", "migrate").Msg("Migrations executed successfully")
}
