package queries

import (
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dhiraj-001/MLM-sub000/config"
)

// Repo holds the database connections: Conn for writes, ConnReader for user facing reads
// and ConnReaderAdmin for the heavier admin listings
type Repo struct {
	Conn            *gorm.DB
	ConnReader      *gorm.DB
	ConnReaderAdmin *gorm.DB
}

// NewRepo opens the writer and reader connections. Readers fall back to the writer when not configured.
func NewRepo(cfg config.DatabaseClusterConfig) (*Repo, error) {
	writer, err := open(cfg.Writer, "WRITER")
	if err != nil {
		return nil, err
	}
	repo := &Repo{Conn: writer, ConnReader: writer, ConnReaderAdmin: writer}
	if cfg.Reader.Host != "" {
		if repo.ConnReader, err = open(cfg.Reader, "READER"); err != nil {
			return nil, err
		}
	}
	if cfg.ReaderAdmin.Host != "" {
		if repo.ConnReaderAdmin, err = open(cfg.ReaderAdmin, "READER_ADMIN"); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func open(dbConf config.DatabaseConfig, name string) (*gorm.DB, error) {
	sslmode := dbConf.SSLmode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=%s",
		dbConf.Host, dbConf.Port, dbConf.Username, dbConf.Password, dbConf.Name, sslmode, dbConf.ApplicationName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error().Err(err).Str("section", "queries").Str("connection", name).Msg("Unable to connect to database")
		return nil, errors.Wrapf(err, "connect %s", name)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dbConf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConf.MaxOpenConns)
		sqlDB.SetMaxIdleConns(dbConf.MaxOpenConns / 2)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	log.Info().Str("section", "queries").Str("connection", name).Str("host", dbConf.Host).Msg("Connected to database")
	return db, nil
}

// Close all connections
func (repo *Repo) Close() {
	for _, conn := range []*gorm.DB{repo.Conn, repo.ConnReader, repo.ConnReaderAdmin} {
		if conn == nil {
			continue
		}
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// IsUniqueViolation reports whether err was raised by a unique constraint
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsNotFound godoc
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
