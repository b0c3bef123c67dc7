package service

import (
	"context"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/queries"
)

func setupRepo() (*queries.Repo, sqlmock.Sqlmock) {
	logger := log.With().Str("test", "service").Str("method", "setupRepo").Logger()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		logger.Fatal().Msgf("can't create sqlmock: %s", err)
	}
	dialector := postgres.New(postgres.Config{
		DSN:                  "postgres-mock",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		logger.Fatal().Msgf("can't open gorm connection: %s", err)
	}
	return &queries.Repo{Conn: gormDB, ConnReader: gormDB, ConnReaderAdmin: gormDB}, mock
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			API: config.APIConfig{JWTTokenSecret: "test-secret", JWTTokenDuration: 24},
		},
		Wallet: config.WalletConfig{MinWithdrawal: 50, WithdrawalFee: 0.05},
		Quiz: config.QuizConfig{
			MinBalance:       30,
			QuestionsPerQuiz: 5,
			RewardRate:       0.02,
			RewardCap:        5,
			TimeLimit:        3 * time.Minute,
			GracePeriod:      15 * time.Second,
			EnforceTimeLimit: true,
		},
		Registration: config.RegistrationConfig{DefaultRegion: "US", MinPasswordLength: 8},
	}
}

// newTestService builds a service on top of sqlmock. Notifications sent as a side effect are not
// expected by the mock, they fail and are only logged.
func newTestService() (*Service, sqlmock.Sqlmock) {
	repo, mock := setupRepo()
	return NewService(context.Background(), testConfig(), repo, nil, nil), mock
}

var userColumns = []string{
	"id", "email", "username", "password_hash", "referral_code",
	"balance", "deposit_balance", "earning_balance", "is_blocked", "can_withdraw", "is_admin",
}

type userFixture struct {
	ID          uint64
	Password    string
	Deposit     string
	Earning     string
	Total       string
	IsBlocked   bool
	CanWithdraw bool
}

func (u userFixture) rows() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(
		u.ID, "user@example.com", "user", u.Password, "ABCDEFGH",
		u.Total, u.Deposit, u.Earning, u.IsBlocked, u.CanWithdraw, false,
	)
}

func member(deposit, earning, total string) userFixture {
	return userFixture{ID: 1, Deposit: deposit, Earning: earning, Total: total, CanWithdraw: true}
}

func expectLockUser(mock sqlmock.Sqlmock, u userFixture) {
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 LIMIT 1 FOR UPDATE`).
		WithArgs(u.ID).
		WillReturnRows(u.rows())
}

func expectGetUser(mock sqlmock.Sqlmock, u userFixture) {
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 LIMIT 1$`).
		WithArgs(u.ID).
		WillReturnRows(u.rows())
}

func expectBalances(mock sqlmock.Sqlmock, entries int) {
	mock.ExpectExec(`UPDATE "users" SET "balance"=\$1,"deposit_balance"=\$2,"earning_balance"=\$3,"updated_at"=\$4 WHERE id = \$5`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rows := sqlmock.NewRows([]string{"id"})
	for i := 1; i <= entries; i++ {
		rows.AddRow(i)
	}
	mock.ExpectQuery(`INSERT INTO "ledger_entries" .* RETURNING "id"`).WillReturnRows(rows)
}

var withdrawalColumns = []string{"id", "user_id", "amount", "fee_amount", "net_amount", "from_earning", "from_deposit", "status"}

func withdrawalRow(id, userID uint64, status model.WithdrawalStatus) *sqlmock.Rows {
	return sqlmock.NewRows(withdrawalColumns).AddRow(id, userID, "60", "3", "57", "30", "30", status)
}

var depositColumns = []string{"id", "user_id", "amount", "transaction_id", "status"}

func depositRow(id, userID uint64, status model.DepositStatus) *sqlmock.Rows {
	return sqlmock.NewRows(depositColumns).AddRow(id, userID, "100", "TX-100", status)
}
