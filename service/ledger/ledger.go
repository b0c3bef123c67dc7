package ledger

import (
	"context"
	"time"

	"github.com/ericlagergren/decimal"
	gouuid "github.com/nu7hatch/gouuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/monitor"
	"github.com/dhiraj-001/MLM-sub000/net/kafka"
	"github.com/dhiraj-001/MLM-sub000/queries"
)

// Mutation is a single credit or debit of a bucket
type Mutation struct {
	UserID            uint64
	Kind              model.TransactionKind
	Bucket            model.Bucket
	Direction         model.Direction
	Amount            *decimal.Big
	RelatedObjectType model.RelatedObjectType
	RelatedObjectID   string
	Comment           string
}

// Credit godoc
func Credit(userID uint64, kind model.TransactionKind, bucket model.Bucket, amount *decimal.Big) Mutation {
	return Mutation{UserID: userID, Kind: kind, Bucket: bucket, Direction: model.DirectionCredit, Amount: amount}
}

// Debit godoc
func Debit(userID uint64, kind model.TransactionKind, bucket model.Bucket, amount *decimal.Big) Mutation {
	return Mutation{UserID: userID, Kind: kind, Bucket: bucket, Direction: model.DirectionDebit, Amount: amount}
}

// Related links the mutation to the object that caused it
func (m Mutation) Related(objectType model.RelatedObjectType, objectID string) Mutation {
	m.RelatedObjectType = objectType
	m.RelatedObjectID = objectID
	return m
}

func (m Mutation) WithComment(comment string) Mutation {
	m.Comment = comment
	return m
}

// Ledger is the only writer of user balances.
// Every mutation runs in a database transaction that holds the user row lock, updates the three
// balances together and appends one ledger entry.
type Ledger struct {
	repo      *queries.Repo
	locks     *userLocks
	publisher kafka.Publisher
}

// New ledger
func New(repo *queries.Repo, publisher kafka.Publisher) *Ledger {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &Ledger{
		repo:      repo,
		locks:     newUserLocks(),
		publisher: publisher,
	}
}

// Tx is a ledger transaction scoped to one user
type Tx struct {
	DB      *gorm.DB
	userID  uint64
	user    *model.User
	entries []*model.LedgerEntry
	tried   []Mutation
}

// User returns the user row, locking it on first use
func (tx *Tx) User() (*model.User, error) {
	if tx.user != nil {
		return tx.user, nil
	}
	user, err := queries.LockUser(tx.DB, tx.userID)
	if err != nil {
		return nil, err
	}
	if err := Check(user.Balances()); err != nil {
		log.Error().Err(err).
			Str("section", "ledger").
			Uint64("user_id", user.ID).
			Str("balance", user.Balance.String()).
			Str("deposit_balance", user.DepositBalance.String()).
			Str("earning_balance", user.EarningBalance.String()).
			Msg("Stored balances do not add up")
		return nil, err
	}
	tx.user = user
	return user, nil
}

// Apply runs the mutations in order and persists the balances and the ledger entries.
// Any failure leaves the transaction to be rolled back by the caller.
func (tx *Tx) Apply(mutations ...Mutation) (model.Balances, error) {
	user, err := tx.User()
	if err != nil {
		return model.Balances{}, err
	}
	balances := user.Balances()
	entries := make([]*model.LedgerEntry, 0, len(mutations))
	for _, m := range mutations {
		tx.tried = append(tx.tried, m)
		if m.UserID == 0 {
			m.UserID = tx.userID
		}
		if m.UserID != tx.userID {
			return model.Balances{}, ErrMixedUsers
		}
		if !m.Kind.IsValid() {
			return model.Balances{}, ErrInvalidKind
		}
		// the entry and the bucket must move by the same stored value
		m.Amount = Quantize(m.Amount)
		next, err := Apply(balances, m.Bucket, m.Direction, m.Amount)
		if err != nil {
			return model.Balances{}, err
		}
		balances = next
		entries = append(entries, newEntry(m, balances))
	}

	if err := queries.SaveBalances(tx.DB, tx.userID, balances); err != nil {
		return model.Balances{}, err
	}
	if err := queries.InsertLedgerEntries(tx.DB, entries); err != nil {
		return model.Balances{}, err
	}
	user.SetBalances(balances)
	tx.entries = append(tx.entries, entries...)
	return balances, nil
}

func newEntry(m Mutation, after model.Balances) *model.LedgerEntry {
	refID := ""
	if id, err := gouuid.NewV4(); err == nil {
		refID = id.String()
	}
	return &model.LedgerEntry{
		RefID:               refID,
		UserID:              m.UserID,
		Kind:                m.Kind,
		Bucket:              m.Bucket,
		Direction:           m.Direction,
		Amount:              model.NewMoney(m.Amount),
		BalanceAfter:        model.NewMoney(after.Total),
		DepositBalanceAfter: model.NewMoney(after.Deposit),
		EarningBalanceAfter: model.NewMoney(after.Earning),
		RelatedObjectType:   m.RelatedObjectType,
		RelatedObjectID:     m.RelatedObjectID,
		Comment:             m.Comment,
		CreatedAt:           time.Now(),
	}
}

// Run executes fn in a transaction serialized with every other mutation of the user.
// Entries written by fn are published once the transaction is committed.
func (l *Ledger) Run(ctx context.Context, userID uint64, fn func(tx *Tx) error) error {
	unlock := l.locks.acquire(userID)
	defer unlock()

	ltx := &Tx{userID: userID}
	err := l.repo.Conn.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		ltx.DB = db
		return fn(ltx)
	})
	if err != nil {
		for _, m := range ltx.tried {
			monitor.LedgerOperations.WithLabelValues(string(m.Kind), string(m.Direction), "failed").Inc()
		}
		return err
	}
	l.Notify(ctx, ltx.entries)
	return nil
}

// Apply runs the mutations of a single user in their own transaction
func (l *Ledger) Apply(ctx context.Context, mutations ...Mutation) (model.Balances, []*model.LedgerEntry, error) {
	if len(mutations) == 0 {
		return model.Balances{}, nil, ErrInvalidAmount
	}
	var (
		balances model.Balances
		entries  []*model.LedgerEntry
	)
	err := l.Run(ctx, mutations[0].UserID, func(tx *Tx) error {
		var err error
		balances, err = tx.Apply(mutations...)
		entries = tx.entries
		return err
	})
	if err != nil {
		return model.Balances{}, nil, err
	}
	return balances, entries, nil
}

// Credit adds amount to the bucket of the user
func (l *Ledger) Credit(ctx context.Context, userID uint64, kind model.TransactionKind, bucket model.Bucket, amount *decimal.Big) (model.Balances, error) {
	balances, _, err := l.Apply(ctx, Credit(userID, kind, bucket, amount))
	return balances, err
}

// Debit removes amount from the bucket of the user, failing when the bucket would go negative
func (l *Ledger) Debit(ctx context.Context, userID uint64, kind model.TransactionKind, bucket model.Bucket, amount *decimal.Big) (model.Balances, error) {
	balances, _, err := l.Apply(ctx, Debit(userID, kind, bucket, amount))
	return balances, err
}

// Transfer moves amount from the earning balance to the deposit balance
func (l *Ledger) Transfer(ctx context.Context, userID uint64, amount *decimal.Big) (model.Balances, error) {
	if !conv.IsPositive(amount) {
		return model.Balances{}, ErrInvalidAmount
	}
	balances, _, err := l.Apply(ctx,
		Debit(userID, model.TransactionKindTransfer, model.BucketEarning, amount),
		Credit(userID, model.TransactionKindTransfer, model.BucketDeposit, amount),
	)
	return balances, err
}

// Notify publishes the committed entries and counts them
func (l *Ledger) Notify(ctx context.Context, entries []*model.LedgerEntry) {
	for _, entry := range entries {
		monitor.LedgerOperations.WithLabelValues(string(entry.Kind), string(entry.Direction), "ok").Inc()
		if err := l.publisher.Publish(ctx, model.NewEvent(model.EventLedgerEntry, entry.UserID, entry)); err != nil {
			log.Warn().Err(err).
				Str("section", "ledger").
				Str("ref_id", entry.RefID).
				Msg("Unable to publish ledger entry")
		}
	}
}

// Reconcile compares the stored balances of a user with the sum of their ledger entries
func (l *Ledger) Reconcile(ctx context.Context, userID uint64) (*model.ReconcileReport, error) {
	user, err := l.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := l.repo.GetBucketTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	ledgerDeposit := conv.NewDecimalWithPrecision()
	ledgerEarning := conv.NewDecimalWithPrecision()
	for _, t := range totals {
		switch t.Bucket {
		case model.BucketDeposit:
			ledgerDeposit = t.Total.Big()
		case model.BucketEarning:
			ledgerEarning = t.Total.Big()
		}
	}

	b := user.Balances()
	report := &model.ReconcileReport{
		UserID:         userID,
		DepositBalance: user.DepositBalance,
		EarningBalance: user.EarningBalance,
		Balance:        user.Balance,
		LedgerDeposit:  model.NewMoney(ledgerDeposit),
		LedgerEarning:  model.NewMoney(ledgerEarning),
	}
	report.Consistent = Check(b) == nil &&
		b.Deposit.Cmp(ledgerDeposit) == 0 &&
		b.Earning.Cmp(ledgerEarning) == 0
	if !report.Consistent {
		log.Error().
			Str("section", "ledger").
			Uint64("user_id", userID).
			Str("deposit_balance", user.DepositBalance.String()).
			Str("ledger_deposit", conv.FormatMoney(ledgerDeposit)).
			Str("earning_balance", user.EarningBalance.String()).
			Str("ledger_earning", conv.FormatMoney(ledgerEarning)).
			Msg("Balances do not reconcile with the ledger")
	}
	return report, nil
}
