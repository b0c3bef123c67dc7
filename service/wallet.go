package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/queries"
	"github.com/dhiraj-001/MLM-sub000/service/ledger"
)

// parseAmount parses a request amount, rejecting malformed, zero, negative and sub cent values
func parseAmount(field, value string) (*decimal.Big, error) {
	amount, err := conv.ParseAmount(value)
	if err != nil {
		return nil, model.NewValidationError(field, "invalid amount")
	}
	if !conv.IsPositive(amount) {
		return nil, ledger.ErrInvalidAmount
	}
	if !conv.FitsScale(amount, conv.MoneyScale) {
		return nil, model.NewValidationError(field, "at most %d decimals are allowed", conv.MoneyScale)
	}
	return amount, nil
}

// CreateDeposit records a deposit claim waiting for admin review
func (service *Service) CreateDeposit(ctx context.Context, userID uint64, req model.DepositRequest) (*model.Deposit, error) {
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	transactionID := strings.TrimSpace(req.TransactionID)
	if len(transactionID) < 3 {
		return nil, model.NewValidationError("transactionId", "must have at least 3 characters")
	}
	if _, err := service.GetActiveUser(ctx, userID); err != nil {
		return nil, err
	}

	deposit := &model.Deposit{
		UserID:        userID,
		Amount:        model.NewMoney(amount),
		TransactionID: transactionID,
		Status:        model.DepositStatusPending,
	}
	if err := service.repo.CreateDeposit(ctx, deposit); err != nil {
		if queries.IsUniqueViolation(err) {
			return nil, errors.Wrap(model.ErrConflict, "transaction id already submitted")
		}
		return nil, err
	}

	service.notify(ctx, userID, "Deposit submitted",
		fmt.Sprintf("Your deposit of %s is pending review.", deposit.Amount.String()),
		model.NotificationTypeDeposit)
	return deposit, nil
}

func (service *Service) GetDeposits(ctx context.Context, userID uint64, page, limit int) (*model.DepositList, error) {
	deposits, meta, err := service.repo.GetDepositsByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &model.DepositList{Deposits: deposits, Meta: meta}, nil
}

// withdrawalFee returns the fee withheld from the payout and the net amount
func (service *Service) withdrawalFee(amount *decimal.Big) (rate, fee, net *decimal.Big) {
	rate = conv.FromFloat(service.cfg.Wallet.WithdrawalFee)
	fee = conv.RoundMoney(conv.Mul(amount, rate))
	net = conv.Sub(amount, fee)
	return rate, fee, net
}

// CreateWithdrawal holds the gross amount from the balance, earning bucket first, and records a
// pending withdrawal
func (service *Service) CreateWithdrawal(ctx context.Context, userID uint64, req model.WithdrawalRequest) (*model.Withdrawal, error) {
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	minimum := conv.FromFloat(service.cfg.Wallet.MinWithdrawal)
	if amount.Cmp(minimum) < 0 {
		return nil, model.NewValidationError("amount", "minimum withdrawal is %s", conv.FormatMoney(minimum))
	}

	var withdrawal *model.Withdrawal
	err = service.Ledger.Run(ctx, userID, func(tx *ledger.Tx) error {
		user, err := tx.User()
		if err != nil {
			return notFound(err)
		}
		if user.IsBlocked {
			return model.ErrUserBlocked
		}
		if !user.CanWithdraw {
			return model.ErrWithdrawalsBlocked
		}
		fromEarning, fromDeposit, err := ledger.SplitDebit(user.Balances(), amount)
		if err != nil {
			return err
		}

		rate, fee, net := service.withdrawalFee(amount)
		withdrawal = &model.Withdrawal{
			UserID:           userID,
			Amount:           model.NewMoney(amount),
			FeeRate:          model.NewMoney(rate),
			FeeAmount:        model.NewMoney(fee),
			NetAmount:        model.NewMoney(net),
			FromEarning:      model.NewMoney(fromEarning),
			FromDeposit:      model.NewMoney(fromDeposit),
			ProofURL:         strings.TrimSpace(req.ProofURL),
			AccountReference: strings.TrimSpace(req.AccountReference),
			Status:           model.WithdrawalStatusPending,
		}
		if err := queries.CreateWithdrawalTx(tx.DB, withdrawal); err != nil {
			return err
		}

		_, err = tx.Apply(holdMutations(withdrawal)...)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.notify(ctx, userID, "Withdrawal requested",
		fmt.Sprintf("Your withdrawal of %s is pending review. You will receive %s after a fee of %s.",
			withdrawal.Amount.String(), withdrawal.NetAmount.String(), withdrawal.FeeAmount.String()),
		model.NotificationTypeWithdrawal)
	return withdrawal, nil
}

func withdrawalRef(w *model.Withdrawal) string {
	return strconv.FormatUint(w.ID, 10)
}

// holdMutations debit the split of a withdrawal from the two buckets
func holdMutations(w *model.Withdrawal) []ledger.Mutation {
	mutations := make([]ledger.Mutation, 0, 2)
	if fromEarning := w.FromEarning.Big(); fromEarning.Sign() > 0 {
		mutations = append(mutations, ledger.Debit(w.UserID, model.TransactionKindWithdrawal, model.BucketEarning, fromEarning).
			Related(model.RelatedObjectWithdrawal, withdrawalRef(w)))
	}
	if fromDeposit := w.FromDeposit.Big(); fromDeposit.Sign() > 0 {
		mutations = append(mutations, ledger.Debit(w.UserID, model.TransactionKindWithdrawal, model.BucketDeposit, fromDeposit).
			Related(model.RelatedObjectWithdrawal, withdrawalRef(w)))
	}
	return mutations
}

// refundMutations give the held split of a withdrawal back to the buckets it came from
func refundMutations(w *model.Withdrawal, comment string) []ledger.Mutation {
	mutations := make([]ledger.Mutation, 0, 2)
	if fromEarning := w.FromEarning.Big(); fromEarning.Sign() > 0 {
		mutations = append(mutations, ledger.Credit(w.UserID, model.TransactionKindRefund, model.BucketEarning, fromEarning).
			Related(model.RelatedObjectWithdrawal, withdrawalRef(w)).
			WithComment(comment))
	}
	if fromDeposit := w.FromDeposit.Big(); fromDeposit.Sign() > 0 {
		mutations = append(mutations, ledger.Credit(w.UserID, model.TransactionKindRefund, model.BucketDeposit, fromDeposit).
			Related(model.RelatedObjectWithdrawal, withdrawalRef(w)).
			WithComment(comment))
	}
	return mutations
}

// CancelWithdrawal lets a user cancel their own pending withdrawal and refunds the hold
func (service *Service) CancelWithdrawal(ctx context.Context, userID, withdrawalID uint64) (*model.Withdrawal, error) {
	var withdrawal *model.Withdrawal
	err := service.Ledger.Run(ctx, userID, func(tx *ledger.Tx) error {
		w, err := queries.LockWithdrawal(tx.DB, withdrawalID)
		if err != nil {
			return notFound(err)
		}
		if w.UserID != userID {
			return model.ErrNotFound
		}
		if err := queries.CloseWithdrawal(tx.DB, w, model.WithdrawalStatusCancelled, nil, "cancelled by user"); err != nil {
			return err
		}
		withdrawal = w
		_, err = tx.Apply(refundMutations(w, "withdrawal cancelled")...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}

func (service *Service) GetWithdrawals(ctx context.Context, userID uint64, page, limit int) (*model.WithdrawalList, error) {
	withdrawals, meta, err := service.repo.GetWithdrawalsByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &model.WithdrawalList{Withdrawals: withdrawals, Meta: meta}, nil
}

// Transfer moves earnings into the deposit balance
func (service *Service) Transfer(ctx context.Context, userID uint64, req model.TransferRequest) (*model.BalancesResponse, error) {
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	if _, err := service.GetActiveUser(ctx, userID); err != nil {
		return nil, err
	}
	balances, err := service.Ledger.Transfer(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	return balancesResponse(balances), nil
}

func balancesResponse(b model.Balances) *model.BalancesResponse {
	return &model.BalancesResponse{
		Balance:        model.NewMoney(b.Total),
		DepositBalance: model.NewMoney(b.Deposit),
		EarningBalance: model.NewMoney(b.Earning),
	}
}

// GetLedger returns a page of the ledger of the user, optionally filtered by kind
func (service *Service) GetLedger(ctx context.Context, userID uint64, kind model.TransactionKind, page, limit int) (*model.LedgerEntryList, error) {
	if kind != "" && !kind.IsValid() {
		return nil, model.NewValidationError("kind", "unknown transaction kind %q", kind)
	}
	entries, meta, err := service.repo.GetLedgerEntries(ctx, userID, kind, page, limit)
	if err != nil {
		return nil, err
	}
	return &model.LedgerEntryList{Entries: entries, Meta: meta}, nil
}

var statementColumnWidths = []int{45, 30, 22, 18, 18, 30, 30, 30, 30, 80}

// statementRows renders the ledger entries as a table with a header row
func statementRows(entries []model.LedgerEntry) [][]string {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{"Date", "Kind", "Bucket", "Direction", "Reference", "Amount", "Balance", "Deposit", "Earning", "Comment"})
	for _, e := range entries {
		reference := ""
		if e.RelatedObjectType != "" {
			reference = fmt.Sprintf("%s #%s", e.RelatedObjectType, e.RelatedObjectID)
		}
		rows = append(rows, []string{
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			e.Kind.String(),
			string(e.Bucket),
			string(e.Direction),
			reference,
			e.Amount.String(),
			e.BalanceAfter.String(),
			e.DepositBalanceAfter.String(),
			e.EarningBalanceAfter.String(),
			e.Comment,
		})
	}
	return rows
}

// Statement renders the ledger entries of the user between from (inclusive) and to (exclusive)
// as a pdf or csv file
func (service *Service) Statement(ctx context.Context, userID uint64, from, to time.Time, format string) (*model.GeneratedFile, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "csv" {
		return nil, model.NewValidationError("format", "must be pdf or csv")
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, model.NewValidationError("from", "must be before to")
	}
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	entries, err := service.repo.GetLedgerEntriesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	rows := statementRows(entries)

	var data []byte
	switch format {
	case "csv":
		data, err = CSVExport(rows)
	default:
		period := "All transactions"
		if !from.IsZero() || !to.IsZero() {
			period = fmt.Sprintf("%s - %s", formatDay(from), formatDay(to))
		}
		data, err = PDFExport(rows, statementColumnWidths, "Account statement "+user.Username, period)
	}
	if err != nil {
		log.Error().Err(err).
			Str("section", "service:wallet").
			Str("action", "statement").
			Uint64("user_id", userID).
			Msg("Unable to generate statement")
		return nil, err
	}
	return &model.GeneratedFile{Type: format, DataType: "statement", Data: data}, nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "..."
	}
	return t.UTC().Format("2 Jan 2006")
}
