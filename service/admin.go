package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dhiraj-001/MLM-sub000/cache/team_stats"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/queries"
	"github.com/dhiraj-001/MLM-sub000/service/ledger"
	"github.com/dhiraj-001/MLM-sub000/service/manage_token"
)

// teamStatsWorkers bounds the graph walks started by a single admin listing
const teamStatsWorkers = 4

// GetUsers lists users for the admin console together with their team size and rank.
// Ranks come from the team stats cache, missing entries are computed on the fly.
func (service *Service) GetUsers(ctx context.Context, search string, page, limit int) (*model.UserList, error) {
	users, meta, err := service.repo.GetUsers(ctx, search, page, limit)
	if err != nil {
		return nil, err
	}

	list := make([]model.UserWithRank, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(teamStatsWorkers)
	for i := range users {
		i := i
		list[i].User = users[i]
		if entry, ok := team_stats.Get(users[i].ID); ok {
			list[i].DirectReferrals = entry.Stats.DirectReferrals
			list[i].TotalTeamMembers = entry.Stats.TotalTeamMembers
			list[i].CurrentRank = entry.Rank
			continue
		}
		g.Go(func() error {
			team, err := service.Graph.Descendants(gctx, &list[i].User)
			if err != nil {
				return err
			}
			stats := model.TeamStats{DirectReferrals: team.DirectReferrals(), TotalTeamMembers: team.TotalTeamMembers()}
			entry := service.cacheTeamStats(list[i].ID, stats)
			list[i].DirectReferrals = stats.DirectReferrals
			list[i].TotalTeamMembers = stats.TotalTeamMembers
			list[i].CurrentRank = entry.Rank
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &model.UserList{Users: list, Meta: meta}, nil
}

func (service *Service) GetUser(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := service.repo.GetUserByID(ctx, userID)
	return user, notFound(err)
}

// EditUser applies the non nil fields of the request and marks the user as edited by an admin
func (service *Service) EditUser(ctx context.Context, adminID, userID uint64, req model.UserEditRequest) (*model.User, error) {
	fields := make(map[string]interface{})
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		fields["username"] = username
	}
	if req.Phone != nil {
		phone, err := service.normalizePhone(*req.Phone)
		if err != nil {
			return nil, err
		}
		fields["phone"] = phone
	}
	if req.IsAdmin != nil {
		if !*req.IsAdmin && adminID == userID {
			return nil, model.NewValidationError("isAdmin", "admins can not revoke their own role")
		}
		fields["is_admin"] = *req.IsAdmin
	}
	if req.CanWithdraw != nil {
		fields["can_withdraw"] = *req.CanWithdraw
	}
	if len(fields) == 0 {
		return nil, model.NewValidationError("", "nothing to update")
	}

	if err := service.updateUserByAdmin(ctx, adminID, userID, fields); err != nil {
		return nil, err
	}
	return service.GetUser(ctx, userID)
}

func (service *Service) updateUserByAdmin(ctx context.Context, adminID, userID uint64, fields map[string]interface{}) error {
	fields["edited_by_admin"] = time.Now()
	if err := service.repo.UpdateUserFields(ctx, userID, fields); err != nil {
		if queries.IsUniqueViolation(err) {
			return errors.Wrap(model.ErrConflict, "email or username already in use")
		}
		return notFound(err)
	}
	log.Info().
		Str("section", "service:admin").
		Uint64("admin_id", adminID).
		Uint64("user_id", userID).
		Interface("fields", fieldNames(fields)).
		Msg("User updated by admin")
	return nil
}

func fieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}

// BlockUser blocks the account and revokes every issued token
func (service *Service) BlockUser(ctx context.Context, adminID, userID uint64, reason string) (*model.User, error) {
	if adminID == userID {
		return nil, model.NewValidationError("", "admins can not block themselves")
	}
	reason = strings.TrimSpace(reason)
	if err := service.updateUserByAdmin(ctx, adminID, userID, map[string]interface{}{
		"is_blocked":   true,
		"block_reason": reason,
	}); err != nil {
		return nil, err
	}
	if err := manage_token.RemoveAllUserTokens(userID); err != nil {
		log.Error().Err(err).Str("section", "service:admin").Uint64("user_id", userID).Msg("Unable to revoke tokens")
	}
	return service.accountStatusChanged(ctx, userID, AccountEmailTypeBlocked, "Account blocked", reason)
}

func (service *Service) UnblockUser(ctx context.Context, adminID, userID uint64) (*model.User, error) {
	if err := service.updateUserByAdmin(ctx, adminID, userID, map[string]interface{}{
		"is_blocked":   false,
		"block_reason": "",
	}); err != nil {
		return nil, err
	}
	return service.accountStatusChanged(ctx, userID, AccountEmailTypeUnblocked, "Account unblocked", "")
}

func (service *Service) BlockWithdrawals(ctx context.Context, adminID, userID uint64, reason string) (*model.User, error) {
	reason = strings.TrimSpace(reason)
	if err := service.updateUserByAdmin(ctx, adminID, userID, map[string]interface{}{
		"can_withdraw":          false,
		"withdraw_block_reason": reason,
	}); err != nil {
		return nil, err
	}
	return service.accountStatusChanged(ctx, userID, AccountEmailTypeWithdrawalsBlocked, "Withdrawals blocked", reason)
}

func (service *Service) UnblockWithdrawals(ctx context.Context, adminID, userID uint64) (*model.User, error) {
	if err := service.updateUserByAdmin(ctx, adminID, userID, map[string]interface{}{
		"can_withdraw":          true,
		"withdraw_block_reason": "",
	}); err != nil {
		return nil, err
	}
	return service.accountStatusChanged(ctx, userID, AccountEmailTypeWithdrawalsUnblocked, "Withdrawals unblocked", "")
}

// accountStatusChanged notifies and emails the user after a block or unblock
func (service *Service) accountStatusChanged(ctx context.Context, userID uint64, emailType AccountEmailType, title, reason string) (*model.User, error) {
	user, err := service.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	message := emailType.String() + "."
	detail := ""
	if reason != "" {
		detail = "Reason: " + reason
		message += " " + detail
	}
	service.notify(ctx, userID, title, message, model.NotificationTypeOther)
	service.AccountEmail(user, emailType, detail)
	return user, nil
}

func (service *Service) GetAdminDeposits(ctx context.Context, status model.DepositStatus, page, limit int) (*model.DepositList, error) {
	if status != "" && !status.IsValid() {
		return nil, model.NewValidationError("status", "unknown deposit status %q", status)
	}
	deposits, meta, err := service.repo.GetDeposits(ctx, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &model.DepositList{Deposits: deposits, Meta: meta}, nil
}

func (service *Service) GetAdminWithdrawals(ctx context.Context, status model.WithdrawalStatus, page, limit int) (*model.WithdrawalList, error) {
	if status != "" && !status.IsValid() {
		return nil, model.NewValidationError("status", "unknown withdrawal status %q", status)
	}
	withdrawals, meta, err := service.repo.GetWithdrawals(ctx, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &model.WithdrawalList{Withdrawals: withdrawals, Meta: meta}, nil
}

// ApproveDeposit moves a pending deposit to approved and credits the deposit balance of its owner
func (service *Service) ApproveDeposit(ctx context.Context, adminID, depositID uint64, remark string) (*model.Deposit, error) {
	return service.reviewDeposit(ctx, adminID, depositID, model.DepositStatusApproved, remark)
}

// RejectDeposit moves a pending deposit to rejected, balances are not touched
func (service *Service) RejectDeposit(ctx context.Context, adminID, depositID uint64, remark string) (*model.Deposit, error) {
	return service.reviewDeposit(ctx, adminID, depositID, model.DepositStatusRejected, remark)
}

func (service *Service) reviewDeposit(ctx context.Context, adminID, depositID uint64, status model.DepositStatus, remark string) (*model.Deposit, error) {
	current, err := service.repo.GetDepositByID(ctx, depositID)
	if err != nil {
		return nil, notFound(err)
	}

	var deposit *model.Deposit
	err = service.Ledger.Run(ctx, current.UserID, func(tx *ledger.Tx) error {
		d, err := queries.LockDeposit(tx.DB, depositID)
		if err != nil {
			return notFound(err)
		}
		if err := queries.ReviewDeposit(tx.DB, d, status, adminID, strings.TrimSpace(remark)); err != nil {
			return err
		}
		deposit = d
		if status != model.DepositStatusApproved {
			return nil
		}
		_, err = tx.Apply(ledger.Credit(d.UserID, model.TransactionKindDeposit, model.BucketDeposit, d.Amount.Big()).
			Related(model.RelatedObjectDeposit, strconv.FormatUint(d.ID, 10)))
		return err
	})
	if err != nil {
		return nil, err
	}

	service.publish(model.EventDepositReviewed, deposit.UserID, deposit)
	message := fmt.Sprintf("Your deposit of %s was %s.", deposit.Amount.String(), deposit.Status)
	if deposit.Remark != "" && status == model.DepositStatusRejected {
		message += " Reason: " + deposit.Remark
	}
	service.notify(ctx, deposit.UserID, "Deposit "+deposit.Status.String(), message, model.NotificationTypeDeposit)
	return deposit, nil
}

// ApproveWithdrawal marks a pending withdrawal as paid out. The amount was held at submission.
func (service *Service) ApproveWithdrawal(ctx context.Context, adminID, withdrawalID uint64) (*model.Withdrawal, error) {
	return service.reviewWithdrawal(ctx, adminID, withdrawalID, model.WithdrawalStatusApproved, "")
}

// RejectWithdrawal closes a pending withdrawal and refunds the held amount
func (service *Service) RejectWithdrawal(ctx context.Context, adminID, withdrawalID uint64, reason string) (*model.Withdrawal, error) {
	return service.reviewWithdrawal(ctx, adminID, withdrawalID, model.WithdrawalStatusRejected, strings.TrimSpace(reason))
}

func (service *Service) reviewWithdrawal(ctx context.Context, adminID, withdrawalID uint64, status model.WithdrawalStatus, reason string) (*model.Withdrawal, error) {
	current, err := service.repo.GetWithdrawalByID(ctx, withdrawalID)
	if err != nil {
		return nil, notFound(err)
	}

	var withdrawal *model.Withdrawal
	err = service.Ledger.Run(ctx, current.UserID, func(tx *ledger.Tx) error {
		w, err := queries.LockWithdrawal(tx.DB, withdrawalID)
		if err != nil {
			return notFound(err)
		}
		if err := queries.CloseWithdrawal(tx.DB, w, status, &adminID, reason); err != nil {
			return err
		}
		withdrawal = w
		if status != model.WithdrawalStatusRejected {
			return nil
		}
		_, err = tx.Apply(refundMutations(w, "withdrawal rejected")...)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.publish(model.EventWithdrawalReviewed, withdrawal.UserID, withdrawal)
	var (
		emailType AccountEmailType
		message   string
	)
	if status == model.WithdrawalStatusApproved {
		emailType = AccountEmailTypeWithdrawalApproved
		message = fmt.Sprintf("Your withdrawal of %s was approved. %s will be paid out.", withdrawal.Amount.String(), withdrawal.NetAmount.String())
	} else {
		emailType = AccountEmailTypeWithdrawalRejected
		message = fmt.Sprintf("Your withdrawal of %s was rejected and the amount was returned to your balance.", withdrawal.Amount.String())
		if reason != "" {
			message += " Reason: " + reason
		}
	}
	service.notify(ctx, withdrawal.UserID, "Withdrawal "+string(status), message, model.NotificationTypeWithdrawal)
	if user, err := service.repo.GetUserByID(ctx, withdrawal.UserID); err == nil {
		service.AccountEmail(user, emailType, message)
	}
	return withdrawal, nil
}

// AddDeposit credits the deposit balance of a user on their behalf, recorded as an approved deposit
func (service *Service) AddDeposit(ctx context.Context, adminID, userID uint64, req model.AdminDepositRequest) (*model.Deposit, error) {
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	deposit := &model.Deposit{
		UserID:        userID,
		Amount:        model.NewMoney(amount),
		TransactionID: "admin-" + xid.New().String(),
		Status:        model.DepositStatusApproved,
		AddedByAdmin:  true,
		Remark:        strings.TrimSpace(req.Remark),
		ReviewedBy:    &adminID,
		ReviewedAt:    &now,
	}
	err = service.Ledger.Run(ctx, userID, func(tx *ledger.Tx) error {
		if _, err := tx.User(); err != nil {
			return notFound(err)
		}
		if err := queries.CreateDepositTx(tx.DB, deposit); err != nil {
			return err
		}
		_, err := tx.Apply(ledger.Credit(userID, model.TransactionKindAdminCredit, model.BucketDeposit, amount).
			Related(model.RelatedObjectDeposit, strconv.FormatUint(deposit.ID, 10)).
			WithComment(deposit.Remark))
		return err
	})
	if err != nil {
		return nil, err
	}

	service.notify(ctx, userID, "Deposit added",
		fmt.Sprintf("%s was added to your deposit balance.", deposit.Amount.String()),
		model.NotificationTypeDeposit)
	return deposit, nil
}

// CreditCommission pays a commission into the earning balance of the user
func (service *Service) CreditCommission(ctx context.Context, adminID, userID uint64, req model.CommissionCreditRequest) (*model.BalancesResponse, error) {
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		comment = "referral commission"
	}
	balances, _, err := service.Ledger.Apply(ctx,
		ledger.Credit(userID, model.TransactionKindCommission, model.BucketEarning, amount).
			Related(model.RelatedObjectUser, strconv.FormatUint(adminID, 10)).
			WithComment(comment))
	if err != nil {
		return nil, notFound(err)
	}

	service.notify(ctx, userID, "Commission received",
		fmt.Sprintf("%s was added to your earnings.", model.NewMoney(amount).String()),
		model.NotificationTypeReward)
	return balancesResponse(balances), nil
}

// ReconcileUser compares the stored balances of the user with their ledger
func (service *Service) ReconcileUser(ctx context.Context, userID uint64) (*model.ReconcileReport, error) {
	report, err := service.Ledger.Reconcile(ctx, userID)
	return report, notFound(err)
}
