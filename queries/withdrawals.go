package queries

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// CreateWithdrawalTx godoc
func CreateWithdrawalTx(tx *gorm.DB, withdrawal *model.Withdrawal) error {
	return tx.Create(withdrawal).Error
}

// LockWithdrawal loads a withdrawal for update inside the given transaction
func LockWithdrawal(tx *gorm.DB, id uint64) (*model.Withdrawal, error) {
	withdrawal := model.Withdrawal{}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&withdrawal).Error
	return &withdrawal, err
}

// CloseWithdrawal moves a pending withdrawal to its final status
func CloseWithdrawal(tx *gorm.DB, withdrawal *model.Withdrawal, status model.WithdrawalStatus, reviewerID *uint64, reason string) error {
	now := time.Now()
	fields := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if reviewerID != nil {
		fields["reviewed_by"] = *reviewerID
		fields["reviewed_at"] = now
	}
	if reason != "" {
		fields["reason"] = reason
	}
	db := tx.Model(&model.Withdrawal{}).
		Where("id = ? AND status = ?", withdrawal.ID, model.WithdrawalStatusPending).
		Updates(fields)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return model.ErrInvalidTransition
	}
	withdrawal.Status = status
	withdrawal.Reason = reason
	if reviewerID != nil {
		withdrawal.ReviewedBy = reviewerID
		withdrawal.ReviewedAt = &now
	}
	return nil
}

// GetWithdrawalByID godoc
func (repo *Repo) GetWithdrawalByID(ctx context.Context, id uint64) (*model.Withdrawal, error) {
	withdrawal := model.Withdrawal{}
	err := repo.Conn.WithContext(ctx).Where("id = ?", id).Take(&withdrawal).Error
	return &withdrawal, err
}

// GetWithdrawalsByUser godoc
func (repo *Repo) GetWithdrawalsByUser(ctx context.Context, userID uint64, page, limit int) ([]model.Withdrawal, model.PagingMeta, error) {
	return repo.getWithdrawals(repo.ConnReader.WithContext(ctx).Where("user_id = ?", userID), "", page, limit)
}

// GetWithdrawals returns withdrawals of all users, optionally filtered by status
func (repo *Repo) GetWithdrawals(ctx context.Context, status model.WithdrawalStatus, page, limit int) ([]model.Withdrawal, model.PagingMeta, error) {
	return repo.getWithdrawals(repo.ConnReaderAdmin.WithContext(ctx), status, page, limit)
}

func (repo *Repo) getWithdrawals(db *gorm.DB, status model.WithdrawalStatus, page, limit int) ([]model.Withdrawal, model.PagingMeta, error) {
	meta, offset := model.NewPagingMeta(page, limit)
	withdrawals := make([]model.Withdrawal, 0)
	db = db.Model(&model.Withdrawal{})
	if status != "" {
		db = db.Where("status = ?", status)
		meta.Filter["status"] = status
	}
	if err := db.Count(&meta.Count).Error; err != nil {
		return nil, meta, err
	}
	err := db.Order("created_at DESC").Limit(meta.Limit).Offset(offset).Find(&withdrawals).Error
	return withdrawals, meta, err
}
