package queries

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// CreateDeposit godoc
func (repo *Repo) CreateDeposit(ctx context.Context, deposit *model.Deposit) error {
	return repo.Conn.WithContext(ctx).Create(deposit).Error
}

// CreateDepositTx godoc
func CreateDepositTx(tx *gorm.DB, deposit *model.Deposit) error {
	return tx.Create(deposit).Error
}

// GetDepositByID godoc
func (repo *Repo) GetDepositByID(ctx context.Context, id uint64) (*model.Deposit, error) {
	deposit := model.Deposit{}
	err := repo.Conn.WithContext(ctx).Where("id = ?", id).Take(&deposit).Error
	return &deposit, err
}

// LockDeposit loads a deposit for update inside the given transaction
func LockDeposit(tx *gorm.DB, id uint64) (*model.Deposit, error) {
	deposit := model.Deposit{}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&deposit).Error
	return &deposit, err
}

// ReviewDeposit moves a pending deposit to its final status
func ReviewDeposit(tx *gorm.DB, deposit *model.Deposit, status model.DepositStatus, adminID uint64, remark string) error {
	now := time.Now()
	fields := map[string]interface{}{
		"status":      status,
		"reviewed_by": adminID,
		"reviewed_at": now,
		"updated_at":  now,
	}
	if remark != "" {
		fields["remark"] = remark
	}
	db := tx.Model(&model.Deposit{}).
		Where("id = ? AND status = ?", deposit.ID, model.DepositStatusPending).
		Updates(fields)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return model.ErrInvalidTransition
	}
	deposit.Status = status
	deposit.ReviewedBy = &adminID
	deposit.ReviewedAt = &now
	if remark != "" {
		deposit.Remark = remark
	}
	return nil
}

// GetDepositsByUser godoc
func (repo *Repo) GetDepositsByUser(ctx context.Context, userID uint64, page, limit int) ([]model.Deposit, model.PagingMeta, error) {
	return repo.getDeposits(repo.ConnReader.WithContext(ctx).Where("user_id = ?", userID), "", page, limit)
}

// GetDeposits returns deposits of all users, optionally filtered by status
func (repo *Repo) GetDeposits(ctx context.Context, status model.DepositStatus, page, limit int) ([]model.Deposit, model.PagingMeta, error) {
	return repo.getDeposits(repo.ConnReaderAdmin.WithContext(ctx), status, page, limit)
}

func (repo *Repo) getDeposits(db *gorm.DB, status model.DepositStatus, page, limit int) ([]model.Deposit, model.PagingMeta, error) {
	meta, offset := model.NewPagingMeta(page, limit)
	deposits := make([]model.Deposit, 0)
	db = db.Model(&model.Deposit{})
	if status != "" {
		db = db.Where("status = ?", status)
		meta.Filter["status"] = status
	}
	if err := db.Count(&meta.Count).Error; err != nil {
		return nil, meta, err
	}
	err := db.Order("created_at DESC").Limit(meta.Limit).Offset(offset).Find(&deposits).Error
	return deposits, meta, err
}
