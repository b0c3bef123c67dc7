package queries

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// InsertLedgerEntries appends the entries inside the given transaction
func InsertLedgerEntries(tx *gorm.DB, entries []*model.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return tx.Create(&entries).Error
}

// GetLedgerEntries returns a page of the ledger of a user, newest first
func (repo *Repo) GetLedgerEntries(ctx context.Context, userID uint64, kind model.TransactionKind, page, limit int) ([]model.LedgerEntry, model.PagingMeta, error) {
	meta, offset := model.NewPagingMeta(page, limit)
	meta.Order = "desc"
	entries := make([]model.LedgerEntry, 0)
	db := repo.ConnReader.WithContext(ctx).Model(&model.LedgerEntry{}).Where("user_id = ?", userID)
	if kind != "" {
		db = db.Where("kind = ?", kind)
		meta.Filter["kind"] = kind
	}
	if err := db.Count(&meta.Count).Error; err != nil {
		return nil, meta, err
	}
	err := db.Order("id DESC").Limit(meta.Limit).Offset(offset).Find(&entries).Error
	return entries, meta, err
}

// GetLedgerEntriesBetween returns the ledger of a user in chronological order.
// Zero from or to leave that side of the range open.
func (repo *Repo) GetLedgerEntriesBetween(ctx context.Context, userID uint64, from, to time.Time) ([]model.LedgerEntry, error) {
	entries := make([]model.LedgerEntry, 0)
	db := repo.ConnReader.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		db = db.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("created_at < ?", to)
	}
	err := db.Order("id ASC").Find(&entries).Error
	return entries, err
}

// GetBucketTotals sums credits minus debits per bucket for a user
func (repo *Repo) GetBucketTotals(ctx context.Context, userID uint64) ([]model.BucketTotals, error) {
	totals := make([]model.BucketTotals, 0)
	err := repo.ConnReaderAdmin.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Select("bucket, COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE -amount END), 0) AS total", model.DirectionCredit).
		Where("user_id = ?", userID).
		Group("bucket").
		Scan(&totals).Error
	return totals, err
}
