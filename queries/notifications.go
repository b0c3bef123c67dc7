package queries

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// CreateNotifications stores the notifications in batches
func (repo *Repo) CreateNotifications(ctx context.Context, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return repo.Conn.WithContext(ctx).CreateInBatches(notifications, 500).Error
}

// GetNotifications returns a page of the notifications of a user, newest first
func (repo *Repo) GetNotifications(ctx context.Context, userID uint64, unreadOnly bool, page, limit int) ([]model.Notification, model.PagingMeta, error) {
	meta, offset := model.NewPagingMeta(page, limit)
	meta.Order = "desc"
	notifications := make([]model.Notification, 0)
	db := repo.ConnReader.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
		meta.Filter["unread"] = true
	}
	if err := db.Count(&meta.Count).Error; err != nil {
		return nil, meta, err
	}
	err := db.Order("created_at DESC, id DESC").Limit(meta.Limit).Offset(offset).Find(&notifications).Error
	return notifications, meta, err
}

// CountUnreadNotifications godoc
func (repo *Repo) CountUnreadNotifications(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := repo.Conn.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkNotificationsRead marks the given notifications of the user as read, or all of them when ids is empty
func (repo *Repo) MarkNotificationsRead(ctx context.Context, userID uint64, ids []uint64) (int64, error) {
	db := repo.Conn.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false)
	if len(ids) > 0 {
		db = db.Where("id IN ?", ids)
	}
	db = db.Updates(map[string]interface{}{"is_read": true, "updated_at": time.Now()})
	return db.RowsAffected, db.Error
}

// DeleteNotification removes a notification owned by the user
func (repo *Repo) DeleteNotification(ctx context.Context, userID, notificationID uint64) (int64, error) {
	db := repo.Conn.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, notificationID).
		Delete(&model.Notification{})
	return db.RowsAffected, db.Error
}

// SavePushToken stores a device token, moving it to the given user if it was registered before
func (repo *Repo) SavePushToken(ctx context.Context, token *model.PushToken) error {
	return repo.Conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform"}),
	}).Create(token).Error
}

// DeletePushToken godoc
func (repo *Repo) DeletePushToken(ctx context.Context, userID uint64, token string) error {
	return repo.Conn.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&model.PushToken{}).Error
}

// GetPushTokens returns the device tokens of a user
func (repo *Repo) GetPushTokens(ctx context.Context, userID uint64) ([]string, error) {
	tokens := make([]string, 0)
	err := repo.ConnReader.WithContext(ctx).Model(&model.PushToken{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error
	return tokens, err
}
