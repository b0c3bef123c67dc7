package model

import (
	"time"
)

// NotificationType is used by clients only to pick an icon
type NotificationType string

const (
	NotificationTypeReferral   NotificationType = "referral"
	NotificationTypeQuiz       NotificationType = "quiz"
	NotificationTypeReward     NotificationType = "reward"
	NotificationTypeDeposit    NotificationType = "deposit"
	NotificationTypeWithdrawal NotificationType = "withdrawal"
	NotificationTypeOther      NotificationType = "other"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeReferral,
		NotificationTypeQuiz,
		NotificationTypeReward,
		NotificationTypeDeposit,
		NotificationTypeWithdrawal,
		NotificationTypeOther:
		return true
	default:
		return false
	}
}

func (t NotificationType) String() string {
	return string(t)
}

// Notification structure
type Notification struct {
	ID        uint64           `gorm:"primaryKey" json:"id"`
	UserID    uint64           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"-"`
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
	Meta          PagingMeta     `json:"meta"`
}

// NotificationWithTotalUnread is pushed to workers after a notification is stored
type NotificationWithTotalUnread struct {
	Notification
	TotalUnreadNotifications int64 `json:"totalUnreadNotifications"`
}

// SendNotificationRequest targets a single user through UserID, many through UserIDs
// or every active user when All is set.
type SendNotificationRequest struct {
	UserID  uint64           `json:"userId" form:"userId"`
	UserIDs []uint64         `json:"userIds" form:"userIds"`
	All     bool             `json:"all" form:"all"`
	Title   string           `json:"title" form:"title" binding:"required"`
	Message string           `json:"message" form:"message" binding:"required"`
	Type    NotificationType `json:"type" form:"type"`
}

type MarkReadRequest struct {
	IDs []uint64 `json:"ids" form:"ids"`
}

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	default:
		return false
	}
}

// PushToken is a device registration used to deliver notifications through FCM
type PushToken struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `json:"userId"`
	Token     string    `gorm:"unique" json:"token" form:"token" binding:"required"`
	Platform  Platform  `json:"platform" form:"platform" binding:"required"`
	CreatedAt time.Time `json:"createdAt"`
}
