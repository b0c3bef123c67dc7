package service

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/maddevsio/fcm.v1"

	"github.com/dhiraj-001/MLM-sub000/featureflags"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/monitor"
)

func validateNotification(title, message string, notificationType model.NotificationType) (model.NotificationType, error) {
	if strings.TrimSpace(title) == "" {
		return "", model.NewValidationError("title", "is required")
	}
	if strings.TrimSpace(message) == "" {
		return "", model.NewValidationError("message", "is required")
	}
	if notificationType == "" {
		return model.NotificationTypeOther, nil
	}
	if !notificationType.IsValid() {
		return "", model.NewValidationError("type", "unknown notification type %q", notificationType)
	}
	return notificationType, nil
}

// SendNotification stores a notification for a single user and fans it out to the push worker
func (service *Service) SendNotification(ctx context.Context, userID uint64, title, message string, notificationType model.NotificationType) (*model.NotificationWithTotalUnread, error) {
	notificationType, err := validateNotification(title, message, notificationType)
	if err != nil {
		return nil, err
	}
	notification := &model.Notification{
		UserID:  userID,
		Title:   strings.TrimSpace(title),
		Message: strings.TrimSpace(message),
		Type:    notificationType,
	}
	if err := service.repo.CreateNotifications(ctx, []*model.Notification{notification}); err != nil {
		return nil, err
	}
	service.dispatch(notification)

	unread, err := service.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.NotificationWithTotalUnread{
		Notification:             *notification,
		TotalUnreadNotifications: unread,
	}, nil
}

// BroadcastNotification sends the same notification to every user that is not blocked.
func (service *Service) BroadcastNotification(ctx context.Context, title, message string, notificationType model.NotificationType) (int, error) {
	if _, err := validateNotification(title, message, notificationType); err != nil {
		return 0, err
	}
	userIDs, err := service.repo.GetActiveUserIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(userIDs) == 0 {
		return 0, errEmptyUserList
	}
	return service.SendBulkNotification(ctx, userIDs, title, message, notificationType)
}

// SendBulkNotification sends the same notification to every given user.
// Returns the number of notifications created.
func (service *Service) SendBulkNotification(ctx context.Context, userIDs []uint64, title, message string, notificationType model.NotificationType) (int, error) {
	notificationType, err := validateNotification(title, message, notificationType)
	if err != nil {
		return 0, err
	}
	if len(userIDs) == 0 {
		return 0, model.NewValidationError("userIds", "at least one user is required, set all to notify every user")
	}

	notifications := make([]*model.Notification, 0, len(userIDs))
	seen := make(map[uint64]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		notifications = append(notifications, &model.Notification{
			UserID:  userID,
			Title:   strings.TrimSpace(title),
			Message: strings.TrimSpace(message),
			Type:    notificationType,
		})
	}
	if err := service.repo.CreateNotifications(ctx, notifications); err != nil {
		return 0, err
	}
	for _, notification := range notifications {
		service.dispatch(notification)
	}
	return len(notifications), nil
}

// notify is used by the account and wallet flows, a failure never fails the caller
func (service *Service) notify(ctx context.Context, userID uint64, title, message string, notificationType model.NotificationType) {
	if _, err := service.SendNotification(ctx, userID, title, message, notificationType); err != nil {
		log.Error().Err(err).
			Str("section", "service:notification").
			Str("action", "notify").
			Uint64("user_id", userID).
			Msg("Unable to send notification")
	}
}

// dispatch publishes a stored notification and queues it for push delivery
func (service *Service) dispatch(notification *model.Notification) {
	monitor.NotificationsSent.WithLabelValues(notification.Type.String()).Inc()
	service.publish(model.EventNotificationCreate, notification.UserID, notification)

	if service.pushNotificationChan == nil {
		return
	}
	select {
	case service.pushNotificationChan <- notification:
	default:
		log.Warn().
			Str("section", "service:notification").
			Str("action", "dispatch").
			Uint64("user_id", notification.UserID).
			Msg("Push notification queue is full, dropping push")
	}
}

// GetNotifications returns a page of notifications, newest first, with the unread counter
func (service *Service) GetNotifications(ctx context.Context, userID uint64, unreadOnly bool, page, limit int) (*model.NotificationList, error) {
	notifications, meta, err := service.repo.GetNotifications(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, err
	}
	unread, err := service.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.NotificationList{
		Notifications: notifications,
		UnreadCount:   unread,
		Meta:          meta,
	}, nil
}

// MarkNotificationsRead marks the given notifications of the user as read, all of them when ids is empty
func (service *Service) MarkNotificationsRead(ctx context.Context, userID uint64, ids []uint64) (int64, error) {
	return service.repo.MarkNotificationsRead(ctx, userID, ids)
}

func (service *Service) DeleteNotification(ctx context.Context, userID, notificationID uint64) error {
	affected, err := service.repo.DeleteNotification(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// RegisterPushToken links a device token to the user, moving it away from any previous owner
func (service *Service) RegisterPushToken(ctx context.Context, userID uint64, token string, platform model.Platform) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.NewValidationError("token", "is required")
	}
	if !platform.IsValid() {
		return model.NewValidationError("platform", "must be one of ios, android or web")
	}
	return service.repo.SavePushToken(ctx, &model.PushToken{UserID: userID, Token: token, Platform: platform})
}

func (service *Service) RemovePushToken(ctx context.Context, userID uint64, token string) error {
	return service.repo.DeletePushToken(ctx, userID, token)
}

// PushNotificationWorker delivers stored notifications to the devices of the user through FCM
func (service *Service) PushNotificationWorker(notifications chan *model.Notification, ctx context.Context, wait *sync.WaitGroup) {
	log.Info().Str("worker", "push_notifications").Str("action", "start").Msg("Service push notifications - started")
	defer wait.Done()

	client := fcm.NewFCM(service.cfg.FirebaseClient.ApiKey)
	for {
		select {
		case notification := <-notifications:
			if service.cfg.FirebaseClient.ApiKey == "" || !featureflags.IsEnabled("api.notifications.push") {
				continue
			}
			tokens, err := service.repo.GetPushTokens(ctx, notification.UserID)
			if err != nil {
				log.Error().Err(err).
					Str("section", "service:notification").
					Str("action", "PushNotificationWorker").
					Msg("Unable to get tokens")
				continue
			}
			if len(tokens) == 0 {
				continue
			}

			_, err = client.Send(fcm.Message{
				RegistrationIDs:  tokens,
				ContentAvailable: true,
				Priority:         fcm.PriorityHigh,
				Notification: fcm.Notification{
					Title: notification.Title,
					Body:  notification.Message,
				},
				Data: map[string]interface{}{
					"type": notification.Type.String(),
					"id":   notification.ID,
				},
			})
			if err != nil {
				log.Error().Err(err).
					Str("section", "service:notification").
					Str("action", "PushNotificationWorker").
					Msg("Unable to send push notification")
			}
		case <-ctx.Done():
			log.Info().Str("worker", "push_notifications").Str("action", "stop").Msg("Service push notifications - stopped")
			return
		}
	}
}
