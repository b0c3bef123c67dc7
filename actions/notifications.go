package actions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhiraj-001/MLM-sub000/model"
)

func (actions *Actions) GetNotifications(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, err := actions.service.GetNotifications(c.Request.Context(), userID, unreadOnly, page, limit)
	if err != nil {
		abortWithServiceError(c, err, "notifications:get")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationsRead marks the listed notifications as read, every notification of the user when none is listed
func (actions *Actions) MarkNotificationsRead(c *gin.Context) {
	userID, _ := getUserID(c)
	request := model.MarkReadRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&request); err != nil {
			abortWithError(c, BadRequest, err.Error())
			return
		}
	}
	updated, err := actions.service.MarkNotificationsRead(c.Request.Context(), userID, request.IDs)
	if err != nil {
		abortWithServiceError(c, err, "notifications:mark_read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (actions *Actions) DeleteNotification(c *gin.Context) {
	userID, _ := getUserID(c)
	notificationID, ok := getParamAsID(c, "notification_id")
	if !ok {
		return
	}
	if err := actions.service.DeleteNotification(c.Request.Context(), userID, notificationID); err != nil {
		abortWithServiceError(c, err, "notifications:delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// RegisterPushToken stores a device token used to deliver push notifications
func (actions *Actions) RegisterPushToken(c *gin.Context) {
	userID, _ := getUserID(c)
	request := model.PushToken{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	if err := actions.service.RegisterPushToken(c.Request.Context(), userID, request.Token, request.Platform); err != nil {
		abortWithServiceError(c, err, "notifications:register_push_token")
		return
	}
	c.JSON(http.StatusCreated, true)
}

func (actions *Actions) RemovePushToken(c *gin.Context) {
	userID, _ := getUserID(c)
	token := c.Query("token")
	if token == "" {
		abortWithError(c, BadRequest, "token is required")
		return
	}
	if err := actions.service.RemovePushToken(c.Request.Context(), userID, token); err != nil {
		abortWithServiceError(c, err, "notifications:remove_push_token")
		return
	}
	c.JSON(http.StatusOK, true)
}

// SendNotification godoc
// swagger:route POST /admin/notifications admin send_notification
// Send notification
//
// Sends a notification to a single user when userId is set, to every active user when all is set,
// otherwise to the listed users.
//
//	Security:
//	  AdminToken:
//
//	Responses:
//	  200: NotificationWithTotalUnread
//	  400: RequestErrorResp
func (actions *Actions) SendNotification(c *gin.Context) {
	request := model.SendNotificationRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()
	if request.UserID != 0 {
		data, err := actions.service.SendNotification(ctx, request.UserID, request.Title, request.Message, request.Type)
		if err != nil {
			abortWithServiceError(c, err, "admin:send_notification")
			return
		}
		c.JSON(http.StatusOK, data)
		return
	}
	var sent int
	var err error
	if request.All {
		sent, err = actions.service.BroadcastNotification(ctx, request.Title, request.Message, request.Type)
	} else {
		sent, err = actions.service.SendBulkNotification(ctx, request.UserIDs, request.Title, request.Message, request.Type)
	}
	if err != nil {
		abortWithServiceError(c, err, "admin:send_bulk_notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
