// internal/api/v2/notifications.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

// initNotificationRoutes registers the outbound messaging endpoints
func (c *Controller) initNotificationRoutes() {
	c.Group.POST("/notifications", c.SendNotification)
	c.Group.GET("/notifications", c.GetNotifications)
	c.Group.GET("/notifications/:id", c.GetNotification)
	c.Group.POST("/notifications/:id/delivery", c.ConfirmDelivery)
}

// NotificationResponse represents an outbound message record in the API response
type NotificationResponse struct {
	ID        uint   `json:"id"`
	Recipient string `json:"recipient"`
	Channel   string `json:"channel"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// SendNotificationRequest is the payload for dispatching a message
type SendNotificationRequest struct {
	Recipient string `json:"recipient"`
	Channel   string `json:"channel"`
	Message   string `json:"message"`
	MessageID string `json:"message_id"` // catalog message id, used when message is empty
	Language  string `json:"language"`
}

// DeliveryCallbackRequest is the payload posted by a delivery webhook
type DeliveryCallbackRequest struct {
	Delivered bool `json:"delivered"`
}

func notificationToResponse(notification *datastore.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		Recipient: notification.Recipient,
		Channel:   notification.Channel,
		Message:   notification.Message,
		Status:    notification.Status,
		CreatedAt: notification.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// SendNotification handles POST /api/v2/notifications. The message text is
// either given verbatim or resolved from the localized catalog by message_id.
func (c *Controller) SendNotification(ctx echo.Context) error {
	if c.Messenger == nil {
		return c.HandleError(ctx, nil, "Messaging not enabled", http.StatusServiceUnavailable)
	}

	var request SendNotificationRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.Recipient == "" || request.Channel == "" {
		return c.HandleError(ctx, nil, "recipient and channel are required", http.StatusBadRequest)
	}

	message := request.Message
	if message == "" && request.MessageID != "" {
		language := request.Language
		if language == "" {
			language = c.requestLanguage(ctx)
		}
		message = c.Catalog.Message(request.MessageID, nil, language)
	}
	if message == "" {
		return c.HandleError(ctx, nil, "message or message_id is required", http.StatusBadRequest)
	}

	notification, err := c.Messenger.Send(ctx.Request().Context(), request.Recipient, request.Channel, message)
	if c.metrics != nil && notification.ID != 0 {
		c.metrics.Messaging.MessagesTotal.WithLabelValues(request.Channel, notification.Status).Inc()
	}
	if err != nil {
		// The record exists even when dispatch failed, return it with the error.
		if notification.ID != 0 {
			return ctx.JSON(http.StatusBadGateway, notificationToResponse(&notification))
		}
		return c.HandleError(ctx, err, "Failed to send message", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, notificationToResponse(&notification))
}

// GetNotifications handles GET /api/v2/notifications
func (c *Controller) GetNotifications(ctx echo.Context) error {
	limit, offset := pagination(ctx.QueryParam("limit"), ctx.QueryParam("offset"))

	notifications, err := c.DS.GetNotifications(limit, offset)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get notifications", http.StatusInternalServerError)
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, notificationToResponse(&notifications[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// GetNotification handles GET /api/v2/notifications/:id
func (c *Controller) GetNotification(ctx echo.Context) error {
	notification, err := c.DS.GetNotification(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Notification not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get notification", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, notificationToResponse(&notification))
}

// ConfirmDelivery handles POST /api/v2/notifications/:id/delivery, the
// provider delivery webhook.
func (c *Controller) ConfirmDelivery(ctx echo.Context) error {
	if c.Messenger == nil {
		return c.HandleError(ctx, nil, "Messaging not enabled", http.StatusServiceUnavailable)
	}

	var request DeliveryCallbackRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	notification, err := c.Messenger.ConfirmDelivery(ctx.Param("id"), request.Delivered)
	if err != nil {
		switch {
		case isNotFound(err):
			return c.HandleError(ctx, err, "Notification not found", http.StatusNotFound)
		case isInvalidTransition(err):
			return c.HandleError(ctx, err, "Delivery state is already final", http.StatusConflict)
		default:
			return c.HandleError(ctx, err, "Failed to record delivery", http.StatusInternalServerError)
		}
	}
	return ctx.JSON(http.StatusOK, notificationToResponse(&notification))
}
