package handlers

import (
	"context"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/auth"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

type ListNotificationsResponse struct {
	Body []models.Notification
}

func (h *NotificationHandler) HandleList(ctx context.Context, input *struct{}) (*ListNotificationsResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var notifications []models.Notification
	err := h.db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch notifications")
	}
	return &ListNotificationsResponse{Body: notifications}, nil
}

type NotificationIDRequest struct {
	ID uint `path:"id"`
}

type NotificationResponse struct {
	Body struct {
		Message      string               `json:"message"`
		Notification *models.Notification `json:"notification,omitempty"`
	}
}

func (h *NotificationHandler) HandleMarkRead(ctx context.Context, input *NotificationIDRequest) (*NotificationResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var notification models.Notification
	err := h.db.Where("id = ? AND user_id = ?", input.ID, user.ID).First(&notification).Error
	if err != nil {
		return nil, huma.Error404NotFound("Notification not found.")
	}

	if err := h.db.Model(&notification).Update("read", true).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update notification")
	}
	notification.Read = true

	res := &NotificationResponse{}
	res.Body.Message = "Notification marked as read."
	res.Body.Notification = &notification
	return res, nil
}

func (h *NotificationHandler) HandleDelete(ctx context.Context, input *NotificationIDRequest) (*NotificationResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	result := h.db.Where("id = ? AND user_id = ?", input.ID, user.ID).Delete(&models.Notification{})
	if result.Error != nil {
		return nil, huma.Error500InternalServerError("Failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Notification not found.")
	}

	res := &NotificationResponse{}
	res.Body.Message = "Notification deleted successfully."
	return res, nil
}
