package services

import (
	"context"

	"github.com/yeremiapane/dinein-backend/models"
	"gorm.io/gorm"
)

const (
	NotificationOrderPlaced = "order_placed"
	NotificationPayment     = "payment"
	NotificationReservation = "reservation"
)

// NotificationService keeps the staff inbox of a restaurant.
type NotificationService struct {
	db *gorm.DB
}

func createNotificationTx(tx *gorm.DB, restaurantID uint, kind, title, message string) error {
	n := models.Notification{
		RestaurantID: restaurantID,
		Type:         kind,
		Title:        title,
		Message:      message,
	}
	return dbError(tx.Create(&n).Error, "create notification")
}

// List returns the newest notifications first.
func (s *NotificationService) List(ctx context.Context, restaurantID uint, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifs []models.Notification
	if err := q.Order("created_at DESC, id DESC").Limit(100).Find(&notifs).Error; err != nil {
		return nil, UnexpectedError("list notifications", err)
	}
	return notifs, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, restaurantID, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Update("is_read", true)
	if res.Error != nil {
		return UnexpectedError("mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundError("Notification not found")
	}
	return nil
}
