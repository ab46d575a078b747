package postgres

import (
	"github.com/rahadianw/siteops/internal/notification"
	"gorm.io/gorm"
)

const inboxLimit = 100

// NotificationRepository implements notification.Repository using GORM.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListForUser(userID int64, filter notification.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification

	query := r.db.Where("user_id = ?", userID)
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	err := query.Order("created_at DESC").Limit(inboxLimit).Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) UnreadCount(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(id, userID int64) (bool, error) {
	result := r.db.Model(&notification.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return result.RowsAffected > 0, result.Error
}

func (r *NotificationRepository) MarkAllRead(userID int64) error {
	return r.db.Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) Delete(id, userID int64) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&notification.Notification{})
	return result.RowsAffected > 0, result.Error
}
