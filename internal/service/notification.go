package service

import (
	"context"
	"fmt"

	"github.com/sowzaxx7/8m-community/internal/model"

	"gorm.io/gorm"
)

const announcementPrefix = "New announcement: "

type Notifier struct {
	DB *gorm.DB
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{DB: db}
}

// OnPostCreated records a notification when post is an announcement. It's not
// idempotent, call it once per created post. tx is the transaction the post was
// created in.
func (n *Notifier) OnPostCreated(tx *gorm.DB, post *model.Post) error {
	if post.Tag != model.TagAnnouncements {
		return nil
	}

	err := tx.
		Create(&model.Notification{
			Title: announcementPrefix + post.Title,
			Type:  model.NotificationNew,
		}).
		Error
	if err != nil {
		return fmt.Errorf("failed to create notification, %w", err)
	}

	return nil
}

func (n *Notifier) List(ctx context.Context) ([]model.Notification, error) {
	notifications := []model.Notification{}

	err := n.DB.
		WithContext(ctx).
		Order("id").
		Find(&notifications).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications, %w", err)
	}

	return notifications, nil
}
