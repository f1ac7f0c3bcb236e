package model

import "time"

type NotificationType string

const NotificationNew NotificationType = "NEW"

type Notification struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string           `gorm:"not null" json:"title"`
	Type      NotificationType `gorm:"not null;default:NEW" json:"type"`
	Timestamp time.Time        `gorm:"autoCreateTime" json:"timestamp"`
}
