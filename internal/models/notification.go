package models

import (
	"gorm.io/gorm"
)

const (
	NotificationAchievementApproved = "achievement_approved"
	NotificationAchievementRejected = "achievement_rejected"
	NotificationSystem              = "system"
	NotificationGeneral             = "general"
)

type Notification struct {
	gorm.Model
	UserID               uint         `json:"userId" gorm:"index:idx_user_read"`
	User                 User         `json:"-" gorm:"foreignKey:UserID"`
	Title                string       `json:"title"`
	Message              string       `json:"message"`
	Type                 string       `json:"type" gorm:"default:general"`
	Read                 bool         `json:"read" gorm:"default:false;index:idx_user_read"`
	RelatedAchievementID *uint        `json:"relatedAchievement,omitempty"`
	RelatedAchievement   *Achievement `json:"-" gorm:"foreignKey:RelatedAchievementID"`
	ActionURL            string       `json:"actionUrl,omitempty"`
}
