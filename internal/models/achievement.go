package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	LevelUniversity    = "university"
	LevelState         = "state"
	LevelNational      = "national"
	LevelInternational = "international"
)

var Categories = []string{"academic", "extracurricular", "cocurricular", "sports", "cultural", "technical", "leadership"}

var Levels = []string{LevelUniversity, LevelState, LevelNational, LevelInternational}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusApproved || status == StatusRejected
}

type Achievement struct {
	gorm.Model
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"index:idx_category_status"`
	Level       string    `json:"level" gorm:"default:university"`
	Date        time.Time `json:"date"`
	Organization string   `json:"organization"`
	DocumentURL string    `json:"documentUrl"`
	Status      string    `json:"status" gorm:"default:pending;index:idx_category_status"`
	// RejectionReason is meaningful only when Status is rejected.
	RejectionReason string `json:"rejectionReason,omitempty"`
	StudentID       uint   `json:"studentId" gorm:"index"`
	Student         User   `json:"-" gorm:"foreignKey:StudentID"`
	// StudentName is denormalized from the owning user at creation time.
	StudentName   string     `json:"studentName"`
	ValidatedByID *uint      `json:"validatedBy,omitempty"`
	ValidatedBy   *User      `json:"-" gorm:"foreignKey:ValidatedByID"`
	ValidatedAt   *time.Time `json:"validatedAt,omitempty"`
	Points        int        `json:"points" gorm:"default:0"`
}
