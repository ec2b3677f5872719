package handlers

import (
	"context"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type PortfolioHandler struct {
	db *gorm.DB
}

func NewPortfolioHandler(db *gorm.DB) *PortfolioHandler {
	return &PortfolioHandler{db: db}
}

type PortfolioRequest struct {
	UserID uint `path:"userId"`
}

type PortfolioResponse struct {
	Body struct {
		User struct {
			Name       string `json:"name"`
			StudentID  string `json:"studentId"`
			Department string `json:"department"`
			Email      string `json:"email"`
		} `json:"user"`
		Statistics struct {
			TotalAchievements    int      `json:"totalAchievements"`
			ApprovedAchievements int      `json:"approvedAchievements"`
			CategoriesCount      int      `json:"categoriesCount"`
			Categories           []string `json:"categories"`
		} `json:"statistics"`
		AchievementsByCategory map[string][]models.Achievement `json:"achievementsByCategory"`
		Achievements           []models.Achievement            `json:"achievements"`
	}
}

// HandleGenerate builds a portfolio from a student's approved achievements,
// newest achievement date first, grouped by category.
func (h *PortfolioHandler) HandleGenerate(ctx context.Context, input *PortfolioRequest) (*PortfolioResponse, error) {
	var user models.User
	if err := h.db.First(&user, input.UserID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found.")
	}

	var achievements []models.Achievement
	err := h.db.
		Where("student_id = ? AND status = ?", input.UserID, models.StatusApproved).
		Order("date DESC").
		Find(&achievements).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch achievements")
	}

	byCategory := map[string][]models.Achievement{}
	var categories []string
	for _, a := range achievements {
		if _, seen := byCategory[a.Category]; !seen {
			categories = append(categories, a.Category)
		}
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}
	if categories == nil {
		categories = []string{}
	}

	res := &PortfolioResponse{}
	res.Body.User.Name = user.Name
	res.Body.User.StudentID = user.StudentID
	res.Body.User.Department = user.Department
	res.Body.User.Email = user.Email
	res.Body.Statistics.TotalAchievements = len(achievements)
	res.Body.Statistics.ApprovedAchievements = len(achievements)
	res.Body.Statistics.CategoriesCount = len(categories)
	res.Body.Statistics.Categories = categories
	res.Body.AchievementsByCategory = byCategory
	res.Body.Achievements = achievements
	return res, nil
}
