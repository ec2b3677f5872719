package handlers

import (
	"context"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type LeaderboardHandler struct {
	db *gorm.DB
}

func NewLeaderboardHandler(db *gorm.DB) *LeaderboardHandler {
	return &LeaderboardHandler{db: db}
}

// Achiever is one leaderboard entry, aggregated over approved achievements.
type Achiever struct {
	UserID           uint   `json:"userId"`
	StudentName      string `json:"studentName"`
	AchievementCount int    `json:"achievementCount"`
	TotalPoints      int    `json:"totalPoints"`
	StudentID        string `json:"studentId"`
	Department       string `json:"department"`
}

func (h *LeaderboardHandler) topAchievers(category string, limit int) ([]Achiever, error) {
	query := h.db.Model(&models.Achievement{}).
		Select("achievements.student_id AS user_id, achievements.student_name, COUNT(*) AS achievement_count, COALESCE(SUM(achievements.points), 0) AS total_points, users.student_id, users.department").
		Joins("JOIN users ON users.id = achievements.student_id").
		Where("achievements.status = ?", models.StatusApproved)
	if category != "" {
		query = query.Where("achievements.category = ?", category)
	}

	var achievers []Achiever
	err := query.
		Group("achievements.student_id, achievements.student_name, users.student_id, users.department").
		Order("achievement_count DESC, total_points DESC").
		Limit(limit).
		Scan(&achievers).Error
	if err != nil {
		return nil, err
	}
	if achievers == nil {
		achievers = []Achiever{}
	}
	return achievers, nil
}

type TopAchieversResponse struct {
	Body []Achiever
}

func (h *LeaderboardHandler) HandleTopAchievers(ctx context.Context, input *struct{}) (*TopAchieversResponse, error) {
	achievers, err := h.topAchievers("", 10)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch top achievers")
	}
	return &TopAchieversResponse{Body: achievers}, nil
}

type CategoryLeadersRequest struct {
	Category string `path:"category"`
}

func (h *LeaderboardHandler) HandleCategoryLeaders(ctx context.Context, input *CategoryLeadersRequest) (*TopAchieversResponse, error) {
	achievers, err := h.topAchievers(input.Category, 5)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch category leaders")
	}
	return &TopAchieversResponse{Body: achievers}, nil
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type LeaderboardStatsResponse struct {
	Body struct {
		TotalAchievements    int64           `json:"totalAchievements"`
		ApprovedAchievements int64           `json:"approvedAchievements"`
		TotalStudents        int64           `json:"totalStudents"`
		CategoryStats        []CategoryCount `json:"categoryStats"`
	}
}

func (h *LeaderboardHandler) HandleStats(ctx context.Context, input *struct{}) (*LeaderboardStatsResponse, error) {
	res := &LeaderboardStatsResponse{}

	if err := h.db.Model(&models.Achievement{}).Count(&res.Body.TotalAchievements).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch leaderboard statistics")
	}
	if err := h.db.Model(&models.Achievement{}).Where("status = ?", models.StatusApproved).Count(&res.Body.ApprovedAchievements).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch leaderboard statistics")
	}
	if err := h.db.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&res.Body.TotalStudents).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch leaderboard statistics")
	}

	var categories []CategoryCount
	err := h.db.Model(&models.Achievement{}).
		Select("category, COUNT(*) AS count").
		Where("status = ?", models.StatusApproved).
		Group("category").
		Scan(&categories).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch leaderboard statistics")
	}
	if categories == nil {
		categories = []CategoryCount{}
	}
	res.Body.CategoryStats = categories

	return res, nil
}
