package handlers

import (
	"context"
	"math"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/auth"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type AnalyticsHandler struct {
	db *gorm.DB
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type RecentActivity struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	StudentName string `json:"studentName"`
	Status      string `json:"status"`
	Category    string `json:"category"`
	CreatedAt   string `json:"createdAt"`
}

type AnalyticsOverview struct {
	TotalUsers           int64   `json:"totalUsers"`
	TotalAchievements    int64   `json:"totalAchievements"`
	ApprovedAchievements int64   `json:"approvedAchievements"`
	PendingAchievements  int64   `json:"pendingAchievements"`
	RejectedAchievements int64   `json:"rejectedAchievements"`
	ApprovalRate         float64 `json:"approvalRate"`
}

type AnalyticsCharts struct {
	MonthlyStats       []MonthCount      `json:"monthlyStats"`
	CategoryStats      []CategoryCount   `json:"categoryStats"`
	DepartmentStats    []DepartmentCount `json:"departmentStats"`
	LevelStats         []LevelCount      `json:"levelStats"`
	RoleDistribution   []RoleCount       `json:"roleDistribution"`
	StatusDistribution []StatusCount     `json:"statusDistribution"`
}

type AnalyticsResponse struct {
	Body struct {
		Overview       AnalyticsOverview `json:"overview"`
		Charts         AnalyticsCharts   `json:"charts"`
		TopPerformers  []Achiever        `json:"topPerformers"`
		RecentActivity []RecentActivity  `json:"recentActivity"`
	}
}

func (h *AnalyticsHandler) HandleAnalytics(ctx context.Context, input *struct{}) (*AnalyticsResponse, error) {
	if _, err := requireRoles(ctx, models.RoleAdmin, models.RoleFaculty); err != nil {
		return nil, err
	}

	res := &AnalyticsResponse{}

	var err error
	if res.Body.Overview, err = h.overview(nil); err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch analytics")
	}
	if res.Body.Charts, err = h.charts(nil); err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch analytics")
	}

	leaderboard := NewLeaderboardHandler(h.db)
	if res.Body.TopPerformers, err = leaderboard.topAchievers("", 10); err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch analytics")
	}

	var recent []models.Achievement
	if err := h.db.Order("created_at DESC").Limit(10).Find(&recent).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch analytics")
	}
	res.Body.RecentActivity = recentActivity(recent)

	return res, nil
}

type UserAnalyticsRequest struct {
	UserID uint `path:"userId"`
}

type UserAnalyticsResponse struct {
	Body struct {
		Overview struct {
			TotalAchievements    int64   `json:"totalAchievements"`
			ApprovedAchievements int64   `json:"approvedAchievements"`
			PendingAchievements  int64   `json:"pendingAchievements"`
			RejectedAchievements int64   `json:"rejectedAchievements"`
			TotalPoints          int     `json:"totalPoints"`
			ApprovalRate         float64 `json:"approvalRate"`
		} `json:"overview"`
		Charts struct {
			CategoryStats []CategoryCount `json:"categoryStats"`
			MonthlyStats  []MonthCount    `json:"monthlyStats"`
			LevelStats    []LevelCount    `json:"levelStats"`
			StatusStats   []StatusCount   `json:"statusStats"`
		} `json:"charts"`
		RecentAchievements []RecentActivity `json:"recentAchievements"`
	}
}

func (h *AnalyticsHandler) HandleUserAnalytics(ctx context.Context, input *UserAnalyticsRequest) (*UserAnalyticsResponse, error) {
	userID := input.UserID
	if userID == 0 {
		user, ok := auth.UserFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("Unauthorized")
		}
		userID = user.ID
	}

	res := &UserAnalyticsResponse{}

	scope := func(db *gorm.DB) *gorm.DB { return db.Where("student_id = ?", userID) }

	overview, err := h.overview(scope)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch user analytics")
	}
	res.Body.Overview.TotalAchievements = overview.TotalAchievements
	res.Body.Overview.ApprovedAchievements = overview.ApprovedAchievements
	res.Body.Overview.PendingAchievements = overview.PendingAchievements
	res.Body.Overview.RejectedAchievements = overview.RejectedAchievements
	res.Body.Overview.ApprovalRate = overview.ApprovalRate

	var totalPoints struct{ Total int }
	err = h.db.Model(&models.Achievement{}).
		Select("COALESCE(SUM(points), 0) AS total").
		Where("student_id = ?", userID).
		Scan(&totalPoints).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch user analytics")
	}
	res.Body.Overview.TotalPoints = totalPoints.Total

	charts, err := h.charts(scope)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch user analytics")
	}
	res.Body.Charts.CategoryStats = charts.CategoryStats
	res.Body.Charts.MonthlyStats = charts.MonthlyStats
	res.Body.Charts.LevelStats = charts.LevelStats
	res.Body.Charts.StatusStats = charts.StatusDistribution

	var recent []models.Achievement
	if err := h.db.Where("student_id = ?", userID).Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch user analytics")
	}
	res.Body.RecentAchievements = recentActivity(recent)

	return res, nil
}

type achievementScope func(*gorm.DB) *gorm.DB

func (h *AnalyticsHandler) achievementQuery(scope achievementScope) *gorm.DB {
	query := h.db.Model(&models.Achievement{})
	if scope != nil {
		query = scope(query)
	}
	return query
}

func (h *AnalyticsHandler) overview(scope achievementScope) (AnalyticsOverview, error) {
	var o AnalyticsOverview

	if err := h.db.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&o.TotalUsers).Error; err != nil {
		return o, err
	}
	if err := h.achievementQuery(scope).Count(&o.TotalAchievements).Error; err != nil {
		return o, err
	}
	for status, dst := range map[string]*int64{
		models.StatusApproved: &o.ApprovedAchievements,
		models.StatusPending:  &o.PendingAchievements,
		models.StatusRejected: &o.RejectedAchievements,
	} {
		if err := h.achievementQuery(scope).Where("status = ?", status).Count(dst).Error; err != nil {
			return o, err
		}
	}

	if o.TotalAchievements > 0 {
		rate := float64(o.ApprovedAchievements) / float64(o.TotalAchievements) * 100
		o.ApprovalRate = math.Round(rate*10) / 10
	}

	return o, nil
}

func (h *AnalyticsHandler) charts(scope achievementScope) (AnalyticsCharts, error) {
	var c AnalyticsCharts

	err := h.achievementQuery(scope).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&c.CategoryStats).Error
	if err != nil {
		return c, err
	}

	// Last 12 months of submissions, oldest first for charting.
	err = h.achievementQuery(scope).
		Select("strftime('%Y-%m', achievements.created_at) AS month, COUNT(*) AS count").
		Group("month").
		Order("month DESC").
		Limit(12).
		Scan(&c.MonthlyStats).Error
	if err != nil {
		return c, err
	}
	for i, j := 0, len(c.MonthlyStats)-1; i < j; i, j = i+1, j-1 {
		c.MonthlyStats[i], c.MonthlyStats[j] = c.MonthlyStats[j], c.MonthlyStats[i]
	}

	err = h.achievementQuery(scope).
		Select("users.department AS department, COUNT(*) AS count").
		Joins("JOIN users ON users.id = achievements.student_id").
		Group("users.department").
		Order("count DESC").
		Scan(&c.DepartmentStats).Error
	if err != nil {
		return c, err
	}

	err = h.achievementQuery(scope).
		Select("level, COUNT(*) AS count").
		Group("level").
		Order("count DESC").
		Scan(&c.LevelStats).Error
	if err != nil {
		return c, err
	}

	err = h.db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&c.RoleDistribution).Error
	if err != nil {
		return c, err
	}

	err = h.achievementQuery(scope).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&c.StatusDistribution).Error
	if err != nil {
		return c, err
	}

	return c, nil
}

func recentActivity(achievements []models.Achievement) []RecentActivity {
	activity := make([]RecentActivity, 0, len(achievements))
	for _, a := range achievements {
		activity = append(activity, RecentActivity{
			ID:          a.ID,
			Title:       a.Title,
			StudentName: a.StudentName,
			Status:      a.Status,
			Category:    a.Category,
			CreatedAt:   a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return activity
}
