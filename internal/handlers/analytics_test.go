package handlers

import (
	"testing"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
)

func TestAnalyticsOverview(t *testing.T) {
	db := setupTestDB(t)
	h := NewAnalyticsHandler(db)

	admin := createTestUser(t, db, models.RoleAdmin, "admin@university.edu", "")
	a := createTestUser(t, db, models.RoleStudent, "a@university.edu", "CS1")
	b := createTestUser(t, db, models.RoleStudent, "b@university.edu", "CS2")

	seedAchievement(t, db, a, "technical", models.StatusApproved, 10)
	seedAchievement(t, db, a, "sports", models.StatusApproved, 10)
	seedAchievement(t, db, a, "cultural", models.StatusRejected, 10)
	seedAchievement(t, db, b, "technical", models.StatusPending, 10)

	res, err := h.HandleAnalytics(authContext(admin), &struct{}{})
	if err != nil {
		t.Fatalf("HandleAnalytics: %v", err)
	}

	o := res.Body.Overview
	if o.TotalUsers != 2 {
		t.Errorf("got %d users, want 2 students", o.TotalUsers)
	}
	if o.TotalAchievements != 4 || o.ApprovedAchievements != 2 || o.PendingAchievements != 1 || o.RejectedAchievements != 1 {
		t.Errorf("unexpected overview: %+v", o)
	}
	if o.ApprovalRate != 50.0 {
		t.Errorf("got approval rate %v, want 50.0", o.ApprovalRate)
	}

	if len(res.Body.Charts.MonthlyStats) != 1 || res.Body.Charts.MonthlyStats[0].Count != 4 {
		t.Errorf("unexpected monthly stats: %+v", res.Body.Charts.MonthlyStats)
	}
	if len(res.Body.TopPerformers) == 0 || res.Body.TopPerformers[0].UserID != a.ID {
		t.Errorf("unexpected top performers: %+v", res.Body.TopPerformers)
	}
	if len(res.Body.RecentActivity) != 4 {
		t.Errorf("got %d recent entries, want 4", len(res.Body.RecentActivity))
	}
}

func TestAnalyticsRequiresElevatedRole(t *testing.T) {
	db := setupTestDB(t)
	h := NewAnalyticsHandler(db)
	student := createTestUser(t, db, models.RoleStudent, "s@university.edu", "CS1")

	if _, err := h.HandleAnalytics(authContext(student), &struct{}{}); err == nil {
		t.Fatal("student reached system analytics")
	}
}

func TestUserAnalytics(t *testing.T) {
	db := setupTestDB(t)
	h := NewAnalyticsHandler(db)

	a := createTestUser(t, db, models.RoleStudent, "a@university.edu", "CS1")
	b := createTestUser(t, db, models.RoleStudent, "b@university.edu", "CS2")

	seedAchievement(t, db, a, "technical", models.StatusApproved, 30)
	seedAchievement(t, db, a, "sports", models.StatusPending, 20)
	seedAchievement(t, db, b, "technical", models.StatusApproved, 99)

	res, err := h.HandleUserAnalytics(authContext(a), &UserAnalyticsRequest{UserID: a.ID})
	if err != nil {
		t.Fatalf("HandleUserAnalytics: %v", err)
	}

	o := res.Body.Overview
	if o.TotalAchievements != 2 || o.ApprovedAchievements != 1 {
		t.Errorf("unexpected overview: %+v", o)
	}
	if o.TotalPoints != 50 {
		t.Errorf("got %d points, want 50", o.TotalPoints)
	}
	if len(res.Body.RecentAchievements) != 2 {
		t.Errorf("got %d recent achievements, want 2", len(res.Body.RecentAchievements))
	}
}
