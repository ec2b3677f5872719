package handlers

import (
	"context"
	"testing"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/auth"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Achievement{}, &models.Notification{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role, email, studentID string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Name:       "Test " + role,
		Email:      email,
		Password:   string(hash),
		Role:       role,
		StudentID:  studentID,
		Department: "CSE",
		IsActive:   true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func authContext(user *models.User) context.Context {
	ctx := context.WithValue(context.Background(), auth.UserIDKey, user.ID)
	return context.WithValue(ctx, auth.UserKey, user)
}
