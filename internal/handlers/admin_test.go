package handlers

import (
	"strings"
	"testing"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
)

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db)
	student := createTestUser(t, db, models.RoleStudent, "s@university.edu", "CS1")

	if _, err := h.HandleDashboard(authContext(student), &struct{}{}); err == nil {
		t.Error("student reached the admin dashboard")
	}
	if _, err := h.HandleListUsers(authContext(student), &ListUsersRequest{}); err == nil {
		t.Error("student listed users")
	}
}

func TestDeleteUserGuards(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db)
	admin := createTestUser(t, db, models.RoleAdmin, "admin@university.edu", "")
	student := createTestUser(t, db, models.RoleStudent, "s@university.edu", "CS1")

	// Self-deletion is never allowed.
	_, err := h.HandleDeleteUser(authContext(admin), &DeleteUserRequest{ID: admin.ID})
	if err == nil || !strings.Contains(err.Error(), "own account") {
		t.Fatalf("got %v, want self-deletion rejection", err)
	}

	// Deleting a student works.
	if _, err := h.HandleDeleteUser(authContext(admin), &DeleteUserRequest{ID: student.ID}); err != nil {
		t.Fatalf("HandleDeleteUser: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("got %d users, want 1", count)
	}
}

func TestDeleteLastAdminBlocked(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db)
	admin := createTestUser(t, db, models.RoleAdmin, "a1@university.edu", "")
	other := createTestUser(t, db, models.RoleAdmin, "a2@university.edu", "")

	// With two admins, deleting one is fine.
	if _, err := h.HandleDeleteUser(authContext(admin), &DeleteUserRequest{ID: other.ID}); err != nil {
		t.Fatalf("HandleDeleteUser: %v", err)
	}

	// Only one admin remains; demoting or deactivating it is blocked.
	demote := &UpdateUserRoleRequest{ID: admin.ID}
	demote.Body.Role = models.RoleFaculty
	_, err := h.HandleUpdateUser(authContext(admin), demote)
	if err == nil || !strings.Contains(err.Error(), "last admin") {
		t.Fatalf("got %v, want last-admin rejection", err)
	}

	inactive := false
	deactivate := &UpdateUserRoleRequest{ID: admin.ID}
	deactivate.Body.IsActive = &inactive
	_, err = h.HandleUpdateUser(authContext(admin), deactivate)
	if err == nil || !strings.Contains(err.Error(), "last admin") {
		t.Fatalf("got %v, want last-admin rejection", err)
	}
}

func TestCreateUserChecksDuplicates(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db)
	admin := createTestUser(t, db, models.RoleAdmin, "admin@university.edu", "")
	createTestUser(t, db, models.RoleStudent, "taken@university.edu", "CS1")

	input := &CreateUserRequest{}
	input.Body.Name = "New Student"
	input.Body.Email = "taken@university.edu"
	input.Body.Password = "secret1"
	input.Body.Role = models.RoleStudent
	input.Body.StudentID = "CS99"
	input.Body.Department = "CSE"

	if _, err := h.HandleCreateUser(authContext(admin), input); err == nil {
		t.Fatal("duplicate email accepted")
	}

	input.Body.Email = "new@university.edu"
	input.Body.StudentID = "CS1"
	if _, err := h.HandleCreateUser(authContext(admin), input); err == nil {
		t.Fatal("duplicate student ID accepted")
	}

	input.Body.StudentID = "CS99"
	res, err := h.HandleCreateUser(authContext(admin), input)
	if err != nil {
		t.Fatalf("HandleCreateUser: %v", err)
	}
	if res.Body.User.Email != "new@university.edu" {
		t.Errorf("unexpected user: %+v", res.Body.User)
	}
}

func TestListUsersFilters(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminHandler(db)
	admin := createTestUser(t, db, models.RoleAdmin, "admin@university.edu", "")
	createTestUser(t, db, models.RoleStudent, "s1@university.edu", "CS1")
	createTestUser(t, db, models.RoleStudent, "s2@university.edu", "CS2")
	createTestUser(t, db, models.RoleFaculty, "f@university.edu", "")

	res, err := h.HandleListUsers(authContext(admin), &ListUsersRequest{Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("HandleListUsers: %v", err)
	}
	if res.Body.Total != 2 {
		t.Errorf("got %d students, want 2", res.Body.Total)
	}

	res, err = h.HandleListUsers(authContext(admin), &ListUsersRequest{Search: "s1@"})
	if err != nil {
		t.Fatalf("HandleListUsers: %v", err)
	}
	if res.Body.Total != 1 {
		t.Errorf("search got %d users, want 1", res.Body.Total)
	}
}
