package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/importer"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

type DashboardResponse struct {
	Body struct {
		TotalUsers          int64                `json:"totalUsers"`
		TotalStudents       int64                `json:"totalStudents"`
		TotalFaculty        int64                `json:"totalFaculty"`
		TotalAchievements   int64                `json:"totalAchievements"`
		PendingAchievements int64                `json:"pendingAchievements"`
		UserStats           map[string]int64     `json:"userStats"`
		RecentAchievements  []models.Achievement `json:"recentAchievements"`
	}
}

func (h *AdminHandler) HandleDashboard(ctx context.Context, input *struct{}) (*DashboardResponse, error) {
	if _, err := requireRoles(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}

	res := &DashboardResponse{}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&res.Body.TotalUsers, h.db.Model(&models.User{})},
		{&res.Body.TotalStudents, h.db.Model(&models.User{}).Where("role = ?", models.RoleStudent)},
		{&res.Body.TotalFaculty, h.db.Model(&models.User{}).Where("role = ?", models.RoleFaculty)},
		{&res.Body.TotalAchievements, h.db.Model(&models.Achievement{})},
		{&res.Body.PendingAchievements, h.db.Model(&models.Achievement{}).Where("status = ?", models.StatusPending)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, huma.Error500InternalServerError("Failed to fetch dashboard statistics")
		}
	}

	var roles []RoleCount
	if err := h.db.Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roles).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch dashboard statistics")
	}
	res.Body.UserStats = map[string]int64{}
	for _, r := range roles {
		res.Body.UserStats[r.Role] = int64(r.Count)
	}

	if err := h.db.Order("created_at DESC").Limit(5).Find(&res.Body.RecentAchievements).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch dashboard statistics")
	}

	return res, nil
}

type ListUsersRequest struct {
	Role       string `query:"role"`
	Department string `query:"department"`
	Search     string `query:"search" doc:"Matches name, email or student id"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

type ListUsersResponse struct {
	Body struct {
		Users      []models.User `json:"users"`
		Total      int64         `json:"total"`
		Page       int           `json:"page"`
		TotalPages int           `json:"totalPages"`
	}
}

func (h *AdminHandler) HandleListUsers(ctx context.Context, input *ListUsersRequest) (*ListUsersResponse, error) {
	if _, err := requireRoles(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}

	page, limit := normalizePage(input.Page, input.Limit, 20)

	query := h.db.Model(&models.User{})
	if input.Role != "" {
		query = query.Where("role = ?", input.Role)
	}
	if input.Department != "" {
		query = query.Where("department = ?", input.Department)
	}
	if input.Search != "" {
		like := "%" + input.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR student_id LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to count users")
	}

	var users []models.User
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch users")
	}

	res := &ListUsersResponse{}
	res.Body.Users = users
	res.Body.Total = total
	res.Body.Page = page
	res.Body.TotalPages = totalPages(total, limit)
	return res, nil
}

type CreateUserRequest struct {
	Body struct {
		Name       string `json:"name" required:"true"`
		Email      string `json:"email" format:"email" required:"true"`
		Password   string `json:"password" minLength:"6" required:"true"`
		Role       string `json:"role" required:"true"`
		StudentID  string `json:"studentId"`
		Department string `json:"department" required:"true"`
	}
}

type UserResponse struct {
	Body struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
}

func (h *AdminHandler) HandleCreateUser(ctx context.Context, input *CreateUserRequest) (*UserResponse, error) {
	if _, err := requireRoles(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}

	if !models.ValidRole(input.Body.Role) {
		return nil, huma.Error400BadRequest("Invalid role.")
	}
	if !models.ValidDepartment(input.Body.Department) {
		return nil, huma.Error400BadRequest(fmt.Sprintf("Invalid department. Must be one of: %s", strings.Join(models.Departments, ", ")))
	}

	email := strings.ToLower(strings.TrimSpace(input.Body.Email))

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, huma.Error409Conflict("User with this email already exists.")
	}
	if input.Body.Role == models.RoleStudent && input.Body.StudentID != "" {
		h.db.Model(&models.User{}).Where("student_id = ?", input.Body.StudentID).Count(&count)
		if count > 0 {
			return nil, huma.Error409Conflict("User with this student ID already exists.")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{
		Name:       input.Body.Name,
		Email:      email,
		Password:   string(hash),
		Role:       input.Body.Role,
		Department: input.Body.Department,
		IsActive:   true,
	}
	if user.Role == models.RoleStudent {
		user.StudentID = input.Body.StudentID
	}

	if err := h.db.Create(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create user: " + err.Error())
	}

	res := &UserResponse{}
	res.Body.Message = "User created successfully."
	res.Body.User = user
	return res, nil
}

type UpdateUserRoleRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Role       string `json:"role"`
		Department string `json:"department"`
		IsActive   *bool  `json:"isActive"`
	}
}

func (h *AdminHandler) HandleUpdateUser(ctx context.Context, input *UpdateUserRoleRequest) (*UserResponse, error) {
	if _, err := requireRoles(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.First(&user, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found.")
	}

	updates := map[string]interface{}{}
	if input.Body.Role != "" {
		if !models.ValidRole(input.Body.Role) {
			return nil, huma.Error400BadRequest("Invalid role.")
		}
		updates["role"] = input.Body.Role
	}
	if input.Body.Department != "" {
		if !models.ValidDepartment(input.Body.Department) {
			return nil, huma.Error400BadRequest("Invalid department.")
		}
		updates["department"] = input.Body.Department
	}
	if input.Body.IsActive != nil {
		updates["is_active"] = *input.Body.IsActive
	}

	// Demoting or deactivating the last admin would lock everyone out.
	if user.Role == models.RoleAdmin {
		losesAdmin := false
		if role, ok := updates["role"].(string); ok && role != models.RoleAdmin {
			losesAdmin = true
		}
		if active, ok := updates["is_active"].(bool); ok && !active {
			losesAdmin = true
		}
		if losesAdmin {
			var admins int64
			h.db.Model(&models.User{}).Where("role = ? AND is_active = ?", models.RoleAdmin, true).Count(&admins)
			if admins <= 1 {
				return nil, huma.Error400BadRequest("Cannot remove the last admin user.")
			}
		}
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, huma.Error500InternalServerError("Failed to update user")
		}
		if err := h.db.First(&user, input.ID).Error; err != nil {
			return nil, huma.Error500InternalServerError("Failed to reload user")
		}
	}

	res := &UserResponse{}
	res.Body.Message = "User updated successfully."
	res.Body.User = user
	return res, nil
}

type DeleteUserRequest struct {
	ID uint `path:"id"`
}

type DeleteUserResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *AdminHandler) HandleDeleteUser(ctx context.Context, input *DeleteUserRequest) (*DeleteUserResponse, error) {
	current, err := requireRoles(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.First(&user, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found.")
	}

	if user.ID == current.ID {
		return nil, huma.Error400BadRequest("You cannot delete your own account.")
	}
	if user.Role == models.RoleAdmin {
		var admins int64
		h.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
		if admins <= 1 {
			return nil, huma.Error400BadRequest("Cannot delete the last admin user.")
		}
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete user")
	}

	res := &DeleteUserResponse{}
	res.Body.Message = "User deleted successfully."
	return res, nil
}

// userRowFunc persists one validated user import row. Existing emails and
// student IDs are import errors rather than upserts; re-running the same
// sheet must not clobber accounts.
func (h *AdminHandler) userRowFunc(row importer.Row, line int) error {
	rec, reason := importer.ValidateUserRow(row, []string{models.RoleStudent, models.RoleFaculty, models.RoleAdmin}, models.Departments)
	if reason != "" {
		return fmt.Errorf("%s", reason)
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", rec.Email).Count(&count)
	if count > 0 {
		return fmt.Errorf("User with email %s already exists", rec.Email)
	}
	if rec.StudentID != "" {
		h.db.Model(&models.User{}).Where("student_id = ?", rec.StudentID).Count(&count)
		if count > 0 {
			return fmt.Errorf("User with student ID %s already exists", rec.StudentID)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rec.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:       rec.Name,
		Email:      rec.Email,
		Password:   string(hash),
		Role:       rec.Role,
		StudentID:  rec.StudentID,
		Department: rec.Department,
		IsActive:   rec.IsActive,
	}
	return h.db.Create(&user).Error
}

// HandleImportUsers ingests a CSV or Excel sheet of accounts.
func (h *AdminHandler) HandleImportUsers(w http.ResponseWriter, r *http.Request) {
	path, ok := saveUpload(w, r)
	if !ok {
		return
	}

	summary, err := importer.Run(path, "User import completed.", h.userRowFunc)
	if err != nil {
		if err == importer.ErrUnsupportedFormat {
			writeJSONError(w, http.StatusBadRequest, "Unsupported file type. Please upload a CSV or Excel file.")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "Failed to parse file: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
