package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/config"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{cfg: cfg, db: db}
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

type RegisterRequest struct {
	Body struct {
		Name       string `json:"name" doc:"Full name" required:"true"`
		Email      string `json:"email" doc:"Institutional email, unique" required:"true"`
		Password   string `json:"password" doc:"Plaintext password, stored hashed" required:"true"`
		Role       string `json:"role" doc:"student, faculty or admin" required:"true"`
		StudentID  string `json:"studentId" doc:"Student ID, students only"`
		Department string `json:"department" doc:"Department code"`
	}
}

type AuthResponse struct {
	Body struct {
		Message string      `json:"message"`
		Token   string      `json:"token"`
		User    models.User `json:"user"`
	}
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*AuthResponse, error) {
	if !models.ValidRole(input.Body.Role) {
		return nil, huma.Error400BadRequest("Invalid role.")
	}

	var existing models.User
	if err := h.db.Where("email = ?", input.Body.Email).First(&existing).Error; err == nil {
		return nil, huma.Error400BadRequest("User already exists with this email.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error500InternalServerError("Database error")
	}

	if input.Body.Role == models.RoleStudent && input.Body.StudentID != "" {
		if err := h.db.Where("student_id = ?", input.Body.StudentID).First(&existing).Error; err == nil {
			return nil, huma.Error400BadRequest("Student ID already exists.")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error500InternalServerError("Database error")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{
		Name:       input.Body.Name,
		Email:      strings.ToLower(strings.TrimSpace(input.Body.Email)),
		Password:   string(hashed),
		Role:       input.Body.Role,
		Department: input.Body.Department,
		IsActive:   true,
	}
	if input.Body.Role == models.RoleStudent {
		user.StudentID = input.Body.StudentID
	}

	if err := h.db.Create(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create user: " + err.Error())
	}

	token, err := h.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &AuthResponse{}
	res.Body.Message = "User registered successfully."
	res.Body.Token = token
	res.Body.User = user
	return res, nil
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" required:"true"`
		Password string `json:"password" required:"true"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*AuthResponse, error) {
	var user models.User
	err := h.db.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Body.Email))).First(&user).Error
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid email or password.")
	}

	if !user.IsActive {
		return nil, huma.Error400BadRequest("Account is deactivated.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Body.Password)); err != nil {
		return nil, huma.Error400BadRequest("Invalid email or password.")
	}

	token, err := h.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &AuthResponse{}
	res.Body.Message = "Login successful."
	res.Body.Token = token
	res.Body.User = user
	return res, nil
}

type MeResponse struct {
	Body models.User
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *struct{}) (*MeResponse, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	return &MeResponse{Body: *user}, nil
}

type UpdateProfileRequest struct {
	Body struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Department string `json:"department"`
		StudentID  string `json:"studentId"`
	}
}

type UpdateProfileResponse struct {
	Body struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
}

func (h *AuthHandler) HandleUpdateProfile(ctx context.Context, input *UpdateProfileRequest) (*UpdateProfileResponse, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	updates := map[string]interface{}{}
	if input.Body.Name != "" {
		updates["name"] = input.Body.Name
	}
	if input.Body.Department != "" {
		updates["department"] = input.Body.Department
	}

	if input.Body.Email != "" && input.Body.Email != user.Email {
		var existing models.User
		if err := h.db.Where("email = ?", input.Body.Email).First(&existing).Error; err == nil {
			return nil, huma.Error400BadRequest("Email already exists.")
		}
		updates["email"] = input.Body.Email
	}

	if input.Body.StudentID != "" && input.Body.StudentID != user.StudentID && user.Role == models.RoleStudent {
		var existing models.User
		if err := h.db.Where("student_id = ?", input.Body.StudentID).First(&existing).Error; err == nil {
			return nil, huma.Error400BadRequest("Student ID already exists.")
		}
		updates["student_id"] = input.Body.StudentID
	}

	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update profile")
	}

	var updated models.User
	if err := h.db.First(&updated, user.ID).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to reload profile")
	}

	res := &UpdateProfileResponse{}
	res.Body.Message = "Profile updated successfully."
	res.Body.User = updated
	return res, nil
}

type ResetPasswordRequest struct {
	Body struct {
		CurrentPassword string `json:"currentPassword" required:"true"`
		NewPassword     string `json:"newPassword" required:"true"`
	}
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleResetPassword(ctx context.Context, input *ResetPasswordRequest) (*MessageResponse, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if len(input.Body.NewPassword) < 6 {
		return nil, huma.Error400BadRequest("New password must be at least 6 characters long")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Body.CurrentPassword)); err != nil {
		return nil, huma.Error400BadRequest("Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	if err := h.db.Model(user).Update("password", string(hashed)).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to reset password")
	}

	res := &MessageResponse{}
	res.Body.Message = "Password updated successfully"
	return res, nil
}
