package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/auth"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/notifier"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/storage"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type AchievementHandler struct {
	db       *gorm.DB
	notifier notifier.Notifier
	store    *storage.Store
}

func NewAchievementHandler(db *gorm.DB, notifier notifier.Notifier, store *storage.Store) *AchievementHandler {
	return &AchievementHandler{db: db, notifier: notifier, store: store}
}

type ListAchievementsRequest struct {
	Status    string `query:"status" doc:"Filter by status"`
	Category  string `query:"category" doc:"Filter by category"`
	StudentID uint   `query:"studentId" doc:"Filter by owning student"`
	Page      int    `query:"page" doc:"Page number, starting at 1"`
	Limit     int    `query:"limit" doc:"Page size"`
}

type ListAchievementsResponse struct {
	Body struct {
		Achievements []models.Achievement `json:"achievements"`
		Total        int64                `json:"total"`
		Page         int                  `json:"page"`
		TotalPages   int                  `json:"totalPages"`
	}
}

func (h *AchievementHandler) HandleList(ctx context.Context, input *ListAchievementsRequest) (*ListAchievementsResponse, error) {
	page, limit := normalizePage(input.Page, input.Limit, 10)

	query := h.db.Model(&models.Achievement{})
	if input.Status != "" {
		query = query.Where("status = ?", input.Status)
	}
	if input.Category != "" {
		query = query.Where("category = ?", input.Category)
	}
	if input.StudentID != 0 {
		query = query.Where("student_id = ?", input.StudentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to count achievements")
	}

	var achievements []models.Achievement
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&achievements).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch achievements")
	}

	res := &ListAchievementsResponse{}
	res.Body.Achievements = achievements
	res.Body.Total = total
	res.Body.Page = page
	res.Body.TotalPages = totalPages(total, limit)
	return res, nil
}

type GetAchievementRequest struct {
	ID uint `path:"id"`
}

type AchievementResponse struct {
	Body models.Achievement
}

func (h *AchievementHandler) HandleGet(ctx context.Context, input *GetAchievementRequest) (*AchievementResponse, error) {
	var achievement models.Achievement
	if err := h.db.First(&achievement, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Achievement not found.")
	}
	return &AchievementResponse{Body: achievement}, nil
}

type CreateAchievementRequest struct {
	Body struct {
		Title        string    `json:"title" doc:"Achievement title" required:"true"`
		Description  string    `json:"description" required:"true"`
		Category     string    `json:"category" required:"true"`
		Level        string    `json:"level"`
		Date         time.Time `json:"date"`
		Organization string    `json:"organization"`
		DocumentURL  string    `json:"documentUrl"`
	}
}

type CreateAchievementResponse struct {
	Body struct {
		Message     string             `json:"message"`
		Achievement models.Achievement `json:"achievement"`
	}
}

func (h *AchievementHandler) HandleCreate(ctx context.Context, input *CreateAchievementRequest) (*CreateAchievementResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if !models.ValidCategory(input.Body.Category) {
		return nil, huma.Error400BadRequest(fmt.Sprintf("Invalid category. Must be one of: %s", strings.Join(models.Categories, ", ")))
	}
	level := input.Body.Level
	if level == "" {
		level = models.LevelUniversity
	}
	if !models.ValidLevel(level) {
		return nil, huma.Error400BadRequest(fmt.Sprintf("Invalid level. Must be one of: %s", strings.Join(models.Levels, ", ")))
	}

	achievement := models.Achievement{
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		Category:     input.Body.Category,
		Level:        level,
		Date:         input.Body.Date,
		Organization: input.Body.Organization,
		DocumentURL:  input.Body.DocumentURL,
		Status:       models.StatusPending,
		StudentID:    user.ID,
		StudentName:  user.Name,
	}

	if err := h.db.Create(&achievement).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create achievement: " + err.Error())
	}

	// Notify faculty best-effort.
	if h.notifier != nil {
		var faculty []models.User
		if err := h.db.Where("role = ? AND is_active = ?", models.RoleFaculty, true).Find(&faculty).Error; err == nil {
			for _, f := range faculty {
				if err := h.notifier.AchievementSubmitted(f.Email, f.Name, user.Name, achievement.Title); err != nil {
					log.Printf("Email notification failed: %v", err)
				}
			}
		}
	}

	res := &CreateAchievementResponse{}
	res.Body.Message = "Achievement created successfully."
	res.Body.Achievement = achievement
	return res, nil
}

type UpdateAchievementRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Title        string     `json:"title"`
		Description  string     `json:"description"`
		Category     string     `json:"category"`
		Level        string     `json:"level"`
		Date         *time.Time `json:"date"`
		Organization string     `json:"organization"`
		DocumentURL  string     `json:"documentUrl"`
	}
}

func (h *AchievementHandler) HandleUpdate(ctx context.Context, input *UpdateAchievementRequest) (*CreateAchievementResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var achievement models.Achievement
	if err := h.db.First(&achievement, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Achievement not found.")
	}

	// Students may edit only their own pending achievements. Status and
	// validation fields are never writable through this route.
	if user.Role == models.RoleStudent {
		if achievement.StudentID != user.ID {
			return nil, huma.Error403Forbidden("Access denied.")
		}
		if achievement.Status != models.StatusPending {
			return nil, huma.Error400BadRequest("Cannot update approved/rejected achievements.")
		}
	}

	updates := map[string]interface{}{}
	if input.Body.Title != "" {
		updates["title"] = input.Body.Title
	}
	if input.Body.Description != "" {
		updates["description"] = input.Body.Description
	}
	if input.Body.Category != "" {
		if !models.ValidCategory(input.Body.Category) {
			return nil, huma.Error400BadRequest("Invalid category.")
		}
		updates["category"] = input.Body.Category
	}
	if input.Body.Level != "" {
		if !models.ValidLevel(input.Body.Level) {
			return nil, huma.Error400BadRequest("Invalid level.")
		}
		updates["level"] = input.Body.Level
	}
	if input.Body.Date != nil {
		updates["date"] = *input.Body.Date
	}
	if input.Body.Organization != "" {
		updates["organization"] = input.Body.Organization
	}
	if input.Body.DocumentURL != "" {
		updates["document_url"] = input.Body.DocumentURL
	}

	if err := h.db.Model(&achievement).Updates(updates).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update achievement")
	}

	if err := h.db.First(&achievement, input.ID).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to reload achievement")
	}

	res := &CreateAchievementResponse{}
	res.Body.Message = "Achievement updated successfully."
	res.Body.Achievement = achievement
	return res, nil
}

type DeleteAchievementRequest struct {
	ID uint `path:"id"`
}

type DeleteAchievementResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *AchievementHandler) HandleDelete(ctx context.Context, input *DeleteAchievementRequest) (*DeleteAchievementResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var achievement models.Achievement
	if err := h.db.First(&achievement, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Achievement not found.")
	}

	// Students may remove their own pending submissions; otherwise only
	// admins can delete.
	if user.Role == models.RoleStudent {
		if achievement.StudentID != user.ID {
			return nil, huma.Error403Forbidden("Access denied.")
		}
		if achievement.Status != models.StatusPending {
			return nil, huma.Error400BadRequest("Cannot delete approved/rejected achievements.")
		}
	} else if user.Role != models.RoleAdmin {
		return nil, huma.Error403Forbidden("Access denied. Insufficient permissions.")
	}

	if achievement.DocumentURL != "" && h.store != nil {
		name := strings.TrimPrefix(achievement.DocumentURL, "/uploads/")
		if err := h.store.Delete(name); err != nil {
			log.Printf("Failed to remove document %s: %v", achievement.DocumentURL, err)
		}
	}

	if err := h.db.Delete(&achievement).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete achievement")
	}

	res := &DeleteAchievementResponse{}
	res.Body.Message = "Achievement deleted successfully."
	return res, nil
}

type ValidateAchievementRequest struct {
	ID   uint `path:"id"`
	Body struct {
		Status          string `json:"status" doc:"approved or rejected" required:"true"`
		RejectionReason string `json:"rejectionReason"`
	}
}

func (h *AchievementHandler) HandleValidate(ctx context.Context, input *ValidateAchievementRequest) (*CreateAchievementResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if user.Role != models.RoleFaculty && user.Role != models.RoleAdmin {
		return nil, huma.Error403Forbidden("Access denied. Insufficient permissions.")
	}

	status := input.Body.Status
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, huma.Error400BadRequest("Status must be approved or rejected.")
	}

	var achievement models.Achievement
	if err := h.db.First(&achievement, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Achievement not found.")
	}

	// Validation happens exactly once.
	if achievement.Status != models.StatusPending {
		return nil, huma.Error400BadRequest("Achievement is already processed.")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":          status,
		"validated_by_id": user.ID,
		"validated_at":    now,
	}
	if status == models.StatusRejected && input.Body.RejectionReason != "" {
		updates["rejection_reason"] = input.Body.RejectionReason
	}

	message := fmt.Sprintf("Your achievement %q has been approved.", achievement.Title)
	notificationType := models.NotificationAchievementApproved
	if status == models.StatusRejected {
		message = fmt.Sprintf("Your achievement %q has been rejected. Reason: %s", achievement.Title, input.Body.RejectionReason)
		notificationType = models.NotificationAchievementRejected
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&achievement).Updates(updates).Error; err != nil {
			return err
		}

		notification := models.Notification{
			UserID:               achievement.StudentID,
			Title:                "Achievement " + status,
			Message:              message,
			Type:                 notificationType,
			RelatedAchievementID: &achievement.ID,
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to process validation: " + err.Error())
	}

	// Send email notification best-effort.
	if h.notifier != nil {
		var student models.User
		if err := h.db.First(&student, achievement.StudentID).Error; err == nil && student.Email != "" {
			var emailErr error
			if status == models.StatusApproved {
				emailErr = h.notifier.AchievementApproved(student.Email, student.Name, achievement.Title)
			} else {
				emailErr = h.notifier.AchievementRejected(student.Email, student.Name, achievement.Title, input.Body.RejectionReason)
			}
			if emailErr != nil {
				log.Printf("Email notification failed: %v", emailErr)
			}
		}
	}

	if err := h.db.First(&achievement, input.ID).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to reload achievement")
	}

	res := &CreateAchievementResponse{}
	res.Body.Message = fmt.Sprintf("Achievement %s successfully.", status)
	res.Body.Achievement = achievement
	return res, nil
}

type UserAchievementsRequest struct {
	UserID uint `path:"userId"`
}

type UserAchievementsResponse struct {
	Body []models.Achievement
}

func (h *AchievementHandler) HandleByUser(ctx context.Context, input *UserAchievementsRequest) (*UserAchievementsResponse, error) {
	var achievements []models.Achievement
	err := h.db.Where("student_id = ?", input.UserID).Order("created_at DESC").Find(&achievements).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch achievements")
	}
	return &UserAchievementsResponse{Body: achievements}, nil
}

var allowedDocumentExts = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
	".pdf": true, ".doc": true, ".docx": true,
}

const maxDocumentSize = 5 << 20 // 5MB

// HandleUploadDocument stores a supporting document and returns its URL.
// Multipart uploads stay outside the typed API surface.
func (h *AchievementHandler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer file.Close()

	if !allowedDocumentExts[strings.ToLower(filepath.Ext(header.Filename))] {
		writeJSONError(w, http.StatusBadRequest, "Only image, PDF, and document files are allowed!")
		return
	}

	name, err := h.store.Save(header.Filename, file)
	if err != nil {
		if errors.As(err, new(*http.MaxBytesError)) {
			writeJSONError(w, http.StatusBadRequest, "File too large.")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Failed to store file.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "File uploaded successfully.",
		"url":     "/uploads/" + name,
	})
}
