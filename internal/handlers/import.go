package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/config"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/importer"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/notifier"
	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxImportSize = 10 << 20 // 10MB

type ImportHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	notifier notifier.Notifier
}

func NewImportHandler(db *gorm.DB, cfg *config.Config, notifier notifier.Notifier) *ImportHandler {
	return &ImportHandler{db: db, cfg: cfg, notifier: notifier}
}

// saveUpload copies the multipart "file" part to a temp file, keeping the
// original extension so the reader can dispatch on it. The caller owns the
// file; importer.Run removes it after processing.
func saveUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No file uploaded.")
		return "", false
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "import-*"+strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to store file.")
		return "", false
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		writeJSONError(w, http.StatusBadRequest, "Failed to store file.")
		return "", false
	}
	tmp.Close()

	return tmp.Name(), true
}

// resolveStudent finds the student account an imported achievement belongs
// to, creating a minimal one when the email is unknown. The generated account
// gets a name and student ID derived from the address local part and the
// configured default password, so the student can log in and claim it later.
//
// The lookup is scoped to student accounts. An email owned by a faculty or
// admin account misses here, and the create below fails on the email unique
// index, so the row errors instead of attaching to a non-student.
func (h *ImportHandler) resolveStudent(email, name, department string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := h.db.Where("email = ? AND role = ?", email, models.RoleStudent).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}

	if name == "" {
		name = "Student " + local
	}
	if department == "" || !models.ValidDepartment(department) {
		department = h.cfg.DefaultDepartment
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(h.cfg.DefaultImportPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = models.User{
		Name:       name,
		Email:      email,
		Password:   string(hash),
		Role:       models.RoleStudent,
		StudentID:  strings.ToUpper(local),
		Department: department,
		IsActive:   true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// achievementRowFunc validates one import row and persists the achievement,
// creating the owning student first when needed.
func (h *ImportHandler) achievementRowFunc(row importer.Row, line int) error {
	rec, reason := importer.ValidateAchievementRow(row, time.Now)
	if reason != "" {
		return fmt.Errorf("%s", reason)
	}

	department := strings.ToUpper(rec.Department)
	user, err := h.resolveStudent(rec.StudentEmail, rec.StudentName, department)
	if err != nil {
		return fmt.Errorf("failed to resolve student %s: %w", rec.StudentEmail, err)
	}

	name := rec.StudentName
	if name == "" {
		name = user.Name
	}

	achievement := models.Achievement{
		Title:        rec.Title,
		Description:  rec.Description,
		Category:     rec.Category,
		Level:        rec.Level,
		Date:         rec.Date,
		Organization: rec.Organization,
		Status:       rec.Status,
		StudentID:    user.ID,
		StudentName:  name,
		Points:       rec.Points,
	}
	if rec.Status == models.StatusApproved {
		now := time.Now()
		achievement.ValidatedAt = &now
	}

	if err := h.db.Create(&achievement).Error; err != nil {
		return fmt.Errorf("failed to create achievement: %w", err)
	}

	if rec.Status == models.StatusApproved && h.notifier != nil {
		if err := h.notifier.AchievementApproved(user.Email, user.Name, achievement.Title); err != nil {
			log.Printf("Email notification failed: %v", err)
		}
	}

	return nil
}

// HandleImportAchievements ingests a CSV or Excel sheet of achievements.
func (h *ImportHandler) HandleImportAchievements(w http.ResponseWriter, r *http.Request) {
	path, ok := saveUpload(w, r)
	if !ok {
		return
	}

	summary, err := importer.Run(path, "Achievement import completed.", h.achievementRowFunc)
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

type ManualImportRequest struct {
	Body struct {
		Achievements []map[string]string `json:"achievements" required:"true"`
	}
}

type ImportSummaryResponse struct {
	Body importer.Summary
}

// HandleManualImport runs the same pipeline over rows supplied as JSON,
// for imports pasted or mapped in the UI instead of uploaded as a file.
func (h *ImportHandler) HandleManualImport(ctx context.Context, input *ManualImportRequest) (*ImportSummaryResponse, error) {
	if _, err := requireRoles(ctx, models.RoleAdmin, models.RoleFaculty); err != nil {
		return nil, err
	}

	if len(input.Body.Achievements) == 0 {
		return nil, huma.Error400BadRequest("No achievements provided.")
	}

	rows := make([]importer.Row, len(input.Body.Achievements))
	for i, a := range input.Body.Achievements {
		rows[i] = importer.Row(a)
	}

	summary := importer.RunRows(rows, "Achievement import completed.", h.achievementRowFunc)
	return &ImportSummaryResponse{Body: *summary}, nil
}

const achievementTemplate = `title,description,category,level,date,organization,studentEmail,studentName,department,status,points
Hackathon Winner,Won first place in the national hackathon,technical,national,2024-01-15,Tech Society,student@university.edu,John Doe,CSE,approved,50
`

// HandleTemplate serves the CSV the import sheet should follow.
func (h *ImportHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="achievement-import-template.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(achievementTemplate)); err != nil {
		log.Printf("Failed to write template: %v", err)
	}
}

type ImportStatsResponse struct {
	Body struct {
		TotalAchievements    int64                `json:"totalAchievements"`
		ApprovedAchievements int64                `json:"approvedAchievements"`
		PendingAchievements  int64                `json:"pendingAchievements"`
		CategoryStats        []CategoryCount      `json:"categoryStats"`
		RecentImports        []models.Achievement `json:"recentImports"`
	}
}

func (h *ImportHandler) HandleImportStats(ctx context.Context, input *struct{}) (*ImportStatsResponse, error) {
	if _, err := requireRoles(ctx, models.RoleAdmin, models.RoleFaculty); err != nil {
		return nil, err
	}

	res := &ImportStatsResponse{}

	if err := h.db.Model(&models.Achievement{}).Count(&res.Body.TotalAchievements).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch import statistics")
	}
	if err := h.db.Model(&models.Achievement{}).Where("status = ?", models.StatusApproved).Count(&res.Body.ApprovedAchievements).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch import statistics")
	}
	if err := h.db.Model(&models.Achievement{}).Where("status = ?", models.StatusPending).Count(&res.Body.PendingAchievements).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch import statistics")
	}

	err := h.db.Model(&models.Achievement{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&res.Body.CategoryStats).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch import statistics")
	}
	if res.Body.CategoryStats == nil {
		res.Body.CategoryStats = []CategoryCount{}
	}

	if err := h.db.Order("created_at DESC").Limit(10).Find(&res.Body.RecentImports).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch import statistics")
	}

	return res, nil
}
