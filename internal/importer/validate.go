package importer

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
)

// AchievementRecord is a validated, normalized achievement import row.
type AchievementRecord struct {
	Title        string
	Description  string
	Category     string
	Level        string
	Date         time.Time
	DateFellBack bool
	Organization string
	StudentEmail string
	StudentName  string
	Department   string
	Status       string
	Points       int
}

// UserRecord is a validated, normalized user import row.
type UserRecord struct {
	Name       string
	Email      string
	Password   string
	Role       string
	StudentID  string
	Department string
	IsActive   bool
}

// ValidateAchievementRow checks one achievement row against the expected
// columns and enum allow-lists. It returns the normalized record, or a
// human-readable reason when the row must be rejected. Validation failures
// are data, not errors: the batch keeps going.
//
// Achievement headers are matched case-sensitively, matching the published
// import template.
func ValidateAchievementRow(row Row, now func() time.Time) (*AchievementRecord, string) {
	var missing []string
	for _, field := range []string{"title", "description", "category", "studentEmail"} {
		if strings.TrimSpace(row[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, "Missing required fields: " + strings.Join(missing, ", ")
	}

	category := strings.ToLower(strings.TrimSpace(row["category"]))
	if !models.ValidCategory(category) {
		return nil, fmt.Sprintf("Invalid category %q. Must be one of: %s", category, strings.Join(models.Categories, ", "))
	}

	level := strings.ToLower(strings.TrimSpace(row["level"]))
	if level == "" {
		level = models.LevelUniversity
	}
	if !models.ValidLevel(level) {
		return nil, fmt.Sprintf("Invalid level %q. Must be one of: %s", level, strings.Join(models.Levels, ", "))
	}

	status := strings.ToLower(strings.TrimSpace(row["status"]))
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Sprintf("Invalid status %q. Must be one of: pending, approved, rejected", status)
	}

	points := 0
	if raw := strings.TrimSpace(row["points"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Sprintf("Invalid points value %q", raw)
		}
		points = n
	}

	rec := &AchievementRecord{
		Title:        strings.TrimSpace(row["title"]),
		Description:  strings.TrimSpace(row["description"]),
		Category:     category,
		Level:        level,
		Organization: strings.TrimSpace(row["organization"]),
		StudentEmail: strings.TrimSpace(row["studentEmail"]),
		StudentName:  strings.TrimSpace(row["studentName"]),
		Department:   strings.TrimSpace(row["department"]),
		Status:       status,
		Points:       points,
	}

	date, err := ParseDate(row["date"])
	if err != nil {
		// Lenient-failure policy: one bad date must not block an otherwise
		// valid row. Substitute the processing date and flag it.
		log.Printf("Invalid date %q for %s, using current date: %v", row["date"], rec.StudentEmail, err)
		date = now()
		rec.DateFellBack = true
	}
	rec.Date = date

	return rec, ""
}

// ValidateUserRow checks one user row. User imports arrive from many hands,
// so headers are matched through the case-variant extractor and the role can
// be sniffed out of the row contents as a last resort.
func ValidateUserRow(row Row, roles, departments []string) (*UserRecord, string) {
	if len(row) == 0 {
		return nil, "Empty row"
	}

	name := strings.TrimSpace(Field(row, "name"))
	email := strings.ToLower(strings.TrimSpace(Field(row, "email")))
	password := strings.TrimSpace(Field(row, "password"))
	role := strings.ToLower(strings.TrimSpace(Field(row, "role")))
	department := strings.ToUpper(strings.TrimSpace(Field(row, "department")))
	studentID := strings.TrimSpace(Field(row, "studentId"))

	if role == "" {
		role = SniffRole(row)
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", name}, {"email", email}, {"password", password}, {"role", role}, {"department", department},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, "Missing required fields: " + strings.Join(missing, ", ")
	}

	if !contains(roles, role) {
		return nil, fmt.Sprintf("Invalid role %q. Must be one of: %s", role, strings.Join(roles, ", "))
	}
	if !contains(departments, department) {
		return nil, fmt.Sprintf("Invalid department %q. Must be one of: %s", department, strings.Join(departments, ", "))
	}

	active := true
	if raw := strings.TrimSpace(Field(row, "isActive")); raw != "" {
		active = strings.EqualFold(raw, "true")
	}

	rec := &UserRecord{
		Name:       name,
		Email:      email,
		Password:   password,
		Role:       role,
		Department: department,
		IsActive:   active,
	}
	if role == models.RoleStudent {
		rec.StudentID = studentID
	}

	return rec, ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
