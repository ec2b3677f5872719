package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func achievementRow() Row {
	return Row{
		"title":        "Hackathon Winner",
		"description":  "Won first place",
		"category":     "technical",
		"level":        "national",
		"date":         "15-01-2024",
		"organization": "Tech Society",
		"studentEmail": "jdoe@university.edu",
		"studentName":  "John Doe",
		"department":   "CSE",
		"status":       "approved",
		"points":       "50",
	}
}

func TestValidateAchievementRow(t *testing.T) {
	rec, reason := ValidateAchievementRow(achievementRow(), fixedNow)
	if reason != "" {
		t.Fatalf("unexpected rejection: %s", reason)
	}
	if rec.Title != "Hackathon Winner" || rec.Category != "technical" || rec.Points != 50 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.Date.Equal(date(2024, time.January, 15)) {
		t.Errorf("got date %v, want 2024-01-15", rec.Date)
	}
	if rec.DateFellBack {
		t.Error("DateFellBack should be false for a parseable date")
	}
}

func TestValidateAchievementRowMissingFields(t *testing.T) {
	row := achievementRow()
	delete(row, "title")
	row["studentEmail"] = "  "

	_, reason := ValidateAchievementRow(row, fixedNow)
	if !strings.Contains(reason, "Missing required fields") {
		t.Fatalf("got %q, want missing-fields rejection", reason)
	}
	if !strings.Contains(reason, "title") || !strings.Contains(reason, "studentEmail") {
		t.Errorf("rejection should name both fields: %q", reason)
	}
}

func TestValidateAchievementRowDefaults(t *testing.T) {
	row := achievementRow()
	delete(row, "level")
	delete(row, "status")
	delete(row, "points")

	rec, reason := ValidateAchievementRow(row, fixedNow)
	if reason != "" {
		t.Fatalf("unexpected rejection: %s", reason)
	}
	if rec.Level != models.LevelUniversity {
		t.Errorf("got level %q, want default %q", rec.Level, models.LevelUniversity)
	}
	if rec.Status != models.StatusPending {
		t.Errorf("got status %q, want default %q", rec.Status, models.StatusPending)
	}
	if rec.Points != 0 {
		t.Errorf("got points %d, want 0", rec.Points)
	}
}

func TestValidateAchievementRowInvalidEnums(t *testing.T) {
	for _, tc := range []struct{ field, value string }{
		{"category", "gaming"},
		{"level", "galactic"},
		{"status", "maybe"},
		{"points", "fifty"},
	} {
		row := achievementRow()
		row[tc.field] = tc.value
		if _, reason := ValidateAchievementRow(row, fixedNow); reason == "" {
			t.Errorf("%s=%q accepted, want rejection", tc.field, tc.value)
		}
	}
}

func TestValidateAchievementRowBadDateFallsBack(t *testing.T) {
	row := achievementRow()
	row["date"] = "not-a-date"

	rec, reason := ValidateAchievementRow(row, fixedNow)
	if reason != "" {
		t.Fatalf("bad date must not reject the row, got %q", reason)
	}
	if !rec.DateFellBack {
		t.Error("DateFellBack should be set")
	}
	if !rec.Date.Equal(fixedNow()) {
		t.Errorf("got date %v, want processing date %v", rec.Date, fixedNow())
	}
}

func TestValidateUserRow(t *testing.T) {
	row := Row{
		"Name":       "Jane Doe",
		"EMAIL":      "Jane@University.edu",
		"password":   "secret1",
		"role":       "student",
		"studentId":  "CS2024",
		"department": "cse",
	}

	rec, reason := ValidateUserRow(row, []string{"student", "faculty", "admin"}, models.Departments)
	if reason != "" {
		t.Fatalf("unexpected rejection: %s", reason)
	}
	if rec.Email != "jane@university.edu" {
		t.Errorf("email should be lower-cased, got %q", rec.Email)
	}
	if rec.Department != "CSE" {
		t.Errorf("department should be upper-cased, got %q", rec.Department)
	}
	if rec.StudentID != "CS2024" {
		t.Errorf("got studentId %q", rec.StudentID)
	}
	if !rec.IsActive {
		t.Error("IsActive should default to true")
	}
}

func TestValidateUserRowSniffsRole(t *testing.T) {
	row := Row{
		"name":       "Jane Doe",
		"email":      "jane@university.edu",
		"password":   "secret1",
		"studentId":  "CS2024",
		"department": "CSE",
	}

	rec, reason := ValidateUserRow(row, []string{"student", "faculty", "admin"}, models.Departments)
	if reason != "" {
		t.Fatalf("unexpected rejection: %s", reason)
	}
	if rec.Role != models.RoleStudent {
		t.Errorf("got role %q, want student", rec.Role)
	}
}

func TestValidateUserRowRejections(t *testing.T) {
	if _, reason := ValidateUserRow(Row{}, []string{"student"}, models.Departments); reason != "Empty row" {
		t.Errorf("got %q, want Empty row", reason)
	}

	row := Row{
		"name":       "Jane",
		"email":      "jane@university.edu",
		"password":   "secret1",
		"role":       "student",
		"department": "UNDERWATER",
	}
	if _, reason := ValidateUserRow(row, []string{"student"}, models.Departments); !strings.Contains(reason, "Invalid department") {
		t.Errorf("got %q, want invalid department rejection", reason)
	}

	row["department"] = "CSE"
	row["role"] = "dean"
	if _, reason := ValidateUserRow(row, []string{"student"}, models.Departments); !strings.Contains(reason, "Invalid role") {
		t.Errorf("got %q, want invalid role rejection", reason)
	}
}

func TestValidateUserRowNonStudentDropsStudentID(t *testing.T) {
	row := Row{
		"name":       "Prof X",
		"email":      "x@university.edu",
		"password":   "secret1",
		"role":       "faculty",
		"studentId":  "SHOULD-NOT-KEEP",
		"department": "CSE",
	}

	rec, reason := ValidateUserRow(row, []string{"student", "faculty"}, models.Departments)
	if reason != "" {
		t.Fatalf("unexpected rejection: %s", reason)
	}
	if rec.StudentID != "" {
		t.Errorf("faculty rows must not carry a student ID, got %q", rec.StudentID)
	}
}
