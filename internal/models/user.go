package models

import (
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// Departments is the controlled vocabulary of institution codes.
var Departments = []string{"CSE", "IT", "AIML", "CSM", "CSO", "CIC", "EEE", "ECE", "CIVIL", "MECH", "CAI", "AI", "ML"}

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleFaculty || role == RoleAdmin
}

func ValidDepartment(department string) bool {
	for _, d := range Departments {
		if d == department {
			return true
		}
	}
	return false
}

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"default:student"`
	// StudentID is set only for role=student. Uniqueness is enforced at the
	// application layer because a unique index would collide on the empty
	// value shared by faculty and admin rows.
	StudentID  string `json:"studentId" gorm:"index"`
	Department string `json:"department"`
	IsActive   bool   `json:"isActive" gorm:"default:true"`
}
