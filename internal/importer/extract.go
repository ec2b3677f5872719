package importer

import (
	"strings"
)

// Field returns the first non-empty value found under a case variant of the
// logical field name: exact, Capitalized, ALL-CAPS, then lower-case. Returns
// "" when nothing matches; spreadsheet authors are not consistent about
// header casing, so lookups stay permissive.
func Field(row Row, name string) string {
	for _, key := range []string{name, capitalize(name), strings.ToUpper(name), strings.ToLower(name)} {
		if v, ok := row[key]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SniffRole infers a role when no role column matched. A row carrying a
// student ID is assumed to be a student; otherwise every cell is scanned for
// a role keyword. This is a heuristic, not a guarantee, and ambiguous rows
// may be misclassified.
func SniffRole(row Row) string {
	if Field(row, "studentId") != "" {
		return "student"
	}

	var all []string
	for _, v := range row {
		all = append(all, v)
	}
	joined := strings.ToLower(strings.Join(all, " "))
	switch {
	case strings.Contains(joined, "student"):
		return "student"
	case strings.Contains(joined, "faculty"):
		return "faculty"
	case strings.Contains(joined, "admin"):
		return "admin"
	}
	return ""
}
