package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/auth"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

// requireRoles pulls the authenticated user out of the request context and
// checks it against a role allow-list.
func requireRoles(ctx context.Context, roles ...string) (*models.User, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	for _, role := range roles {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, huma.Error403Forbidden("Access denied. Insufficient permissions.")
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
