package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
)

func okHandler(t *testing.T, gotUser **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			*gotUser = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	h, _ := setupAuthHandler(t)
	res := registerStudent(t, h, "jane@university.edu")

	var gotUser *models.User
	handler := h.AuthMiddleware(okHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/api/achievements", nil)
	req.Header.Set("Authorization", "Bearer "+res.Body.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if gotUser == nil || gotUser.ID != res.Body.User.ID {
		t.Error("authenticated user not stored in context")
	}
}

func TestAuthMiddlewareCookieToken(t *testing.T) {
	h, _ := setupAuthHandler(t)
	res := registerStudent(t, h, "jane@university.edu")

	var gotUser *models.User
	handler := h.AuthMiddleware(okHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/api/achievements", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: res.Body.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
}

func TestAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	h, _ := setupAuthHandler(t)

	handler := h.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a valid token")
	}))

	for _, token := range []string{"", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/api/achievements", nil)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: got status %d, want 401", token, rec.Code)
		}
	}
}

func TestAuthMiddlewareAllowsPublicPaths(t *testing.T) {
	h, _ := setupAuthHandler(t)

	reached := false
	handler := h.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/api/auth/login", "/api/auth/register", "/uploads/file-abc.pdf"} {
		reached = false
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if !reached {
			t.Errorf("public path %s was blocked", path)
		}
	}
}

func TestAuthMiddlewareRejectsDeactivatedUser(t *testing.T) {
	h, db := setupAuthHandler(t)
	res := registerStudent(t, h, "jane@university.edu")

	if err := db.Model(&models.User{}).Where("id = ?", res.Body.User.ID).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}

	handler := h.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("deactivated user reached the handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/achievements", nil)
	req.Header.Set("Authorization", "Bearer "+res.Body.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h, db := setupAuthHandler(t)
	res := registerStudent(t, h, "jane@university.edu")

	var user models.User
	if err := db.First(&user, res.Body.User.ID).Error; err != nil {
		t.Fatal(err)
	}

	guard := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/import", nil)
	req.Header.Set("Authorization", "Bearer "+res.Body.Token)
	rec := httptest.NewRecorder()
	h.AuthMiddleware(guard).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("student got status %d, want 403", rec.Code)
	}

	if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	h.AuthMiddleware(guard).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin got status %d, want 200", rec.Code)
	}
}
