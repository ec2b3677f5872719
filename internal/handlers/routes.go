package handlers

import (
	"net/http"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/auth"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/config"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/storage"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth         *auth.AuthHandler
	Achievement  *AchievementHandler
	Notification *NotificationHandler
	Leaderboard  *LeaderboardHandler
	Analytics    *AnalyticsHandler
	Portfolio    *PortfolioHandler
	Search       *SearchHandler
	Admin        *AdminHandler
	Import       *ImportHandler
	Store        *storage.Store
}

func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(corsMiddleware(cfg.FrontendURL))
	}

	// Authentication is global; public paths are allow-listed inside the
	// middleware because the typed API registers its operations on the
	// root mux.
	r.Use(h.Auth.AuthMiddleware)

	apiConfig := huma.DefaultConfig("Student Achievement API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(r, apiConfig)

	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"bearerAuth": {}}}
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.Store.Dir()))))

	// Auth routes
	huma.Post(api, "/api/auth/register", h.Auth.HandleRegister)
	huma.Post(api, "/api/auth/login", h.Auth.HandleLogin)
	huma.Get(api, "/api/auth/me", h.Auth.HandleMe, secured)
	huma.Put(api, "/api/auth/profile", h.Auth.HandleUpdateProfile, secured)
	huma.Post(api, "/api/auth/reset-password", h.Auth.HandleResetPassword, secured)

	// Achievements
	huma.Get(api, "/api/achievements", h.Achievement.HandleList, secured)
	huma.Post(api, "/api/achievements", h.Achievement.HandleCreate, secured)
	huma.Get(api, "/api/achievements/user/{userId}", h.Achievement.HandleByUser, secured)
	huma.Get(api, "/api/achievements/{id}", h.Achievement.HandleGet, secured)
	huma.Put(api, "/api/achievements/{id}", h.Achievement.HandleUpdate, secured)
	huma.Delete(api, "/api/achievements/{id}", h.Achievement.HandleDelete, secured)
	huma.Put(api, "/api/achievements/{id}/validate", h.Achievement.HandleValidate, secured)

	// Notifications
	huma.Get(api, "/api/notifications", h.Notification.HandleList, secured)
	huma.Put(api, "/api/notifications/{id}/read", h.Notification.HandleMarkRead, secured)
	huma.Delete(api, "/api/notifications/{id}", h.Notification.HandleDelete, secured)

	// Leaderboard
	huma.Get(api, "/api/leaderboard/top", h.Leaderboard.HandleTopAchievers, secured)
	huma.Get(api, "/api/leaderboard/category/{category}", h.Leaderboard.HandleCategoryLeaders, secured)
	huma.Get(api, "/api/leaderboard/stats", h.Leaderboard.HandleStats, secured)

	// Analytics and portfolios
	huma.Get(api, "/api/analytics", h.Analytics.HandleAnalytics, secured)
	huma.Get(api, "/api/analytics/user/{userId}", h.Analytics.HandleUserAnalytics, secured)
	huma.Get(api, "/api/portfolio/{userId}", h.Portfolio.HandleGenerate, secured)

	// Search
	huma.Get(api, "/api/search/achievements", h.Search.HandleSearch, secured)
	huma.Get(api, "/api/search/suggestions", h.Search.HandleSuggestions, secured)
	huma.Get(api, "/api/search/filters", h.Search.HandleFilterOptions, secured)

	// Admin user management
	huma.Get(api, "/api/admin/dashboard", h.Admin.HandleDashboard, secured)
	huma.Get(api, "/api/admin/users", h.Admin.HandleListUsers, secured)
	huma.Post(api, "/api/admin/users", h.Admin.HandleCreateUser, secured)
	huma.Put(api, "/api/admin/users/{id}/role", h.Admin.HandleUpdateUser, secured)
	huma.Delete(api, "/api/admin/users/{id}", h.Admin.HandleDeleteUser, secured)

	// Bulk import
	huma.Post(api, "/api/import/manual", h.Import.HandleManualImport, secured)
	huma.Get(api, "/api/import/stats", h.Import.HandleImportStats, secured)

	// Multipart endpoints stay outside the typed API.
	r.Group(func(r chi.Router) {
		r.Post("/api/achievements/upload", h.Achievement.HandleUploadDocument)
		r.Get("/api/import/template", h.Import.HandleTemplate)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin, models.RoleFaculty))
			r.Post("/api/import/achievements", h.Import.HandleImportAchievements)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Post("/api/admin/users/import", h.Admin.HandleImportUsers)
		})
	})
}
