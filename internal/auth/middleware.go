package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	UserKey   contextKey = "user"
)

// Routes served without a token. Everything else under the router requires
// authentication.
var publicPaths = map[string]bool{
	"/health":            true,
	"/api/auth/register": true,
	"/api/auth/login":    true,
}

var publicPrefixes = []string{"/uploads/", "/docs", "/openapi"}

func isPublic(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// UserFromContext returns the authenticated user stored by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}

// AuthMiddleware authenticates every non-public request. Tokens are read
// from the Authorization header first, then the auth_token cookie. The
// current user row is loaded per request so role changes and deactivation
// take effect immediately.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString := ""
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := r.Cookie("auth_token"); err == nil {
			tokenString = cookie.Value
		}
		if tokenString == "" {
			http.Error(w, "Unauthorized: No token found", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(h.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			http.Error(w, "Unauthorized: Invalid token claims", http.StatusUnauthorized)
			return
		}
		userID := uint(userIDFloat)

		var user models.User
		if err := h.db.First(&user, userID).Error; err != nil {
			http.Error(w, "Unauthorized: Unknown user", http.StatusUnauthorized)
			return
		}
		if !user.IsActive {
			http.Error(w, "Unauthorized: Account is deactivated", http.StatusUnauthorized)
			return
		}

		// Sliding session: refresh token if it's more than halfway through
		// its duration.
		if exp, ok := claims["exp"].(float64); ok {
			remaining := time.Until(time.Unix(int64(exp), 0))
			if remaining < TokenDuration/2 {
				if newToken, err := h.GenerateToken(userID); err == nil {
					http.SetCookie(w, &http.Cookie{
						Name:     "auth_token",
						Value:    newToken,
						Expires:  time.Now().Add(TokenDuration),
						HttpOnly: true,
						Path:     "/",
					})
				}
			}
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, UserKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole guards a chi subtree behind a role allow-list. It assumes
// AuthMiddleware already ran.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Access denied. Insufficient permissions.", http.StatusForbidden)
		})
	}
}
