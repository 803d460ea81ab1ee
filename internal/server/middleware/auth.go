package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/fortress/internal/models"
	"github.com/iudanet/fortress/internal/server/authz"
	"github.com/iudanet/fortress/internal/server/directory"
	"github.com/iudanet/fortress/internal/server/handlers"
)

// Auth validates the bearer access token and resolves the full user
// record through the directory. Any validation failure, and a token whose
// subject no longer exists, is a 401. On success the request context
// carries an AuthInfo with the token's role claim and the resolved record.
func Auth(logger *slog.Logger, tokens handlers.TokenConfig, dir *directory.Directory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header", "path", r.URL.Path)
				unauthorized(w, "missing token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("malformed Authorization header", "path", r.URL.Path)
				unauthorized(w, "invalid token format")
				return
			}

			claims, err := handlers.ValidateToken(tokens.AccessSecret, parts[1])
			if err != nil {
				logger.Warn("invalid access token", "error", err)
				unauthorized(w, "invalid credentials")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				logger.Warn("invalid access token subject", "error", err)
				unauthorized(w, "invalid credentials")
				return
			}

			user, err := dir.GetByID(userID)
			if err != nil {
				logger.Warn("token subject no longer exists", "user_id", userID)
				unauthorized(w, "invalid credentials")
				return
			}

			info := handlers.AuthInfo{
				UserID: userID,
				Role:   claims.Role,
				User:   user,
			}
			next.ServeHTTP(w, r.WithContext(handlers.WithAuthInfo(r.Context(), info)))
		})
	}
}

// RequireRoles gates a handler on the caller's role claim. It must run
// inside Auth, which put the AuthInfo into the context.
func RequireRoles(logger *slog.Logger, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, ok := handlers.GetAuthInfo(r.Context())
			if !ok {
				unauthorized(w, "not authenticated")
				return
			}

			if err := authz.CheckRole(info.Role, allowed...); err != nil {
				logger.Warn("role denied", "role", string(info.Role), "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"Forbidden","detail":"` + err.Error() + `"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// unauthorized writes a 401 with the bearer challenge.
func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized","detail":"` + detail + `"}`))
}
