package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fortress/internal/models"
	"github.com/iudanet/fortress/internal/server/directory"
	"github.com/iudanet/fortress/internal/server/handlers"
)

// memStore is an in-memory storage.Store for tests.
type memStore struct {
	users []models.User
}

func (m *memStore) LoadAll(_ context.Context) ([]models.User, error) {
	return m.users, nil
}

func (m *memStore) SaveAll(_ context.Context, users []models.User) error {
	m.users = users
	return nil
}

// fakeHasher avoids argon2 cost in middleware tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "digest:" + password, nil }

func (fakeHasher) Verify(password, digest string) (bool, error) {
	return digest == "digest:"+password, nil
}

func testTokenConfig() handlers.TokenConfig {
	return handlers.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func newTestDirectory(t *testing.T, users ...models.User) *directory.Directory {
	t.Helper()
	dir, err := directory.New(context.Background(),
		&memStore{users: users}, fakeHasher{}, slog.Default())
	require.NoError(t, err)
	return dir
}

func TestAuthMiddleware(t *testing.T) {
	alice := models.User{
		ID: 1, Name: "Alice", Age: 30, Gender: models.GenderFemale,
		Email: "alice@example.com", PasswordHash: "digest:secret123",
		Role: models.RolePrincipal,
	}
	dir := newTestDirectory(t, alice)
	tokens := testTokenConfig()

	var gotInfo handlers.AuthInfo
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := handlers.GetAuthInfo(r.Context())
		require.True(t, ok)
		gotInfo = info
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(slog.Default(), tokens, dir)(next)

	accessToken, err := handlers.GenerateAccessToken(tokens, alice)
	require.NoError(t, err)
	refreshToken, err := handlers.GenerateRefreshToken(tokens, alice)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid access token",
			authHeader: "Bearer " + accessToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token rejected on access endpoint",
			authHeader: "Bearer " + refreshToken,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}

	assert.Equal(t, 1, gotInfo.UserID)
	assert.Equal(t, models.RolePrincipal, gotInfo.Role)
	assert.Equal(t, "alice@example.com", gotInfo.User.Email)
}

func TestAuthMiddlewareDeletedSubject(t *testing.T) {
	ghost := models.User{
		ID: 42, Name: "Ghost", Age: 40, Gender: models.GenderMale,
		Email: "ghost@example.com", PasswordHash: "digest:whatever",
		Role: models.RoleUser,
	}
	// Directory seeded without the token's subject
	dir := newTestDirectory(t)
	tokens := testTokenConfig()

	token, err := handlers.GenerateAccessToken(tokens, ghost)
	require.NoError(t, err)

	handler := Auth(slog.Default(), tokens, dir)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		role       models.Role
		allowed    []models.Role
		wantStatus int
	}{
		{
			name:       "principal on principal-only route",
			role:       models.RolePrincipal,
			allowed:    []models.Role{models.RolePrincipal},
			wantStatus: http.StatusOK,
		},
		{
			name:       "worker on update route",
			role:       models.RoleWorker,
			allowed:    []models.Role{models.RolePrincipal, models.RoleWorker},
			wantStatus: http.StatusOK,
		},
		{
			name:       "user on update route",
			role:       models.RoleUser,
			allowed:    []models.Role{models.RolePrincipal, models.RoleWorker},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "worker on principal-only route",
			role:       models.RoleWorker,
			allowed:    []models.Role{models.RolePrincipal},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRoles(slog.Default(), tt.allowed...)(next)

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			ctx := handlers.WithAuthInfo(req.Context(), handlers.AuthInfo{
				UserID: 1,
				Role:   tt.role,
			})
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "access denied")
			}
		})
	}
}

func TestRequireRolesWithoutAuth(t *testing.T) {
	handler := RequireRoles(slog.Default(), models.RolePrincipal)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
