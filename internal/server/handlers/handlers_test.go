package handlers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/fortress/internal/models"
	"github.com/iudanet/fortress/internal/server/directory"
)

// memStore is an in-memory storage.Store for handler tests.
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

// fakeHasher keeps tests fast; real argon2 hashing is covered in the
// crypto package.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "digest:" + password, nil }

func (fakeHasher) Verify(password, digest string) (bool, error) {
	return digest == "digest:"+password, nil
}

func testTokens() TokenConfig {
	return TokenConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func principalAlice() models.User {
	return models.User{
		ID: 1, Name: "Alice", Age: 30, Gender: models.GenderFemale,
		Email: "alice@example.com", PasswordHash: "digest:secret123",
		Role: models.RolePrincipal,
	}
}

func workerBob() models.User {
	return models.User{
		ID: 2, Name: "Bob", Age: 25, Gender: models.GenderMale,
		Email: "bob@example.com", PasswordHash: "digest:hunter2!",
		Role: models.RoleWorker,
	}
}

func plainCarol() models.User {
	return models.User{
		ID: 3, Name: "Carol", Age: 22, Gender: models.GenderFemale,
		Email: "carol@example.com", PasswordHash: "digest:passw0rd",
		Role: models.RoleUser,
	}
}

func newTestDirectory(t *testing.T, users ...models.User) *directory.Directory {
	t.Helper()
	dir, err := directory.New(context.Background(),
		&memStore{users: users}, fakeHasher{}, slog.Default())
	require.NoError(t, err)
	return dir
}

func asCaller(ctx context.Context, u models.User) context.Context {
	return WithAuthInfo(ctx, AuthInfo{UserID: u.ID, Role: u.Role, User: u})
}
