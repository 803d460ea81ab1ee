// Package directory owns the in-memory user record set.
//
// It enforces the record invariants (at most one principal, unique emails,
// sequential never-renumbered ids), applies the field-level mutation policy
// from the authz package, and orchestrates whole-snapshot persistence
// through a storage.Store.
//
// Persistence ordering is write-then-commit: the snapshot containing the
// mutation is saved first and the in-memory set is swapped only after the
// save succeeds, so a persistence failure never leaves memory and disk
// disagreeing.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/iudanet/fortress/internal/models"
	"github.com/iudanet/fortress/internal/server/authz"
	"github.com/iudanet/fortress/internal/server/storage"
)

// Hasher computes and verifies one-way password digests.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

// Directory is the owned, encapsulated aggregate holding all user records.
// A single RWMutex serializes mutations; password hashing always happens
// outside the critical section so it cannot stall readers.
type Directory struct {
	logger *slog.Logger
	store  storage.Store
	hasher Hasher

	mu    sync.RWMutex
	users []models.User
}

// CreateInput is the validated input for Create. Password is plaintext and
// is hashed before the record is stored.
type CreateInput struct {
	Name     string
	Age      int
	Gender   models.Gender
	Email    string
	Password string
	Role     models.Role
}

// Update carries the optional fields of a replace/patch request. A nil
// field is absent and left untouched. Password is plaintext and is
// re-hashed before storage.
type Update struct {
	Name     *string
	Age      *int
	Gender   *models.Gender
	Email    *string
	Password *string
	Role     *models.Role
}

// New loads the record set from store and validates the single-principal
// invariant. More than one principal in the stored set is fatal: the
// constructor fails and the process must not start serving traffic.
func New(ctx context.Context, store storage.Store, hasher Hasher, logger *slog.Logger) (*Directory, error) {
	users, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user records: %w", err)
	}

	principals := 0
	for _, u := range users {
		if u.Role == models.RolePrincipal {
			principals++
		}
	}
	if principals > 1 {
		return nil, fmt.Errorf("%d principal records found: %w", principals, ErrPrincipalExists)
	}

	logger.Info("user directory loaded", "users", len(users), "principal_present", principals == 1)

	return &Directory{
		logger: logger,
		store:  store,
		hasher: hasher,
		users:  users,
	}, nil
}

// List returns up to length records starting at the 1-based offset
// (offset=1 means the first record). A nil offset starts at the beginning,
// a nil length runs to the end. Out-of-range bounds are clamped: offsets
// below 1 start at the beginning, offsets past the end and non-positive
// lengths return nothing.
func (d *Directory) List(length, offset *int) []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	start := 0
	if offset != nil {
		start = *offset - 1
		if start < 0 {
			start = 0
		}
	}
	if start >= len(d.users) {
		return []models.User{}
	}

	end := len(d.users)
	if length != nil {
		if *length <= 0 {
			return []models.User{}
		}
		if start+*length < end {
			end = start + *length
		}
	}

	return slices.Clone(d.users[start:end])
}

// GetByID returns the record with the given id.
func (d *Directory) GetByID(id int) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// Count returns the number of records.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// Create adds a new record. The new id is one plus the current maximum id
// (1 for an empty set). Fails if the input would create a second principal
// or reuse an existing email.
func (d *Directory) Create(ctx context.Context, in CreateInput) (models.User, error) {
	// Hash before taking the lock, hashing is CPU-bound and long-running
	digest, err := d.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if in.Role == models.RolePrincipal && d.principalIndex() >= 0 {
		return models.User{}, ErrPrincipalExists
	}
	if d.emailIndex(in.Email) >= 0 {
		return models.User{}, ErrUserAlreadyExists
	}

	maxID := 0
	for _, u := range d.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	user := models.User{
		ID:           maxID + 1,
		Name:         in.Name,
		Age:          in.Age,
		Gender:       in.Gender,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         in.Role,
	}

	next := append(slices.Clone(d.users), user)
	if err := d.store.SaveAll(ctx, next); err != nil {
		return models.User{}, fmt.Errorf("failed to persist user records: %w", err)
	}
	d.users = next

	d.logger.Info("user created", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// Replace applies a full update (PUT): every present field is applied
// under the field-level policy.
func (d *Directory) Replace(ctx context.Context, id int, upd Update, callerRole models.Role, callerID int) (models.User, error) {
	return d.update(ctx, id, upd, callerRole, callerID, false)
}

// Patch applies a partial update (PATCH). Behavior is identical to Replace
// except that the principal role protection is additionally checked before
// the per-field pass; the externally observable outcome is the same.
func (d *Directory) Patch(ctx context.Context, id int, upd Update, callerRole models.Role, callerID int) (models.User, error) {
	return d.update(ctx, id, upd, callerRole, callerID, true)
}

// update is the shared mutation protocol behind Replace and Patch.
func (d *Directory) update(ctx context.Context, id int, upd Update, callerRole models.Role, callerID int, preflightRoleCheck bool) (models.User, error) {
	// Hash outside the critical section, same as Create
	var digest string
	if upd.Password != nil {
		var err error
		digest, err = d.hasher.Hash(*upd.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	idx := slices.IndexFunc(d.users, func(u models.User) bool { return u.ID == id })
	if idx < 0 {
		return models.User{}, ErrUserNotFound
	}
	target := d.users[idx]

	if preflightRoleCheck && target.Role == models.RolePrincipal &&
		upd.Role != nil && *upd.Role != models.RolePrincipal {
		return models.User{}, authz.ErrPrincipalProtected
	}

	// Email conflicts are reported before any permission denial
	if upd.Email != nil && !strings.EqualFold(*upd.Email, target.Email) {
		if d.emailIndex(*upd.Email) >= 0 {
			return models.User{}, ErrEmailTaken
		}
	}

	// Explicit per-field dispatch over the fixed field set, applying the
	// policy table field by field.
	if upd.Name != nil {
		target.Name = *upd.Name
	}
	if upd.Age != nil {
		target.Age = *upd.Age
	}
	if upd.Gender != nil {
		target.Gender = *upd.Gender
	}
	if upd.Email != nil {
		if err := authz.CanChangeEmail(callerRole, callerID, id); err != nil {
			return models.User{}, err
		}
		target.Email = *upd.Email
	}
	if upd.Password != nil {
		target.PasswordHash = digest
	}
	if upd.Role != nil {
		if err := authz.CanChangeRole(callerRole, d.users[idx]); err != nil {
			return models.User{}, err
		}
		// The target is not the principal here (CanChangeRole guarantees
		// it), so any existing principal is a different record.
		if *upd.Role == models.RolePrincipal && d.principalIndex() >= 0 {
			return models.User{}, ErrPrincipalExists
		}
		target.Role = *upd.Role
	}

	next := slices.Clone(d.users)
	next[idx] = target
	if err := d.store.SaveAll(ctx, next); err != nil {
		return models.User{}, fmt.Errorf("failed to persist user records: %w", err)
	}
	d.users = next

	d.logger.Info("user updated", "user_id", id)
	return target, nil
}

// Delete removes the record with the given id. The principal record can
// never be deleted.
func (d *Directory) Delete(ctx context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := slices.IndexFunc(d.users, func(u models.User) bool { return u.ID == id })
	if idx < 0 {
		return ErrUserNotFound
	}
	if err := authz.CanDelete(d.users[idx]); err != nil {
		return err
	}

	next := slices.Delete(slices.Clone(d.users), idx, idx+1)
	if err := d.store.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("failed to persist user records: %w", err)
	}
	d.users = next

	d.logger.Info("user deleted", "user_id", id)
	return nil
}

// Authenticate looks a user up by email (case-insensitive) and verifies
// the password against the stored digest. Bad credentials are reported as
// absence, never as an error: the caller translates a false result into an
// authentication failure.
func (d *Directory) Authenticate(email, password string) (models.User, bool) {
	d.mu.RLock()
	idx := d.emailIndex(email)
	var user models.User
	if idx >= 0 {
		user = d.users[idx]
	}
	d.mu.RUnlock()

	if idx < 0 {
		return models.User{}, false
	}

	// Verification runs outside the lock, it is as slow as hashing
	ok, err := d.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		d.logger.Warn("stored password digest is unusable", "user_id", user.ID, "error", err)
		return models.User{}, false
	}
	if !ok {
		return models.User{}, false
	}
	return user, true
}

// principalIndex returns the index of the principal record, or -1.
// Callers must hold d.mu.
func (d *Directory) principalIndex() int {
	return slices.IndexFunc(d.users, func(u models.User) bool {
		return u.Role == models.RolePrincipal
	})
}

// emailIndex returns the index of the record with the given email
// (case-insensitive), or -1. Callers must hold d.mu.
func (d *Directory) emailIndex(email string) int {
	return slices.IndexFunc(d.users, func(u models.User) bool {
		return strings.EqualFold(u.Email, email)
	})
}
