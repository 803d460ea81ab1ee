// Package authz decides whether a caller may perform an operation.
//
// Two kinds of decisions are made here: endpoint-level role checks
// (CheckRole) and the field-level mutation policy applied by the user
// directory during updates (CanChangeRole, CanChangeEmail). Every other
// field may always be changed by anyone who reached the update path.
package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/fortress/internal/models"
)

var (
	// ErrPrincipalProtected indicates an attempt to delete the principal
	// or change the principal's role
	ErrPrincipalProtected = errors.New("principal user cannot be deleted or have their role changed")

	// ErrRoleChangeForbidden indicates a non-principal caller tried to
	// change a user's role
	ErrRoleChangeForbidden = errors.New("only principals can change user roles")

	// ErrEmailChangeForbidden indicates a non-principal caller tried to
	// change another user's email
	ErrEmailChangeForbidden = errors.New("only principals can change other users' emails")
)

// RoleError is returned when a caller's role is not in the allowed set.
// The message lists the allowed roles.
type RoleError struct {
	Allowed []models.Role
}

func (e *RoleError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, r := range e.Allowed {
		names[i] = string(r)
	}
	return fmt.Sprintf("access denied, required roles: %s", strings.Join(names, ", "))
}

// CheckRole allows the request if role is in the allowed set, otherwise it
// returns a *RoleError naming the allowed roles.
func CheckRole(role models.Role, allowed ...models.Role) error {
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return &RoleError{Allowed: allowed}
}

// CanChangeRole decides whether callerRole may change the role of target.
//
// The principal's role is immutable for every caller; that check comes
// first so a principal touching their own role still gets
// ErrPrincipalProtected. Otherwise only a principal may assign roles.
func CanChangeRole(callerRole models.Role, target models.User) error {
	if target.Role == models.RolePrincipal {
		return ErrPrincipalProtected
	}
	if callerRole != models.RolePrincipal {
		return ErrRoleChangeForbidden
	}
	return nil
}

// CanChangeEmail decides whether the caller may change the email of the
// user with targetID. Principals may change any email; everyone else only
// their own.
func CanChangeEmail(callerRole models.Role, callerID, targetID int) error {
	if callerRole == models.RolePrincipal || callerID == targetID {
		return nil
	}
	return ErrEmailChangeForbidden
}

// CanDelete decides whether the user may be deleted at all. The principal
// record is protected regardless of caller.
func CanDelete(target models.User) error {
	if target.Role == models.RolePrincipal {
		return ErrPrincipalProtected
	}
	return nil
}
