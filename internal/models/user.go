package models

import "fmt"

// Role is the authorization tier of a user account.
type Role string

const (
	// RolePrincipal is the single highest-privilege role. The principal
	// account can never be deleted and its role can never be changed.
	RolePrincipal Role = "principal"
	// RoleWorker can read and modify other users, but cannot create or
	// delete accounts and cannot manage roles.
	RoleWorker Role = "worker"
	// RoleUser is read-only, plus a self-service email change.
	RoleUser Role = "user"
)

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePrincipal, RoleWorker, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePrincipal || r == RoleWorker || r == RoleUser
}

// Gender of a user account.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender converts a string into a Gender.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), nil
	}
	return "", fmt.Errorf("invalid gender %q", s)
}

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// User represents a user account in the directory.
//
// IDs are assigned sequentially (max existing + 1) and never reused after
// deletion. PasswordHash holds the Argon2id digest of the password; the
// plaintext is never stored and the digest is never serialized to JSON.
type User struct {
	ID           int    `json:"user_id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Gender       Gender `json:"gender"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}
