package directory

import "errors"

// Domain errors surfaced by directory operations
var (
	// ErrUserNotFound indicates that no record has the requested id
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates an email collision on create
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrEmailTaken indicates an email collision on update
	ErrEmailTaken = errors.New("email does not match or already exists")

	// ErrPrincipalExists indicates that a second principal would be
	// created, or that more than one principal was found at load time
	ErrPrincipalExists = errors.New("a principal user already exists, the system can only have one principal")
)
