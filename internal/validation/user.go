package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// EmailPattern is a pragmatic email syntax check: one @, no whitespace,
// a dot in the domain part.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MaxNameLen maximum length of a user name
	MaxNameLen = 50
	// MinAge minimum allowed age
	MinAge = 6
	// MaxAge maximum allowed age
	MaxAge = 60
	// MinPasswordLen minimum length of a password
	MinPasswordLen = 8
)

// ValidateName checks that a user name is non-empty and at most MaxNameLen
// characters long.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}
	return nil
}

// ValidateAge checks that age is within [MinAge, MaxAge].
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return fmt.Errorf("age must be between %d and %d", MinAge, MaxAge)
	}
	return nil
}

// ValidateEmail checks that email has a plausible address syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}

// ValidatePassword checks minimal password requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}
