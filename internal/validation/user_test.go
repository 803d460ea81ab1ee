package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid name", input: "Alice"},
		{name: "single character", input: "A"},
		{name: "exactly max length", input: strings.Repeat("a", MaxNameLen)},
		{name: "empty name", input: "", wantErr: true},
		{name: "too long", input: strings.Repeat("a", MaxNameLen+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAge(t *testing.T) {
	tests := []struct {
		name    string
		age     int
		wantErr bool
	}{
		{name: "lower bound", age: MinAge},
		{name: "upper bound", age: MaxAge},
		{name: "middle", age: 30},
		{name: "below lower bound", age: MinAge - 1, wantErr: true},
		{name: "above upper bound", age: MaxAge + 1, wantErr: true},
		{name: "zero", age: 0, wantErr: true},
		{name: "negative", age: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAge(tt.age)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "alice@example.com"},
		{name: "subdomain", email: "bob@mail.example.co.uk"},
		{name: "plus addressing", email: "carol+tag@example.com"},
		{name: "empty", email: "", wantErr: true},
		{name: "missing at", email: "alice.example.com", wantErr: true},
		{name: "missing domain dot", email: "alice@example", wantErr: true},
		{name: "whitespace", email: "alice @example.com", wantErr: true},
		{name: "two ats", email: "alice@@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "correct-horse"},
		{name: "exactly min length", password: strings.Repeat("x", MinPasswordLen)},
		{name: "empty", password: "", wantErr: true},
		{name: "too short", password: "short", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
