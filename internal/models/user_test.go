package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "principal", input: "principal", want: RolePrincipal},
		{name: "worker", input: "worker", want: RoleWorker},
		{name: "user", input: "user", want: RoleUser},
		{name: "unknown role", input: "admin", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "wrong case", input: "Principal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Gender
		wantErr bool
	}{
		{name: "male", input: "male", want: GenderMale},
		{name: "female", input: "female", want: GenderFemale},
		{name: "unknown gender", input: "other", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGender(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestUser_PasswordHashNeverMarshaled(t *testing.T) {
	u := User{
		ID:           1,
		Name:         "Alice",
		Age:          30,
		Gender:       GenderFemale,
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Role:         RolePrincipal,
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "argon2id")
	assert.NotContains(t, string(data), "password")
	assert.Contains(t, string(data), `"user_id":1`)
}
