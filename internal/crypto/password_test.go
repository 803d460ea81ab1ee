package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher()

	encoded, err := h.Hash("correct-horse-battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := h.Verify("correct-horse-battery", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_Hash_EmptyPassword(t *testing.T) {
	h := NewPasswordHasher()

	_, err := h.Hash("")
	assert.Error(t, err)
}

func TestPasswordHasher_Hash_UniqueSalts(t *testing.T) {
	h := NewPasswordHasher()

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	// Fresh salt per digest, so two hashes of the same password differ
	assert.NotEqual(t, first, second)

	for _, encoded := range []string{first, second} {
		ok, err := h.Verify("same-password", encoded)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestPasswordHasher_Verify_MalformedDigest(t *testing.T) {
	h := NewPasswordHasher()

	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{name: "empty", encoded: "", wantErr: ErrInvalidHash},
		{name: "not argon2", encoded: "$2a$10$abcdefghijklmnopqrstuv", wantErr: ErrInvalidHash},
		{name: "missing sections", encoded: "$argon2id$v=19$m=65536,t=1,p=4", wantErr: ErrInvalidHash},
		{name: "bad version", encoded: "$argon2id$v=16$m=65536,t=1,p=4$c2FsdHNhbHQ$aGFzaGhhc2g", wantErr: ErrIncompatibleVersion},
		{name: "bad salt encoding", encoded: "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaGhhc2g", wantErr: ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Verify("whatever", tt.encoded)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPasswordHasher_Verify_DigestParametersRespected(t *testing.T) {
	// Digest created with a weaker parameter set must still verify:
	// parameters are read back from the encoded form.
	weak := &PasswordHasher{time: 1, memory: 8 * 1024, threads: 1, keyLen: 16}
	encoded, err := weak.Hash("portable-digest")
	require.NoError(t, err)

	h := NewPasswordHasher()
	ok, err := h.Verify("portable-digest", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}
