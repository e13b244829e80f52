package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, string(hash), "$argon2id$")
	assert.NotContains(t, string(hash), "correct horse battery staple")

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("secret-password")
	require.NoError(t, err)
	second, err := HashPassword("secret-password")
	require.NoError(t, err)

	// Random salt means two hashes of the same password never collide.
	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordParsesEncodedForm(t *testing.T) {
	// The stored form is dollar-delimited; verification must survive a
	// round trip through the exact bytes HashPassword persists.
	hash, err := HashPasswordWithParams("round-trip", Argon2Params{
		Time:    1,
		Memory:  16 * 1024,
		Threads: 1,
		KeyLen:  32,
		SaltLen: 16,
	})
	require.NoError(t, err)

	ok, err := VerifyPassword("round-trip", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "not a hash", hash: "not-a-hash"},
		{name: "missing segments", hash: "$argon2id$v=19$t=3,m=65536,p=2$only-one-tail"},
		{name: "wrong algorithm", hash: "$scrypt$v=19$t=3,m=65536,p=2$c2FsdA==$aGFzaA=="},
		{name: "wrong version", hash: "$argon2id$v=18$t=3,m=65536,p=2$c2FsdA==$aGFzaA=="},
		{name: "bad params", hash: "$argon2id$v=19$t=x,m=y,p=z$c2FsdA==$aGFzaA=="},
		{name: "bad salt encoding", hash: "$argon2id$v=19$t=3,m=65536,p=2$!!!$aGFzaA=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyPassword("whatever", []byte(tt.hash))
			assert.Error(t, err)
		})
	}
}
