package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPasswordArgon2RoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	assert.NoError(t, err)
	assert.NotEmpty(t, salt)

	encoded, err := HashPasswordArgon2("correct horse battery staple", salt)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "argon2id$"), "got %q", encoded)

	assert.True(t, VerifyPassword("correct horse battery staple", encoded))
	assert.False(t, VerifyPassword("wrong password", encoded))
}

func TestHashPasswordArgon2DistinctSalts(t *testing.T) {
	saltA, err := GenerateSalt()
	assert.NoError(t, err)
	saltB, err := GenerateSalt()
	assert.NoError(t, err)
	assert.NotEqual(t, saltA, saltB)

	hashA, err := HashPasswordArgon2("secret", saltA)
	assert.NoError(t, err)
	hashB, err := HashPasswordArgon2("secret", saltB)
	assert.NoError(t, err)
	assert.NotEqual(t, hashA, hashB, "the same password must hash differently under different salts")
}

func TestVerifyPasswordRejectsMalformedEncoding(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"argon2id$v=19$m=65536,t=1,p=4$not-base64$also-not",
	} {
		assert.False(t, VerifyPassword("secret", encoded), "encoded=%q", encoded)
	}
}
