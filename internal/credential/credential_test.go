package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/vaultkeeper/internal/model"
)

func TestHashers(t *testing.T) {
	bc, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		hasher model.PasswordHasher
		prefix string
	}{
		{name: "bcrypt", hasher: bc, prefix: "$2a$"},
		{name: "sha512-crypt", hasher: NewSHA512Crypt(), prefix: "$6$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := tt.hasher.Hash("correct horse")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, tt.prefix), hash)
			assert.NotContains(t, hash, "correct horse")

			assert.True(t, tt.hasher.Verify(hash, "correct horse"))
			assert.False(t, tt.hasher.Verify(hash, "wrong horse"))
			assert.False(t, tt.hasher.Verify("not a hash", "correct horse"))

			again, err := tt.hasher.Hash("correct horse")
			require.NoError(t, err)
			assert.NotEqual(t, hash, again, "hashes must be salted")
		})
	}
}

func TestNew(t *testing.T) {
	h, err := New(AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	assert.IsType(t, &Bcrypt{}, h)

	h, err = New("", 0)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, h.(*Bcrypt).cost)

	h, err = New(AlgorithmSHA512Crypt, 0)
	require.NoError(t, err)
	assert.IsType(t, &SHA512Crypt{}, h)

	_, err = New("md5", 0)
	assert.Error(t, err)

	_, err = New(AlgorithmBcrypt, 99)
	assert.Error(t, err)
}

func TestBcrypt_PasswordLength(t *testing.T) {
	bc, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	longest := strings.Repeat("a", MaxPasswordBytes)
	hash, err := bc.Hash(longest)
	require.NoError(t, err)
	assert.True(t, bc.Verify(hash, longest))

	_, err = bc.Hash(longest + "a")
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, "password must be at most 72 bytes", model.Describe(err).Message)

	// multi-byte runes count in bytes
	_, err = bc.Hash(strings.Repeat("é", 37))
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestSHA512Crypt_LongPassword(t *testing.T) {
	h := NewSHA512Crypt()
	long := strings.Repeat("a", 200)

	hash, err := h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Verify(hash, long))
}
