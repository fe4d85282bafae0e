package passgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/vaultkeeper/internal/model"
)

func TestGenerate(t *testing.T) {
	for _, length := range []int{MinLength, DefaultLength, 64} {
		value, err := Generate(length)
		require.NoError(t, err)
		assert.Len(t, value, length)
		for _, r := range value {
			assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected character %q", r)
		}
	}
}

func TestGenerate_RejectsShortLength(t *testing.T) {
	for _, length := range []int{-1, 0, 4, MinLength - 1} {
		_, err := Generate(length)
		assert.ErrorIs(t, err, model.ErrValidation, "length %d", length)
	}
}

func TestGenerate_CoversAlphabet(t *testing.T) {
	seen := make(map[rune]bool)
	for i := 0; i < 200; i++ {
		value, err := Generate(64)
		require.NoError(t, err)
		for _, r := range value {
			seen[r] = true
		}
	}
	assert.Len(t, seen, len(Alphabet))
}

func TestGenerate_Distinct(t *testing.T) {
	a, err := Generate(DefaultLength)
	require.NoError(t, err)
	b, err := Generate(DefaultLength)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
