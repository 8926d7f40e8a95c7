package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, CompareHash(hash, "correct-horse"))
	assert.Error(t, CompareHash(hash, "wrong-password"))
}

func TestGetHash_DifferentForSameInput(t *testing.T) {
	first, err := GetHash("same-password")
	require.NoError(t, err)
	second, err := GetHash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
