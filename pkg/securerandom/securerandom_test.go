package securerandom

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRandomBytes(t *testing.T) {
	b, err := GetRandomBytes(16)
	require.NoError(t, err)
	assert.Len(t, b, 16)

	empty, err := GetRandomBytes(0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = GetRandomBytes(-1)
	assert.Error(t, err)
}

func TestHexToken(t *testing.T) {
	token, err := HexToken(6)
	require.NoError(t, err)
	require.Len(t, token, 12)
	_, err = hex.DecodeString(token)
	assert.NoError(t, err)

	other, err := HexToken(6)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
