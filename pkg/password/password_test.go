package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, "pw1", hash)
	assert.True(t, Verify("pw1", hash))
	assert.False(t, Verify("pw2", hash))
	assert.False(t, Verify("pw1", "not-a-hash"))
	assert.False(t, NeedsRehash(hash))

	_, err = Hash("")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNeedsRehash(t *testing.T) {
	weak, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, NeedsRehash(string(weak)))
	assert.True(t, NeedsRehash("garbage"))
}
