package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "pw123456", digest)

	assert.True(t, Verify("pw123456", digest))
	assert.False(t, Verify("wrong-password", digest))
}

func TestHash_SaltsEachDigest(t *testing.T) {
	a, err := Hash("same-password")
	require.NoError(t, err)
	b, err := Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_MalformedDigest(t *testing.T) {
	assert.False(t, Verify("pw123456", ""))
	assert.False(t, Verify("pw123456", "not-a-bcrypt-digest"))
}
