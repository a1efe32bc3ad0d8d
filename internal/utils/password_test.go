package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
    hash, err := HashPassword("s3cret", 4)
    require.NoError(t, err)
    assert.NotEqual(t, "s3cret", hash)
    assert.True(t, VerifyPassword(hash, "s3cret"))
    assert.False(t, VerifyPassword(hash, "S3cret"))
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
    assert.False(t, VerifyPassword("not-a-bcrypt-hash", "s3cret"))
}
