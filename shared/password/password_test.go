package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inn/shared/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("correct-horse")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, password.Verify("correct-horse", hash))
	assert.ErrorIs(t, password.Verify("wrong-horse", hash), password.ErrInvalidPassword)
}

func TestHashRejectsShortPasswords(t *testing.T) {
	_, err := password.Hash("abc")
	assert.ErrorIs(t, err, password.ErrTooShort)

	_, err = password.Hash("")
	assert.ErrorIs(t, err, password.ErrTooShort)
}

func TestVerifyEmptyInputs(t *testing.T) {
	assert.ErrorIs(t, password.Verify("", "some-hash"), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("some-password", ""), password.ErrInvalidPassword)
}
