package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justaleaf/audiovault/util/crypto"
)

func newAuthService() (*AuthService, *UserService) {
	hasher := crypto.NewPasswordHasher()
	userService := NewUserService(hasher)
	return NewAuthService(userService, hasher, []byte("test-secret")), userService
}

func TestLogin(t *testing.T) {
	setup(t)
	authService, userService := newAuthService()

	_, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)

	token, err := authService.Login("alice", "pw1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err := authService.CurrentUser(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestLoginBadCredentials(t *testing.T) {
	setup(t)
	authService, userService := newAuthService()

	_, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)

	// wrong password and unknown username report the same failure
	_, err = authService.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = authService.Login("nobody", "pw1")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestCurrentUserExpiredToken(t *testing.T) {
	setup(t)
	authService, userService := newAuthService()

	_, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = authService.CurrentUser(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCurrentUserTamperedToken(t *testing.T) {
	setup(t)
	authService, userService := newAuthService()

	_, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)

	token, err := authService.Login("alice", "pw1")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "beef"
	_, err = authService.CurrentUser(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = authService.CurrentUser("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCurrentUserWrongSecret(t *testing.T) {
	setup(t)
	_, userService := newAuthService()

	_, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)

	hasher := crypto.NewPasswordHasher()
	other := NewAuthService(userService, hasher, []byte("other-secret"))
	token, err := other.GenerateToken("alice")
	require.NoError(t, err)

	authService := NewAuthService(userService, hasher, []byte("test-secret"))
	_, err = authService.CurrentUser(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
