// Package service implements the business logic of the service: identity
// resolution, user accounts, and audio file management.
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/justaleaf/audiovault/database"
	"github.com/justaleaf/audiovault/database/model"
	"github.com/justaleaf/audiovault/util/crypto"
)

const tokenValidity = 10 * time.Minute

var (
	ErrBadCredentials = errors.New("incorrect username or password")
	ErrInvalidToken   = errors.New("could not validate credentials")
)

// Claims carries the subject (username) of an internally issued bearer token.
type Claims struct {
	jwt.RegisteredClaims
}

type AuthService struct {
	userService *UserService
	hasher      *crypto.PasswordHasher
	secret      []byte
}

func NewAuthService(userService *UserService, hasher *crypto.PasswordHasher, secret []byte) *AuthService {
	return &AuthService{
		userService: userService,
		hasher:      hasher,
		secret:      secret,
	}
}

// Login verifies a username/password pair and issues a bearer token. The
// same error is returned for an unknown username and a wrong password.
func (s *AuthService) Login(username string, password string) (string, error) {
	user := &model.User{}
	err := database.GetDB().Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return "", ErrBadCredentials
	} else if err != nil {
		return "", err
	}

	if !s.hasher.Check(user.HashedPassword, password) {
		return "", ErrBadCredentials
	}

	return s.GenerateToken(user.Username)
}

// GenerateToken signs a short-lived HS256 token whose subject is the username.
func (s *AuthService) GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// CurrentUser verifies a bearer token and loads the user it names.
func (s *AuthService) CurrentUser(tokenString string) (*model.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.userService.GetUserByUsername(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}
