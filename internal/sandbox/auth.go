package sandbox

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursestore/storefront/internal/core/domain"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Auth implements registration, login and bearer token checks.
type Auth struct {
	store     *Store
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuth(store *Store, jwtSecret string, tokenTTL time.Duration) *Auth {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &Auth{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (a *Auth) Register(name, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	return a.store.CreateUser(name, email, string(hash))
}

// Login checks the password and issues an HS256 token whose subject is the
// user's email. Unknown emails and wrong passwords fail the same way.
func (a *Auth) Login(email, password string) (string, domain.User, error) {
	acc, err := a.store.accountByEmail(email)
	if err != nil {
		return "", domain.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)) != nil {
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := a.generateToken(acc.user.Email)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, acc.user, nil
}

// Authenticate resolves a bearer token to its user. The token must be valid
// and its subject must still exist.
func (a *Auth) Authenticate(token string) (domain.User, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(a.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return domain.User{}, ErrInvalidToken
	}

	email, err := claims.GetSubject()
	if err != nil || email == "" {
		return domain.User{}, ErrInvalidToken
	}
	acc, err := a.store.accountByEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	return acc.user, nil
}

func (a *Auth) generateToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(a.jwtSecret))
}
