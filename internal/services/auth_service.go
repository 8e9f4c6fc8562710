package services

import (
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"velora/internal/domain"
	"velora/internal/repos"
)

// AuthService authenticates the shared admin credential set and issues the
// short-lived token the admin surface rides on. There are no customer
// accounts anywhere in this system.
type AuthService struct {
	Admins *repos.AdminRepo
	Secret []byte
	TTL    time.Duration
}

func NewAuthService(admins *repos.AdminRepo, secret string) *AuthService {
	return &AuthService{Admins: admins, Secret: []byte(secret), TTL: 24 * time.Hour}
}

type adminClaims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// Login checks credentials and returns the admin plus a signed token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*domain.Admin, string, error) {
	invalid := domain.Errorf(domain.EINVALID, "invalid credentials")

	a, err := s.Admins.GetByEmail(email)
	if err == sql.ErrNoRows {
		return nil, "", invalid
	}
	if err != nil {
		return nil, "", err
	}
	if !a.IsActive {
		return nil, "", invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return nil, "", invalid
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		AdminID: a.ID,
		Email:   a.Email,
		Name:    a.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return nil, "", err
	}

	_ = s.Admins.TouchLogin(a.ID)
	a.LastLogin = now.UTC().Format(time.RFC3339)
	return a, signed, nil
}

// Verify parses a token and re-checks the admin still exists and is active.
func (s *AuthService) Verify(tokenStr string) (*domain.Admin, error) {
	invalid := domain.Errorf(domain.EINVALID, "invalid token")

	var claims adminClaims
	tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, invalid
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, invalid
	}

	a, err := s.Admins.GetByID(claims.AdminID)
	if err == sql.ErrNoRows {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, invalid
	}
	return a, nil
}
