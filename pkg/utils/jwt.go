package utils

import (
	"errors"
	"time"

	"go-fitstaff/internal/access"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SubjectKey is the fiber Locals key of the authenticated *access.Subject
const SubjectKey = "subject"

// TokenKey is the fiber Locals key of the validated *SessionClaims
const TokenKey = "session_claims"

var jwtSecret = []byte("secret")

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// SessionClaims carries the subject snapshot of a login
type SessionClaims struct {
	StaffID    string   `json:"staff_id"`
	Role       string   `json:"role"`
	Position   string   `json:"position,omitempty"`
	Department string   `json:"department,omitempty"`
	Overrides  []string `json:"overrides,omitempty"`
	jwt.RegisteredClaims
}

// Subject rebuilds the access subject from the claims. Unknown role names
// yield a subject without role, which every permission check denies.
func (c *SessionClaims) Subject() *access.Subject {
	role, _ := access.ParseRole(c.Role)
	position, _ := access.ParsePosition(c.Position)

	overrides := make([]access.Permission, 0, len(c.Overrides))
	for _, o := range c.Overrides {
		overrides = append(overrides, access.Permission(o))
	}

	return &access.Subject{
		ID:         c.StaffID,
		Role:       role,
		Position:   position,
		Department: c.Department,
		Overrides:  overrides,
	}
}

// GenerateToken signs a session token for s valid for ttl
func GenerateToken(s *access.Subject, ttl time.Duration) (string, *SessionClaims, error) {
	if s == nil || s.ID == "" {
		return "", nil, errors.New("subject id required")
	}

	overrides := make([]string, 0, len(s.Overrides))
	for _, o := range s.Overrides {
		overrides = append(overrides, string(o))
	}

	now := time.Now()
	claims := &SessionClaims{
		StaffID:    s.ID,
		Role:       string(s.Role),
		Position:   string(s.Position),
		Department: s.Department,
		Overrides:  overrides,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}

// RemainingTTL is how long the token stays valid from now
func (c *SessionClaims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}
