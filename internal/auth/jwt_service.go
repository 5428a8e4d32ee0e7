package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// SessionTokenExpiry is the lifetime of a session token and of the cookie carrying it.
const SessionTokenExpiry = 7 * 24 * time.Hour

// Claims carries the authenticated identity and role.
type Claims struct {
	UserID    string `json:"uid"`
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
	Year      int    `json:"year"`
	IsAdmin   bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Identity returns the identity encoded in the claims.
func (c *Claims) Identity() (Identity, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return Identity{}, errors.New("invalid user id in token")
	}
	return Identity{
		ID:        id,
		Name:      c.Name,
		StudentID: c.StudentID,
		Year:      c.Year,
		IsAdmin:   c.IsAdmin,
	}, nil
}

// JWTService handles session token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// GenerateSessionToken signs a session token for the identity.
// The returned claims carry the token ID used for revocation.
func (s *JWTService) GenerateSessionToken(identity Identity) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		UserID:    identity.ID.String(),
		Name:      identity.Name,
		StudentID: identity.StudentID,
		Year:      identity.Year,
		IsAdmin:   identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        generateTokenID(),
			Subject:   identity.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New("token ID not found")
	}
	return claims, nil
}

func generateTokenID() string {
	return uuid.New().String()
}
