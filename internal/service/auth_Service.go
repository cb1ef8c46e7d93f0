package service

import (
	"fmt"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// ============================================
// Auth Service
// ============================================

// AuthService verifies the bearer tokens issued by the identity provider.
// IssueToken exists for development seeding and tests.
type AuthService interface {
	UserIDFromToken(token string) (string, error)
	IssueToken(userID string, ttl time.Duration) (string, error)
}

// boardClaims is the token body: the subject is the user id.
type boardClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	secret []byte
	expiry time.Duration
	parser *jwt.Parser
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{
		secret: []byte(cfg.JWTSecret),
		expiry: time.Duration(cfg.JWTExpiry) * time.Hour,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (s *authService) UserIDFromToken(tokenString string) (string, error) {
	claims := &boardClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// IssueToken signs a token for userID. A non-positive ttl uses the
// configured expiry.
func (s *authService) IssueToken(userID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.expiry
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := boardClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
