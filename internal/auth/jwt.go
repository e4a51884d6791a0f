package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrNoSigningKey = errors.New("signing key is required")
)

// Claims are the bearer token claims understood by the API.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// TokenVerifier turns a raw bearer token into a Principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// JWTService signs and validates HS256 tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
}

var _ TokenVerifier = (*JWTService)(nil)

// NewJWTService constructs a JWTService. An empty issuer disables the issuer check.
func NewJWTService(signingKey, issuer string) (*JWTService, error) {
	if signingKey == "" {
		return nil, ErrNoSigningKey
	}
	return &JWTService{signingKey: []byte(signingKey), issuer: issuer}, nil
}

// Issue signs a token for subject carrying the given permissions.
func (s *JWTService) Issue(subject string, permissions []string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// Verify validates signature, expiry and issuer, and returns the principal.
func (s *JWTService) Verify(tokenString string) (*Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{Subject: claims.Subject, Permissions: claims.Permissions}, nil
}
