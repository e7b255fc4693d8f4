package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("missing authorization header")
	ErrMalformed     = errors.New("invalid authorization header format")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrNotConfigured = errors.New("authentication not configured")
)

const tokenIssuer = "sanctuarysound-api"

// Identity is the authenticated operator behind a request.
type Identity struct {
	OperatorID string
	Email      string
	Name       string
	TeamID     string
}

// OperatorClaims are carried by HMAC tokens signed with the shared secret,
// used by the CLI, tests and deployments without an identity provider.
type OperatorClaims struct {
	OperatorID string `json:"operatorId"`
	Email      string `json:"email,omitempty"`
	TeamID     string `json:"teamId,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator resolves bearer tokens, trying the JWKS verifier first and
// the shared secret second. Either may be absent.
type Authenticator struct {
	verifier TokenVerifier
	secret   string
}

func NewAuthenticator(verifier TokenVerifier, secret string) *Authenticator {
	return &Authenticator{verifier: verifier, secret: secret}
}

func (a *Authenticator) Configured() bool {
	return a.verifier != nil || a.secret != ""
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformed
	}
	return strings.TrimSpace(parts[1]), nil
}

// Authenticate validates the Authorization header value.
func (a *Authenticator) Authenticate(header string) (Identity, error) {
	token, err := BearerToken(header)
	if err != nil {
		return Identity{}, err
	}
	if !a.Configured() {
		return Identity{}, ErrNotConfigured
	}

	if a.verifier != nil {
		claims, err := a.verifier.Validate(token)
		if err == nil {
			return claims.Identity(), nil
		}
		if a.secret == "" {
			return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	claims, err := ValidateOperatorToken(token, a.secret)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Identity{OperatorID: claims.OperatorID, Email: claims.Email, TeamID: claims.TeamID}, nil
}

// ValidateOperatorToken checks an HMAC-signed operator token.
func ValidateOperatorToken(tokenString, secret string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid || claims.OperatorID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// IssueOperatorToken signs an operator token with the shared secret. A zero
// ttl issues a token without expiry.
func IssueOperatorToken(secret, operatorID, email, teamID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNotConfigured
	}
	now := time.Now()
	claims := OperatorClaims{
		OperatorID: operatorID,
		Email:      email,
		TeamID:     teamID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
