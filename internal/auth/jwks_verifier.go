package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sanctuarysound/api/internal/config"
)

// Signing algorithms accepted from the identity provider.
var providerMethods = []string{"RS256", "RS384", "RS512", "ES256", "ES384", "PS256"}

// TokenVerifier checks an identity-provider token.
type TokenVerifier interface {
	Validate(tokenString string) (*Claims, error)
	Close() error
}

// Claims are the OIDC claims issued by Zitadel for a sound-team operator.
// The resource owner is the church or venue the operator mixes for.
type Claims struct {
	OperatorID        string `json:"sub"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	TeamID            string `json:"urn:zitadel:iam:user:resourceowner:id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	name := c.Name
	if name == "" {
		name = c.PreferredUsername
	}
	return Identity{OperatorID: c.OperatorID, Email: c.Email, Name: name, TeamID: c.TeamID}
}

// JWKSVerifier validates operator tokens against the provider's published
// signing keys.
type JWKSVerifier struct {
	parser  *jwt.Parser
	keyFunc jwt.Keyfunc
}

// NewJWKSVerifier discovers the provider's JWKS endpoint from the issuer and
// starts refreshing its keys.
func NewJWKSVerifier(cfg *config.ZitadelConfig) (*JWKSVerifier, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("zitadel issuer is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	jwksURL, err := discoverJWKSURL(ctx, http.DefaultClient, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover JWKS URL: %w", err)
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS keyfunc: %w", err)
	}
	return newVerifier(jwks.Keyfunc, cfg.Issuer, cfg.ClientID), nil
}

// newVerifier builds a verifier around any key source. An empty audience
// skips the aud check.
func newVerifier(keyFunc jwt.Keyfunc, issuer, audience string) *JWKSVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(providerMethods),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWKSVerifier{parser: jwt.NewParser(opts...), keyFunc: keyFunc}
}

// discoverJWKSURL reads jwks_uri from the issuer's OIDC discovery document.
func discoverJWKSURL(ctx context.Context, client *http.Client, issuer string) (string, error) {
	discoveryURL := strings.TrimRight(issuer, "/") + "/.well-known/openid-configuration"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create discovery request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("discovery endpoint returned status %d", resp.StatusCode)
	}

	var doc struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("failed to decode discovery document: %w", err)
	}
	if doc.JWKSURI == "" {
		return "", errors.New("jwks_uri not found in discovery document")
	}
	return doc.JWKSURI, nil
}

// Validate parses tokenString and returns its claims. Tokens without a
// subject are rejected.
func (v *JWKSVerifier) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || claims.OperatorID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (v *JWKSVerifier) Close() error {
	return nil
}
