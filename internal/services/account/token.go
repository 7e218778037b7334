package account

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/mcoot/pocketworld/internal/dependencies/clock"
	"github.com/mcoot/pocketworld/internal/model"
)

// TokenConfig holds identity token settings
type TokenConfig struct {
	// Secret is the HMAC signing key. Required.
	Secret []byte
	// TTL is how long a minted token stays valid
	TTL time.Duration
}

// DefaultTokenConfig returns default token settings (secret must still be set)
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		TTL: 7 * 24 * time.Hour,
	}
}

// Claims is the identity token claim set
type Claims struct {
	jwt.RegisteredClaims
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// TokenIssuer mints and resolves signed identity tokens (JWT HS256).
// Only the Account Directory mints; everything else resolves.
type TokenIssuer struct {
	cfg   TokenConfig
	clock clock.Clock
}

// NewTokenIssuer creates a TokenIssuer
func NewTokenIssuer(cfg TokenConfig, clk clock.Clock) *TokenIssuer {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTokenConfig().TTL
	}
	return &TokenIssuer{cfg: cfg, clock: clk}
}

// Mint signs a token asserting the given identity
func (t *TokenIssuer) Mint(identity model.Identity) (string, error) {
	now := t.clock.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(identity.PlayerID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
		},
		DisplayName: identity.DisplayName,
		Role:        string(identity.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.Secret)
}

// Resolve validates signature and expiry and returns the asserted identity.
// Failures map onto the auth-phase error taxonomy; callers never see raw
// jwt errors.
//
// Time-based claims are checked against the injected clock, not the library
// default wall clock, so the parser's own claim validation is disabled.
func (t *TokenIssuer) Resolve(tokenStr string) (model.Identity, error) {
	if tokenStr == "" {
		return model.Identity{}, model.ErrMissingCredential
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKey
		}
		return t.cfg.Secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return model.Identity{}, model.ErrInvalidCredential
	}

	now := t.clock.Now()
	if !claims.VerifyExpiresAt(now, true) {
		return model.Identity{}, model.ErrExpiredCredential
	}
	if !claims.VerifyIssuedAt(now, false) {
		return model.Identity{}, model.ErrInvalidCredential
	}

	return model.Identity{
		PlayerID:    model.PlayerID(claims.Subject),
		DisplayName: claims.DisplayName,
		Role:        model.Role(claims.Role),
	}, nil
}
