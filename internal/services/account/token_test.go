package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/pocketworld/internal/dependencies/mocks"
	"github.com/mcoot/pocketworld/internal/model"
)

func testIdentity() model.Identity {
	return model.Identity{PlayerID: "p_1", DisplayName: "Alice", Role: model.RolePlayer}
}

func TestMintAndResolve(t *testing.T) {
	clk := mocks.NewMockClock(time.Now())
	issuer := NewTokenIssuer(TokenConfig{Secret: []byte("secret"), TTL: time.Hour}, clk)

	token, err := issuer.Mint(testIdentity())
	require.NoError(t, err)

	identity, err := issuer.Resolve(token)
	require.NoError(t, err)
	require.Equal(t, testIdentity(), identity)
}

func TestResolveHonorsInjectedClock(t *testing.T) {
	// A clock pinned far from wall time must not affect validity: the token
	// is judged against the issuer's clock, not the process clock
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer(TokenConfig{Secret: []byte("secret"), TTL: 7 * 24 * time.Hour}, clk)

	token, err := issuer.Mint(testIdentity())
	require.NoError(t, err)

	identity, err := issuer.Resolve(token)
	require.NoError(t, err)
	require.Equal(t, testIdentity(), identity)

	// Still valid just inside the TTL, expired just past it
	clk.Advance(7*24*time.Hour - time.Second)
	_, err = issuer.Resolve(token)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	_, err = issuer.Resolve(token)
	require.ErrorIs(t, err, model.ErrExpiredCredential)
}

func TestResolveMissingToken(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: []byte("secret")}, mocks.NewMockClock(time.Now()))

	_, err := issuer.Resolve("")
	require.ErrorIs(t, err, model.ErrMissingCredential)
}

func TestResolveExpiredToken(t *testing.T) {
	clk := mocks.NewMockClock(time.Now())
	issuer := NewTokenIssuer(TokenConfig{Secret: []byte("secret"), TTL: time.Hour}, clk)

	token, err := issuer.Mint(testIdentity())
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = issuer.Resolve(token)
	require.ErrorIs(t, err, model.ErrExpiredCredential)
}

func TestResolveGarbageToken(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: []byte("secret")}, mocks.NewMockClock(time.Now()))

	_, err := issuer.Resolve("not-a-jwt")
	require.ErrorIs(t, err, model.ErrInvalidCredential)
}

func TestResolveWrongSecret(t *testing.T) {
	clk := mocks.NewMockClock(time.Now())
	minter := NewTokenIssuer(TokenConfig{Secret: []byte("secret-a"), TTL: time.Hour}, clk)
	resolver := NewTokenIssuer(TokenConfig{Secret: []byte("secret-b"), TTL: time.Hour}, clk)

	token, err := minter.Mint(testIdentity())
	require.NoError(t, err)

	_, err = resolver.Resolve(token)
	require.ErrorIs(t, err, model.ErrInvalidCredential)
}
