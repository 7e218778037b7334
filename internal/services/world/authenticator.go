package world

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/pocketworld/internal/model"
)

// Directory is the Account Directory as seen by the world core: it resolves
// identity tokens and answers whether an account is still active. The core
// never mints tokens or touches credentials.
type Directory interface {
	ResolveToken(token string) (model.Identity, error)
	IsActive(ctx context.Context, id model.PlayerID) (bool, error)
}

// Authenticator validates an inbound connection's identity token before it
// is admitted anywhere near the registry. All failures are expressed in the
// auth-phase error taxonomy; raw directory errors never escape.
type Authenticator struct {
	directory Directory
	timeout   time.Duration
	logger    *slog.Logger
}

const defaultDirectoryTimeout = 5 * time.Second

// NewAuthenticator creates an Authenticator. timeout bounds the directory
// liveness check; zero selects the default.
func NewAuthenticator(directory Directory, timeout time.Duration, logger *slog.Logger) *Authenticator {
	if timeout == 0 {
		timeout = defaultDirectoryTimeout
	}
	return &Authenticator{
		directory: directory,
		timeout:   timeout,
		logger:    logger.With(slog.String("component", "authenticator")),
	}
}

// Authenticate resolves a token to an identity and cross-checks the account
// against the directory. The cross-check guards against stale tokens
// surviving account deactivation. A directory timeout counts as an invalid
// credential.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, model.ErrMissingCredential
	}

	identity, err := a.directory.ResolveToken(token)
	if err != nil {
		return model.Identity{}, err
	}

	checkCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	active, err := a.directory.IsActive(checkCtx, identity.PlayerID)
	if err != nil {
		a.logger.Warn("directory liveness check failed",
			slog.String("player_id", string(identity.PlayerID)),
			slog.Any("error", err))
		// Timeouts and transport failures alike: the credential could not
		// be verified, so it is treated as invalid
		return model.Identity{}, model.ErrInvalidCredential
	}
	if !active {
		return model.Identity{}, model.ErrUnknownOrInactiveAccount
	}

	return identity, nil
}

// CloseReason maps an auth-phase error onto the machine-readable reason sent
// in the transport close frame, so a client can decide whether to retry with
// a fresh token or discard stored credentials.
func CloseReason(err error) string {
	switch {
	case errors.Is(err, model.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, model.ErrExpiredCredential):
		return "expired_credential"
	case errors.Is(err, model.ErrUnknownOrInactiveAccount):
		return "account_inactive"
	default:
		return "invalid_credential"
	}
}
