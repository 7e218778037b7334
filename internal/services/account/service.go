package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pocketworld/internal/dependencies/clock"
	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/storage"
)

// Validation errors
var (
	ErrInvalidUsername = errors.New("username must be 3-20 alphanumeric characters")
	ErrInvalidPassword = errors.New("password must be at least 8 characters")
	ErrInvalidEmail    = errors.New("email address is invalid")
)

// StarterGranter seeds a freshly registered account with its starting
// inventory. Grant failures must not fail the registration.
type StarterGranter interface {
	GrantStarter(ctx context.Context, playerID model.PlayerID) error
}

// Service is the Account Directory: it owns accounts, credentials, and
// identity token issuance. The world core only ever consumes the
// Directory-facing subset (ResolveToken / IsActive).
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	tokens  *TokenIssuer
	starter StarterGranter
	logger  *slog.Logger
}

// New creates a new account Service. starter may be nil.
func New(store storage.Storage, clk clock.Clock, tokens *TokenIssuer, starter StarterGranter, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		tokens:  tokens,
		starter: starter,
		logger:  logger.With(slog.String("component", "account")),
	}
}

// Register creates a new account, hashes its password, grants the starter
// inventory, and returns the account with a freshly minted identity token.
func (s *Service) Register(ctx context.Context, username, password, email string) (*model.Account, string, error) {
	if err := validateUsername(username); err != nil {
		return nil, "", err
	}
	if len(password) < 8 {
		return nil, "", ErrInvalidPassword
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, "", ErrInvalidEmail
	}

	if _, err := s.storage.GetAccountByUsername(ctx, username); err == nil {
		return nil, "", model.ErrUsernameExists
	} else if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, "", err
	}
	if email != "" {
		if _, err := s.storage.GetAccountByEmail(ctx, email); err == nil {
			return nil, "", model.ErrEmailExists
		} else if !errors.Is(err, model.ErrAccountNotFound) {
			return nil, "", err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := s.clock.Now()
	account := &model.Account{
		ID:          model.PlayerID("p_" + uuid.NewString()),
		Username:    username,
		DisplayName: username,
		Email:       email,
		Role:        model.RolePlayer,
		IsActive:    true,
		CreatedAt:   now,
		LastLogin:   now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, "", err
	}
	if err := s.storage.SaveCredentials(ctx, &model.Credentials{
		PlayerID:     account.ID,
		PasswordHash: string(hash),
		UpdatedAt:    now,
	}); err != nil {
		return nil, "", err
	}

	if s.starter != nil {
		if err := s.starter.GrantStarter(ctx, account.ID); err != nil {
			// The account is usable without the grant; don't fail registration
			s.logger.Warn("starter grant failed",
				slog.String("player_id", string(account.ID)),
				slog.Any("error", err))
		}
	}

	token, err := s.tokens.Mint(identityOf(account))
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Login verifies the password for a username and mints an identity token.
// Inactive accounts cannot log in.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Account, string, error) {
	account, err := s.storage.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, "", model.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !account.IsActive {
		return nil, "", model.ErrInvalidCredentials
	}

	creds, err := s.storage.GetCredentials(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.ErrInvalidCredentials
	}

	account.LastLogin = s.clock.Now()
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Mint(identityOf(account))
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// GetAccount returns the account for a player id
func (s *Service) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	return s.storage.GetAccount(ctx, id)
}

// ResolveToken validates a token's signature and expiry and extracts the
// identity claims. Part of the Directory interface consumed by the world core.
func (s *Service) ResolveToken(token string) (model.Identity, error) {
	return s.tokens.Resolve(token)
}

// IsActive reports whether the account exists and is active. Part of the
// Directory interface consumed by the world core; guards against stale
// tokens surviving account deactivation.
func (s *Service) IsActive(ctx context.Context, id model.PlayerID) (bool, error) {
	account, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.IsActive, nil
}

func identityOf(account *model.Account) model.Identity {
	return model.Identity{
		PlayerID:    account.ID,
		DisplayName: account.DisplayName,
		Role:        account.Role,
	}
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 20 {
		return ErrInvalidUsername
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return ErrInvalidUsername
		}
	}
	return nil
}
