package identity

import (
	"context"
)

// TokenPair is the credential bundle returned by a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Auther verifies credentials against the user store and mints token pairs.
type Auther struct {
	users          Users
	tokenService   TokenService
	tokenValidator TokenValidator
	logger         Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users Users, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		users:        users,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService replaces the default token service, mostly for tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithTokenValidator sets a custom token validator for externally issued tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login checks the given credentials and returns a fresh token pair.
// An unknown username and a bad password are distinct failures: the first
// resolves to ErrUserNotFound, the second to ErrMismatchedHashAndPassword.
func (s *Auther) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Login user lookup failed", "username", username, "error", err)
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Error("Login password mismatch", "username", username)
		return nil, err
	}

	accessToken, err := s.tokenService.IssueAccessToken(user.Username)
	if err != nil {
		s.logger.Error("Login access token issue failed", "error", err)
		return nil, err
	}

	refreshToken, err := s.tokenService.IssueRefreshToken(user.Username)
	if err != nil {
		s.logger.Error("Login refresh token issue failed", "error", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Validator returns the active token validator, the custom one when set,
// otherwise the token service itself.
func (s *Auther) Validator() TokenValidator {
	if s.tokenValidator != nil {
		return s.tokenValidator
	}
	return s.tokenService
}
