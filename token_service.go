package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultAccessTokenTTL is used when no expiration is configured.
const DefaultAccessTokenTTL = 30 * time.Minute

// RefreshTokenTTL is the lifetime of refresh tokens. It is fixed and not
// configurable.
const RefreshTokenTTL = 7 * 24 * time.Hour

// TokenVerification is the non-error verification report for a token.
type TokenVerification struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
}

// TokenService mints and validates the signed tokens that carry a user's
// session between requests.
type TokenService interface {
	IssueAccessToken(username string) (string, error)
	IssueRefreshToken(username string) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
	Verify(tokenString string) TokenVerification
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// NewTokenService creates a new TokenService instance. tokenExpiration is
// the access token lifetime in minutes; values <= 0 fall back to the
// 30 minute default.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	accessTTL := DefaultAccessTokenTTL
	if tokenExpiration > 0 {
		accessTTL = time.Duration(tokenExpiration) * time.Minute
	}

	return &TokenServiceImpl{
		signingKey: signingKey,
		accessTTL:  accessTTL,
		issuer:     issuer,
		audience:   audience,
		logger:     logger,
	}
}

// IssueAccessToken creates a short lived token with the username as subject
func (ts *TokenServiceImpl) IssueAccessToken(username string) (string, error) {
	return ts.issue(username, TokenUseAccess, ts.accessTTL)
}

// IssueRefreshToken creates a long lived token with the username as subject
func (ts *TokenServiceImpl) IssueRefreshToken(username string) (string, error) {
	return ts.issue(username, TokenUseRefresh, RefreshTokenTTL)
}

func (ts *TokenServiceImpl) issue(username, use string, ttl time.Duration) (string, error) {
	if username == "" {
		return "", ErrNoEmptyString
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   username,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Use: use,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		if claims.Subject() == "" {
			ts.logger.Error("TokenService validate rejected token without a subject")
			return nil, ErrTokenInvalid
		}
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenInvalid
}

// Verify reports whether a token is valid and, when it is, the username it
// was issued for. Verification failures are part of the report, not errors.
func (ts *TokenServiceImpl) Verify(tokenString string) TokenVerification {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return TokenVerification{Valid: false}
	}

	return TokenVerification{
		Valid:    true,
		Username: claims.Username(),
	}
}
