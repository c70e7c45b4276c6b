package identity

import (
	"context"

	"github.com/goliatone/go-router"
)

// Gateway turns bearer tokens into full user records. Token problems and
// missing users stay distinct: a bad or expired token resolves to an auth
// error, a valid token whose user is gone resolves to ErrUserNotFound.
type Gateway struct {
	users     UserStore
	validator TokenValidator
	logger    Logger
}

func NewGateway(users UserStore, validator TokenValidator, logger Logger) *Gateway {
	if logger == nil {
		logger = defLogger{}
	}
	return &Gateway{
		users:     users,
		validator: validator,
		logger:    logger,
	}
}

// Resolve validates the raw token and loads the user it was issued for.
func (g *Gateway) Resolve(ctx context.Context, raw string) (*User, error) {
	claims, err := g.validator.Validate(raw)
	if err != nil {
		g.logger.Error("Gateway resolve token validation failed", "error", err)
		return nil, err
	}

	username := claims.Username()
	if username == "" {
		g.logger.Error("Gateway resolve token missing subject")
		return nil, ErrTokenInvalid
	}

	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		g.logger.Error("Gateway resolve user lookup failed", "username", username, "error", err)
		return nil, err
	}

	return user, nil
}

// ResolveClaims resolves claims already validated upstream, e.g. by the JWT
// middleware, into the backing user record.
func (g *Gateway) ResolveClaims(ctx context.Context, claims AuthClaims) (*User, error) {
	if claims == nil {
		return nil, ErrTokenInvalid
	}

	username := claims.Username()
	if username == "" {
		return nil, ErrTokenInvalid
	}

	return g.users.GetByUsername(ctx, username)
}

// Middleware resolves the current user from the claims stored by the JWT
// middleware and makes it available via locals and the request context.
// It must run after the token middleware.
func (g *Gateway) Middleware(contextKey string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			claims, ok := GetRouterClaims(c, contextKey)
			if !ok {
				return RespondError(c, ErrTokenInvalid)
			}

			user, err := g.ResolveClaims(c.Context(), claims)
			if err != nil {
				return RespondError(c, err)
			}

			c.Locals(CurrentUserKey, user)
			c.SetContext(WithContext(c.Context(), user))

			return next(c)
		}
	}
}
