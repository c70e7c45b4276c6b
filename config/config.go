package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// BaseConfig is the application configuration root. Values load from
// defaults, config files, and the environment via go-config.
type BaseConfig struct {
	Server      Server      `json:"server"`
	Auth        Auth        `json:"auth"`
	Persistence Persistence `json:"persistence"`
}

func (a *BaseConfig) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Auth),
		validation.Field(&a.Persistence),
	)
}

func (a *BaseConfig) GetServer() Server {
	return a.Server
}

func (a *BaseConfig) GetAuth() *Auth {
	return &a.Auth
}

func (a *BaseConfig) GetPersistence() *Persistence {
	return &a.Persistence
}

type Server struct {
	Address string `json:"address"`
	Debug   bool   `json:"debug"`
}

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8080"
	}
	return s.Address
}

func (s Server) GetDebug() bool {
	return s.Debug
}

// Auth carries the token signing options. It satisfies the identity
// package's Config interface.
type Auth struct {
	SigningKey      string   `json:"signing_key"`
	SigningMethod   string   `json:"signing_method"`
	ContextKey      string   `json:"context_key"`
	TokenExpiration int      `json:"token_expiration"`
	TokenLookup     string   `json:"token_lookup"`
	AuthScheme      string   `json:"auth_scheme"`
	Issuer          string   `json:"issuer"`
	Audience        []string `json:"audience"`
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required, validation.Length(32, 0)),
	)
}

func (a *Auth) GetSigningKey() string {
	return a.SigningKey
}

func (a *Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a *Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "user"
	}
	return a.ContextKey
}

// GetTokenExpiration is the access token lifetime in minutes.
func (a *Auth) GetTokenExpiration() int {
	return a.TokenExpiration
}

func (a *Auth) GetTokenLookup() string {
	return a.TokenLookup
}

func (a *Auth) GetAuthScheme() string {
	return a.AuthScheme
}

func (a *Auth) GetIssuer() string {
	return a.Issuer
}

func (a *Auth) GetAudience() []string {
	return a.Audience
}

// Persistence carries database options in the shape go-persistence-bun
// expects from its config argument.
type Persistence struct {
	Driver                string `json:"driver"`
	DSN                   string `json:"dsn"`
	Server                string `json:"server"`
	Database              string `json:"database"`
	Debug                 bool   `json:"debug"`
	PingTimeoutExpression string `json:"ping_timeout"`
	OtelIdentifier        string `json:"otel_identifier"`
}

func (p Persistence) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DSN, validation.Required),
	)
}

func (p *Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p *Persistence) GetDSN() string {
	return p.DSN
}

func (p *Persistence) GetServer() string {
	return p.Server
}

func (p *Persistence) GetDatabase() string {
	return p.Database
}

func (p *Persistence) GetDebug() bool {
	return p.Debug
}

func (p *Persistence) GetOtelIdentifier() string {
	if p.OtelIdentifier == "" {
		return "go-identity"
	}
	return p.OtelIdentifier
}

func (p *Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return 5 * time.Second
	}
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}
