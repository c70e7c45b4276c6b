package config_test

import (
	"testing"
	"time"

	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/config"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/stretchr/testify/assert"
)

var _ identity.Config = (*config.Auth)(nil)
var _ persistence.Config = (*config.Persistence)(nil)

func TestServerDefaults(t *testing.T) {
	srv := config.Server{}
	assert.Equal(t, ":8080", srv.GetAddress())
	assert.False(t, srv.GetDebug())

	srv = config.Server{Address: ":9999", Debug: true}
	assert.Equal(t, ":9999", srv.GetAddress())
	assert.True(t, srv.GetDebug())
}

func TestAuthDefaults(t *testing.T) {
	auth := &config.Auth{}

	assert.Equal(t, "HS256", auth.GetSigningMethod())
	assert.Equal(t, "user", auth.GetContextKey())
	assert.Zero(t, auth.GetTokenExpiration())
}

func TestAuthValidate(t *testing.T) {
	auth := config.Auth{}
	assert.Error(t, auth.Validate())

	auth.SigningKey = "short"
	assert.Error(t, auth.Validate())

	auth.SigningKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, auth.Validate())
}

func TestPersistenceDefaults(t *testing.T) {
	p := &config.Persistence{}

	assert.Equal(t, "sqlite", p.GetDriver())
	assert.Equal(t, 5*time.Second, p.GetPingTimeout())

	p.PingTimeoutExpression = "30s"
	assert.Equal(t, 30*time.Second, p.GetPingTimeout())

	assert.Equal(t, "go-identity", p.GetOtelIdentifier())
	p.OtelIdentifier = "identity-svc"
	assert.Equal(t, "identity-svc", p.GetOtelIdentifier())
}

func TestPersistencePingTimeoutPanics(t *testing.T) {
	p := &config.Persistence{PingTimeoutExpression: "not-a-duration"}

	assert.Panics(t, func() {
		p.GetPingTimeout()
	})
}
