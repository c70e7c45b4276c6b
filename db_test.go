package identity_test

import (
	"context"
	"database/sql"
	"testing"

	identity "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// setupTestDB opens an in memory database with the auth tables created.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	models := []any{
		(*identity.User)(nil),
		(*identity.Group)(nil),
		(*identity.UserGroupMembership)(nil),
		(*identity.Permission)(nil),
		(*identity.GroupPermissionGrant)(nil),
	}

	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func seedUser(t *testing.T, db *bun.DB, username, password string) *identity.User {
	t.Helper()

	hash, err := identity.HashPassword(password)
	require.NoError(t, err)

	user := &identity.User{
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
		IsActive:     true,
	}

	user, err = identity.NewUsersRepository(db).Create(context.Background(), user)
	require.NoError(t, err)

	return user
}
